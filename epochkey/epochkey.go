// Package epochkey derives the per-epoch proof-of-work verification key
// material from chain history, so a signature minted against one epoch's
// key cannot be replayed once the chain advances past it.
package epochkey

import (
	"encoding/binary"

	"github.com/xcqa/chain-core/xhash"
)

const (
	saltLabel = "XCQA-POW-SALT"
	infoLabel = "XCQA-POW-EPOCH-V1"
)

// Generate derives layers*32 bytes of epoch key material bound to the
// previous block hash, the new block's height, and the active difficulty
// tier. Different layer counts, heights, or tiers always yield disjoint key
// material for the same prevBlockHash.
func Generate(prevBlockHash [64]byte, height uint64, difficultyTier uint8, layers int) []byte {
	hk := xhash.Extract([]byte(saltLabel), prevBlockHash[:])

	info := make([]byte, 0, len(infoLabel)+8+1+8)
	info = append(info, infoLabel...)
	var heightBuf [8]byte
	binary.LittleEndian.PutUint64(heightBuf[:], height)
	info = append(info, heightBuf[:]...)
	info = append(info, difficultyTier)
	var layersBuf [8]byte
	binary.LittleEndian.PutUint64(layersBuf[:], uint64(layers))
	info = append(info, layersBuf[:]...)

	return hk.Expand(info, 32*layers)
}
