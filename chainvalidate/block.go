package chainvalidate

import (
	"encoding/binary"

	"github.com/xcqa/chain-core/chainerr"
	"github.com/xcqa/chain-core/commitment"
	"github.com/xcqa/chain-core/mldsaadapter"
	"github.com/xcqa/chain-core/xcqa"
	"github.com/xcqa/chain-core/xhash"
)

// BlockHeader is the fixed-size preimage hashed to identify a block and to
// anchor its proof-of-work signature and epoch key derivation.
type BlockHeader struct {
	Height           uint64
	PrevHash         [64]byte
	Timestamp        uint64
	DifficultyTier   uint8
	FineDifficulty   uint8
}

// Bytes returns the canonical header preimage: LE64(height) || prev_hash ||
// LE64(timestamp) || [tier] || [fine].
func (h BlockHeader) Bytes() []byte {
	buf := make([]byte, 0, 8+64+8+1+1)
	var heightBuf, tsBuf [8]byte
	binary.LittleEndian.PutUint64(heightBuf[:], h.Height)
	binary.LittleEndian.PutUint64(tsBuf[:], h.Timestamp)
	buf = append(buf, heightBuf[:]...)
	buf = append(buf, h.PrevHash[:]...)
	buf = append(buf, tsBuf[:]...)
	buf = append(buf, h.DifficultyTier, h.FineDifficulty)
	return buf
}

// Hash returns the BLAKE3-512 digest of the header's canonical bytes. This
// digest both identifies the block and serves as the XCQA context binding
// for its proof-of-work signature.
func (h BlockHeader) Hash() [64]byte {
	return xhash.Blake3_512(h.Bytes())
}

// Block is a mined block: a header, its transactions, and the
// proof-of-work signature authorizing it.
type Block struct {
	Header       BlockHeader
	Transactions []Transaction
	XCQASig      xcqa.Signature
	XCQANonce    [32]byte
}

// VerifyPoW recomputes the block hash and checks the proof-of-work
// signature against epochPK. The difficulty predicate applied during
// mining is not re-checked here; the layered-signature verification itself
// is the proof-of-work check at validation time.
func (b *Block) VerifyPoW(epochPK xcqa.PublicKey) error {
	blockHash := b.Header.Hash()
	msg := append(append([]byte{}, blockHash[:]...), b.XCQANonce[:]...)
	if !xcqa.VerifyWithContext(msg, b.XCQASig, epochPK, blockHash) {
		return &chainerr.InvalidBlock{Reason: "Invalid PoW signature"}
	}
	return nil
}

// VerifyTransactions verifies every transaction in the block against its
// corresponding sender public key and the shared commitment matrix.
func (b *Block) VerifyTransactions(senderPKs []mldsaadapter.PublicKey, a *commitment.Matrix) error {
	if len(senderPKs) != len(b.Transactions) {
		return &chainerr.InvalidBlock{Reason: "Mismatched public keys count"}
	}
	blockHash := b.Header.Hash()
	for i := range b.Transactions {
		if err := Verify(&b.Transactions[i], senderPKs[i], a, blockHash); err != nil {
			return &chainerr.InvalidBlock{Reason: err.Error()}
		}
	}
	return nil
}
