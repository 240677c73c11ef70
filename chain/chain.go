package chain

import (
	"sync"

	"github.com/xcqa/chain-core/chainerr"
	"github.com/xcqa/chain-core/chainvalidate"
)

// Chain is the single-writer, multi-reader ordered sequence of blocks. The
// balances map is a structural placeholder only; no transaction actually
// debits or credits it yet.
type Chain struct {
	mu       sync.RWMutex
	blocks   []chainvalidate.Block
	balances map[[32]byte]uint64
}

// Genesis constructs the zero block: height 0, all-zero prev_hash, no
// transactions, fine difficulty 1, tier 0.
func Genesis() *Chain {
	header := chainvalidate.BlockHeader{
		Height:         0,
		FineDifficulty: 1,
	}
	return &Chain{
		blocks:   []chainvalidate.Block{{Header: header}},
		balances: make(map[[32]byte]uint64),
	}
}

// Height returns the current chain tip's height.
func (c *Chain) Height() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[len(c.blocks)-1].Header.Height
}

// Tip returns a copy of the current chain tip block.
func (c *Chain) Tip() chainvalidate.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[len(c.blocks)-1]
}

// Timestamps returns the timestamps of every block from genesis to the
// current tip, in height order, for use by Retarget.
func (c *Chain) Timestamps() []uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ts := make([]uint64, len(c.blocks))
	for i, b := range c.blocks {
		ts[i] = b.Header.Timestamp
	}
	return ts
}

// NextDifficulty returns the (tier, fine) pair the next block's header
// should carry, per the closed-form retargeting rule.
func (c *Chain) NextDifficulty() (uint8, uint8) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tip := c.blocks[len(c.blocks)-1]
	ts := make([]uint64, len(c.blocks))
	for i, b := range c.blocks {
		ts[i] = b.Header.Timestamp
	}
	return Retarget(tip.Header.DifficultyTier, tip.Header.FineDifficulty, ts)
}

// Append requires B.header.height == tip.height+1 and
// B.header.prev_hash == hash(tip.header). On success the block is appended
// and the height increments.
func (c *Chain) Append(b chainvalidate.Block) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tip := c.blocks[len(c.blocks)-1]
	if b.Header.Height != tip.Header.Height+1 {
		return &chainerr.InvalidBlock{Reason: "Invalid height"}
	}
	if b.Header.PrevHash != tip.Header.Hash() {
		return &chainerr.InvalidBlock{Reason: "Invalid prev_hash"}
	}
	c.blocks = append(c.blocks, b)
	return nil
}
