// Package chainvalidate implements transaction and block validation: the
// fixed-sequence verify steps each must pass before they are accepted onto
// the chain.
package chainvalidate

import (
	"encoding/binary"

	"github.com/xcqa/chain-core/chainerr"
	"github.com/xcqa/chain-core/commitment"
	"github.com/xcqa/chain-core/mldsaadapter"
	"github.com/xcqa/chain-core/rangeproof"
	"github.com/xcqa/chain-core/xhash"
)

// Transaction is a confidential value transfer: the amount is hidden
// behind a lattice commitment, proved in range, and authorized by the
// sender's ML-DSA signature over the transaction's own hash.
type Transaction struct {
	Sender           [32]byte
	Recipient        [32]byte
	AmountCommitment commitment.Commitment
	RangeProof       *rangeproof.Proof
	Nonce            uint64
	Signature        mldsaadapter.Signature
}

// Hash computes the canonical transaction digest the sender's signature is
// computed over. The block hash covers only the block header, not this
// digest.
func (tx *Transaction) Hash() ([64]byte, error) {
	raw, err := rangeproof.Marshal(tx.RangeProof)
	if err != nil {
		return [64]byte{}, &chainerr.SerializationError{Reason: err.Error()}
	}

	var buf []byte
	buf = append(buf, tx.Sender[:]...)
	buf = append(buf, tx.Recipient[:]...)
	buf = appendCommitment(buf, tx.AmountCommitment)
	buf = append(buf, raw...)
	var nonceBuf [8]byte
	binary.LittleEndian.PutUint64(nonceBuf[:], tx.Nonce)
	buf = append(buf, nonceBuf[:]...)

	return xhash.Blake3_512(buf), nil
}

func appendCommitment(buf []byte, c commitment.Commitment) []byte {
	for _, el := range c.C {
		for _, coeff := range el.Coeffs {
			var tmp [4]byte
			binary.LittleEndian.PutUint32(tmp[:], coeff)
			buf = append(buf, tmp[:]...)
		}
	}
	return buf
}

// Verify runs the fixed validation sequence: recompute the transaction
// hash, check the sender's signature over it, then check the range proof.
func Verify(tx *Transaction, senderPK mldsaadapter.PublicKey, a *commitment.Matrix, blockHash [64]byte) error {
	m, err := tx.Hash()
	if err != nil {
		return &chainerr.InvalidTransaction{Reason: err.Error()}
	}
	if !mldsaadapter.Verify(m[:], tx.Signature, senderPK) {
		return &chainerr.InvalidTransaction{Reason: "Invalid signature"}
	}
	if tx.RangeProof == nil || !tx.RangeProof.Verify(a, blockHash) {
		return &chainerr.InvalidTransaction{Reason: "Invalid range proof"}
	}
	return nil
}
