package chainvalidate

import (
	"encoding/binary"
	"fmt"

	"github.com/xcqa/chain-core/commitment"
	"github.com/xcqa/chain-core/mldsaadapter"
	"github.com/xcqa/chain-core/ring"
	"github.com/xcqa/chain-core/rangeproof"
)

// MarshalTransaction canonically serializes a transaction: sender,
// recipient, amount commitment, range proof, nonce, signature, in
// declaration order.
func MarshalTransaction(tx *Transaction) ([]byte, error) {
	rpBytes, err := rangeproof.Marshal(tx.RangeProof)
	if err != nil {
		return nil, fmt.Errorf("chainvalidate: marshal range proof: %w", err)
	}

	var buf []byte
	buf = append(buf, tx.Sender[:]...)
	buf = append(buf, tx.Recipient[:]...)
	buf = appendVector(buf, tx.AmountCommitment.C)
	buf = appendLengthPrefixed(buf, rpBytes)
	var nonceBuf [8]byte
	binary.LittleEndian.PutUint64(nonceBuf[:], tx.Nonce)
	buf = append(buf, nonceBuf[:]...)
	buf = append(buf, tx.Signature[:]...)
	return buf, nil
}

// UnmarshalTransaction reverses MarshalTransaction, rejecting truncated
// input at every step.
func UnmarshalTransaction(data []byte) (*Transaction, error) {
	if len(data) < 64 {
		return nil, fmt.Errorf("chainvalidate: truncated transaction header")
	}
	var tx Transaction
	copy(tx.Sender[:], data[:32])
	copy(tx.Recipient[:], data[32:64])
	buf := data[64:]

	v, rest, err := readVector(buf)
	if err != nil {
		return nil, err
	}
	tx.AmountCommitment = commitment.Commitment{C: v}
	buf = rest

	rpBytes, rest, err := readLengthPrefixed(buf)
	if err != nil {
		return nil, err
	}
	rp, err := rangeproof.Unmarshal(rpBytes)
	if err != nil {
		return nil, fmt.Errorf("chainvalidate: unmarshal range proof: %w", err)
	}
	tx.RangeProof = rp
	buf = rest

	if len(buf) < 8+mldsaadapter.SignatureSize {
		return nil, fmt.Errorf("chainvalidate: truncated transaction tail")
	}
	tx.Nonce = binary.LittleEndian.Uint64(buf[:8])
	buf = buf[8:]
	copy(tx.Signature[:], buf[:mldsaadapter.SignatureSize])
	return &tx, nil
}

func appendVector(buf []byte, v ring.Vector) []byte {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(v)))
	buf = append(buf, lenBuf[:]...)
	for _, el := range v {
		for _, c := range el.Coeffs {
			var tmp [4]byte
			binary.LittleEndian.PutUint32(tmp[:], c)
			buf = append(buf, tmp[:]...)
		}
	}
	return buf
}

func readVector(buf []byte) (ring.Vector, []byte, error) {
	if len(buf) < 4 {
		return nil, nil, fmt.Errorf("chainvalidate: truncated vector length")
	}
	n := binary.LittleEndian.Uint32(buf)
	buf = buf[4:]
	need := int(n) * ring.N * 4
	if need < 0 || len(buf) < need {
		return nil, nil, fmt.Errorf("chainvalidate: truncated vector body")
	}
	v := make(ring.Vector, n)
	for i := 0; i < int(n); i++ {
		var el ring.Element
		for c := 0; c < ring.N; c++ {
			el.Coeffs[c] = binary.LittleEndian.Uint32(buf[:4])
			buf = buf[4:]
		}
		v[i] = el
	}
	return v, buf, nil
}

func appendLengthPrefixed(buf, payload []byte) []byte {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, payload...)
}

func readLengthPrefixed(buf []byte) ([]byte, []byte, error) {
	if len(buf) < 4 {
		return nil, nil, fmt.Errorf("chainvalidate: truncated length prefix")
	}
	n := binary.LittleEndian.Uint32(buf)
	buf = buf[4:]
	if int(n) < 0 || len(buf) < int(n) {
		return nil, nil, fmt.Errorf("chainvalidate: truncated payload")
	}
	return buf[:n], buf[n:], nil
}

// MarshalBlock canonically serializes a block: header, transaction vector,
// XCQA signature (length-prefixed commitment and response), nonce.
func MarshalBlock(b *Block) ([]byte, error) {
	buf := append([]byte{}, b.Header.Bytes()...)

	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(len(b.Transactions)))
	buf = append(buf, countBuf[:]...)
	for i := range b.Transactions {
		txBytes, err := MarshalTransaction(&b.Transactions[i])
		if err != nil {
			return nil, err
		}
		buf = appendLengthPrefixed(buf, txBytes)
	}

	buf = appendLengthPrefixed(buf, b.XCQASig.Commitment)
	buf = appendLengthPrefixed(buf, b.XCQASig.Response)
	buf = append(buf, b.XCQANonce[:]...)
	return buf, nil
}

// UnmarshalBlock reverses MarshalBlock.
func UnmarshalBlock(data []byte) (*Block, error) {
	const headerSize = 8 + 64 + 8 + 1 + 1
	if len(data) < headerSize {
		return nil, fmt.Errorf("chainvalidate: truncated block header")
	}
	var b Block
	b.Header.Height = binary.LittleEndian.Uint64(data[:8])
	copy(b.Header.PrevHash[:], data[8:72])
	b.Header.Timestamp = binary.LittleEndian.Uint64(data[72:80])
	b.Header.DifficultyTier = data[80]
	b.Header.FineDifficulty = data[81]
	buf := data[headerSize:]

	if len(buf) < 4 {
		return nil, fmt.Errorf("chainvalidate: truncated transaction count")
	}
	count := binary.LittleEndian.Uint32(buf)
	buf = buf[4:]
	// Every transaction occupies at least its own length prefix, so a count
	// the remaining input cannot possibly hold is rejected up front. The
	// slice below is grown per decoded transaction rather than pre-sized by
	// count, keeping allocation proportional to the input actually parsed.
	if uint64(len(buf)) < uint64(count)*4 {
		return nil, fmt.Errorf("chainvalidate: transaction count exceeds input")
	}
	for i := uint32(0); i < count; i++ {
		txBytes, rest, err := readLengthPrefixed(buf)
		if err != nil {
			return nil, err
		}
		tx, err := UnmarshalTransaction(txBytes)
		if err != nil {
			return nil, err
		}
		b.Transactions = append(b.Transactions, *tx)
		buf = rest
	}

	commitmentBytes, rest, err := readLengthPrefixed(buf)
	if err != nil {
		return nil, err
	}
	b.XCQASig.Commitment = append([]byte{}, commitmentBytes...)
	buf = rest

	responseBytes, rest, err := readLengthPrefixed(buf)
	if err != nil {
		return nil, err
	}
	b.XCQASig.Response = append([]byte{}, responseBytes...)
	buf = rest

	if len(buf) < 32 {
		return nil, fmt.Errorf("chainvalidate: truncated block nonce")
	}
	copy(b.XCQANonce[:], buf[:32])
	return &b, nil
}
