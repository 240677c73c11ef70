package rangeproof

import (
	"encoding/binary"
	"fmt"

	"github.com/xcqa/chain-core/commitment"
	"github.com/xcqa/chain-core/ring"
)

// Marshal canonically serializes a proof: each of the Bits bit commitments
// as an LE32 element count followed by its K ring elements (N little-endian
// uint32 coefficients each), then for each bit proof its commitment (same
// layout), its response_r (same layout, L elements) and its response_b
// byte. Field order matches the struct declaration
// order, per the wire convention in SPEC_FULL.md §6.
func Marshal(p *Proof) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("rangeproof: marshal: nil proof")
	}
	var buf []byte
	for _, c := range p.BitCommitments {
		buf = appendVector(buf, c.C)
	}
	for _, bp := range p.BitProofs {
		buf = appendVector(buf, bp.Commitment.C)
		buf = appendVector(buf, bp.ResponseR.R)
		buf = append(buf, bp.ResponseB)
	}
	return buf, nil
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
		return nil, nil, fmt.Errorf("rangeproof: truncated vector length")
	}
	n := binary.LittleEndian.Uint32(buf)
	buf = buf[4:]
	need := int(n) * ring.N * 4
	if need < 0 || len(buf) < need {
		return nil, nil, fmt.Errorf("rangeproof: truncated vector body")
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

// Unmarshal reverses Marshal, rejecting truncated or malformed input
// without allocating proportionally to an attacker-controlled length field
// beyond what the fixed Bits count requires.
func Unmarshal(data []byte) (*Proof, error) {
	var p Proof
	buf := data
	var err error
	for i := 0; i < Bits; i++ {
		var v ring.Vector
		v, buf, err = readVector(buf)
		if err != nil {
			return nil, err
		}
		p.BitCommitments[i] = commitment.Commitment{C: v}
	}
	for i := 0; i < Bits; i++ {
		var cv, rv ring.Vector
		cv, buf, err = readVector(buf)
		if err != nil {
			return nil, err
		}
		rv, buf, err = readVector(buf)
		if err != nil {
			return nil, err
		}
		if len(buf) < 1 {
			return nil, fmt.Errorf("rangeproof: truncated response_b")
		}
		b := buf[0]
		buf = buf[1:]
		p.BitProofs[i] = BitProof{
			Commitment: commitment.Commitment{C: cv},
			ResponseR:  commitment.RandVec{R: rv},
			ResponseB:  b,
		}
	}
	return &p, nil
}
