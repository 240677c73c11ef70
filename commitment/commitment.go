// Package commitment implements the homomorphic lattice commitment scheme
// used to hide transaction amounts: Commit(v,r,A) = A·r + v·G, where G is
// simplified to the unit vector e0 (the value lands in the constant
// coefficient of the first output element).
//
// The matrix is a fixed K×L public constant; commitments are linear maps
// over it, so homomorphic add/sub come for free.
package commitment

import (
	"fmt"

	"github.com/xcqa/chain-core/ring"
	"github.com/xcqa/chain-core/xhash"
)

// MatrixSeedLabel domain-separates the derivation of the public commitment
// matrix from any other use of Blake3_512.
const MatrixSeedLabel = "XCQA-CHAIN-COMMIT-MATRIX-V1"

// Matrix is the public K×L commitment matrix A. Once derived it is
// immutable and safe to share by reference across goroutines.
type Matrix struct {
	K, L int
	rows []ring.Vector // K rows of L elements each
}

// Row returns row i of the matrix (read-only).
func (m *Matrix) Row(i int) ring.Vector { return m.rows[i] }

// DeriveMatrix deterministically derives the K×L commitment matrix from the
// fixed domain-separated seed. Every party that derives a matrix with the
// same (k,l) gets byte-identical coefficients.
func DeriveMatrix(k, l int) *Matrix {
	seed := xhash.Blake3_512([]byte(MatrixSeedLabel))
	rows := make([]ring.Vector, k)
	for i := 0; i < k; i++ {
		row := make(ring.Vector, l)
		for j := 0; j < l; j++ {
			var el ring.Element
			for c := 0; c < ring.N; c++ {
				idx := (i*l*ring.N + j*ring.N + c) % len(seed)
				el.Coeffs[c] = uint32(seed[idx]) % ring.Q
			}
			row[j] = el
		}
		rows[i] = row
	}
	return &Matrix{K: k, L: l, rows: rows}
}

// RandVec is an L-element "small" randomness vector sampled per commitment.
type RandVec struct {
	R ring.Vector
}

// SampleRandVec draws an L-element randomness vector with coefficients
// uniform in [0,256), a deliberately simplified sampler shape.
func SampleRandVec(rng RNG, l int) RandVec {
	elems := make(ring.Vector, l)
	for i := 0; i < l; i++ {
		var el ring.Element
		for c := 0; c < ring.N; c++ {
			el.Coeffs[c] = uint32(rng.Uint32() % 256)
		}
		elems[i] = el
	}
	return RandVec{R: elems}
}

// RNG is the minimal randomness source this package needs; satisfied by
// math/rand/v2's ChaCha8 or any crypto/rand-backed wrapper the caller
// provides.
type RNG interface {
	Uint32() uint32
}

// Commitment is the K-element lattice commitment vector.
type Commitment struct {
	C ring.Vector
}

// Commit computes c = A·r + v·G, using only the constant coefficient of
// each r[j] as the scalar multiplier — a deliberate simplification every
// implementation of this scheme must reproduce byte-for-byte.
func Commit(value uint64, r RandVec, a *Matrix) Commitment {
	out := ring.ZeroVector(a.K)
	for i := 0; i < a.K; i++ {
		row := a.Row(i)
		acc := ring.Zero()
		for j := 0; j < a.L; j++ {
			scalar := uint64(r.R[j].Coeffs[0])
			acc = ring.Add(acc, ring.ScalarMul(row[j], scalar))
		}
		out[i] = acc
	}
	vMod := uint32(value % uint64(ring.Q))
	out[0].Coeffs[0] = (out[0].Coeffs[0] + vMod) % ring.Q
	return Commitment{C: out}
}

// Add returns the homomorphic sum of two commitments.
func Add(a, b Commitment) Commitment {
	return Commitment{C: ring.AddVec(a.C, b.C)}
}

// Sub returns the homomorphic difference of two commitments.
func Sub(a, b Commitment) Commitment {
	return Commitment{C: ring.SubVec(a.C, b.C)}
}

// Equal reports coefficient-wise equality between two commitments.
func Equal(a, b Commitment) bool {
	return ring.EqualVec(a.C, b.C)
}

// Verify recomputes Commit(value, r, a) and checks it equals com.
func Verify(value uint64, r RandVec, a *Matrix, com Commitment) error {
	recomputed := Commit(value, r, a)
	if !Equal(recomputed, com) {
		return fmt.Errorf("commitment: opening does not match commitment")
	}
	return nil
}
