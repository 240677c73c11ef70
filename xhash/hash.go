// Package xhash collects the hash primitives used across the chain core:
// BLAKE3-512 for content addressing and Fiat–Shamir challenges, SHA-512 as a
// secondary digest, and HKDF-SHA256 for epoch-key derivation.
package xhash

import (
	"crypto/sha256"
	"crypto/sha512"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/hkdf"
)

// DigestSize is the length of a Blake3_512 or Sha512 digest.
const DigestSize = 64

// Blake3_512 hashes data with BLAKE3 in XOF mode, reading 64 bytes of
// output.
func Blake3_512(data []byte) [DigestSize]byte {
	h := blake3.New()
	h.Write(data) //nolint:errcheck // Hasher.Write never fails
	var out [DigestSize]byte
	d := h.Digest()
	_, _ = io.ReadFull(d, out[:])
	return out
}

// Sha512 computes the standard SHA-512 digest.
func Sha512(data []byte) [DigestSize]byte {
	return sha512.Sum512(data)
}

// HKDF implements HKDF-SHA256 as a two-step extract/expand object: a
// separate Extract(salt, ikm) -> prk followed by Expand(info, len).
type HKDF struct {
	prk [sha256.Size]byte
}

// Extract runs HKDF-Extract(salt, ikm) and stores the resulting PRK.
func Extract(salt, ikm []byte) HKDF {
	var out HKDF
	copy(out.prk[:], hkdf.Extract(sha256.New, ikm, salt))
	return out
}

// Expand runs HKDF-Expand(prk, info, length) and returns `length` bytes.
func (h HKDF) Expand(info []byte, length int) []byte {
	r := hkdf.Expand(sha256.New, h.prk[:], info)
	out := make([]byte, length)
	if _, err := io.ReadFull(r, out); err != nil {
		panic("xhash: hkdf expand failed: " + err.Error())
	}
	return out
}
