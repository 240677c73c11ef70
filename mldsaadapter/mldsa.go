// Package mldsaadapter wraps ML-DSA-65 as the fixed-size external signature
// primitive used to authorize transactions. The internal algorithm is
// entirely opaque here; only the invocation contract is exposed: encode/decode
// of fixed-size keys and signatures, and a verify function that never panics
// on malformed input.
package mldsaadapter

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/luxfi/crypto/mldsa"
	"golang.org/x/crypto/chacha20"

	"github.com/xcqa/chain-core/secret"
)

// Fixed sizes for ML-DSA-65.
const (
	PublicKeySize = 1952
	SignatureSize = 3309
	SeedSize      = 32
)

var mode = mldsa.MLDSA65

// PublicKey is the 1952-byte ML-DSA-65 public key.
type PublicKey [PublicKeySize]byte

// Signature is the 3309-byte ML-DSA-65 signature.
type Signature [SignatureSize]byte

// PrivateKey holds only the 32-byte seed a signing key is deterministically
// re-derived from on every Sign call, so nothing larger needs to stay
// resident in memory. Wrapped in a secret.Box so callers are nudged to Wipe
// it when done.
type PrivateKey struct {
	seed secret.Box[[SeedSize]byte]
}

// seededReader turns a 32-byte seed into a deterministic randomness stream
// via ChaCha20, so the same seed always reconstructs the identical ML-DSA
// keypair through mldsa.GenerateKey's rand.Reader argument.
func seededReader(seed [SeedSize]byte) io.Reader {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		panic("mldsaadapter: chacha20 init: " + err.Error())
	}
	return &cipherReader{cipher: c}
}

type cipherReader struct{ cipher *chacha20.Cipher }

func (r *cipherReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	r.cipher.XORKeyStream(p, p)
	return len(p), nil
}

// NewPrivateKeyFromSeed reconstitutes a private key from its 32-byte seed.
func NewPrivateKeyFromSeed(seed [SeedSize]byte) *PrivateKey {
	return &PrivateKey{seed: secret.New(seed)}
}

// Seed returns a copy of the stored seed. The caller takes over the
// secret-handling obligation for the copy.
func (sk *PrivateKey) Seed() [SeedSize]byte {
	return sk.seed.Value()
}

// GenerateKeyPair creates a fresh ML-DSA-65 keypair from a random 32-byte
// seed.
func GenerateKeyPair() (PublicKey, *PrivateKey, error) {
	var seed [SeedSize]byte
	if _, err := io.ReadFull(rand.Reader, seed[:]); err != nil {
		return PublicKey{}, nil, fmt.Errorf("mldsaadapter: seed: %w", err)
	}
	pk, err := derivePublicKey(seed)
	if err != nil {
		return PublicKey{}, nil, err
	}
	return pk, &PrivateKey{seed: secret.New(seed)}, nil
}

func derivePrivateKey(seed [SeedSize]byte) (*mldsa.PrivateKey, error) {
	priv, err := mldsa.GenerateKey(seededReader(seed), mode)
	if err != nil {
		return nil, fmt.Errorf("mldsaadapter: derive from seed: %w", err)
	}
	return priv, nil
}

func derivePublicKey(seed [SeedSize]byte) (PublicKey, error) {
	priv, err := derivePrivateKey(seed)
	if err != nil {
		return PublicKey{}, err
	}
	var pk PublicKey
	copy(pk[:], priv.PublicKey.Bytes())
	return pk, nil
}

// Sign produces a signature over msg using the private key's seed-derived
// signing key.
func (sk *PrivateKey) Sign(msg []byte) (Signature, error) {
	seed := sk.seed.Value()
	priv, err := derivePrivateKey(seed)
	if err != nil {
		return Signature{}, err
	}
	raw, err := priv.Sign(rand.Reader, msg, nil)
	if err != nil {
		return Signature{}, fmt.Errorf("mldsaadapter: sign: %w", err)
	}
	var sig Signature
	copy(sig[:], raw)
	return sig, nil
}

// PublicKey recomputes the public key matching this private key's seed.
func (sk *PrivateKey) PublicKey() (PublicKey, error) {
	return derivePublicKey(sk.seed.Value())
}

// Wipe zeroizes the stored seed. Safe to call more than once.
func (sk *PrivateKey) Wipe() { sk.seed.Wipe() }

// Verify checks a signature against a message and public key. Malformed
// input of any kind (wrong-length key, undecodable signature) returns
// false, never panics or returns an error.
func Verify(msg []byte, sig Signature, pk PublicKey) bool {
	pub, err := mldsa.PublicKeyFromBytes(pk[:], mode)
	if err != nil {
		return false
	}
	return pub.Verify(msg, sig[:], nil)
}
