// Package xcqa wraps SLH-DSA as the layered post-quantum signature scheme
// used by the proof-of-work engine. SLH-DSA's hypertree of one-time
// signature layers is the closest real primitive to the abstract "layered"
// signature the mining protocol is specified against; layers maps onto the
// hypertree's parameter set rather than a tunable runtime knob.
package xcqa

import (
	"crypto/rand"
	"fmt"

	"github.com/luxfi/crypto/slhdsa"
)

// modeForLayers selects the SLH-DSA parameter set backing a given layer
// count: up to 8 layers maps to SHAKE-128f, up to 16 to SHAKE-192f, and
// anything larger to SHAKE-256f. All three are the fast ("f") variants, so
// the layer count selects the security level, not the small/fast split.
func modeForLayers(layers int) slhdsa.Mode {
	switch {
	case layers <= 8:
		return slhdsa.SHAKE_128f
	case layers <= 16:
		return slhdsa.SHAKE_192f
	default:
		return slhdsa.SHAKE_256f
	}
}

// PublicKey is a layered signature verification key.
type PublicKey struct {
	Layers int
	mode   slhdsa.Mode
	raw    []byte
}

// PrivateKey is a layered signing key.
type PrivateKey struct {
	Layers int
	mode   slhdsa.Mode
	inner  *slhdsa.PrivateKey
}

// Signature bundles the commitment and response halves of a layered
// signature, matching the shape the mining protocol serializes on the wire.
type Signature struct {
	Commitment []byte
	Response   []byte
}

// KeyGen derives a fresh layered keypair with the given layer count.
func KeyGen(layers int) (PublicKey, *PrivateKey, error) {
	mode := modeForLayers(layers)
	priv, err := slhdsa.GenerateKey(rand.Reader, mode)
	if err != nil {
		return PublicKey{}, nil, fmt.Errorf("xcqa: keygen: %w", err)
	}
	pub := PublicKey{Layers: layers, mode: mode, raw: priv.PublicKey.Bytes()}
	return pub, &PrivateKey{Layers: layers, mode: mode, inner: priv}, nil
}

// SignWithContext signs msg, binding the signature to blockHash so a
// signature minted for one chain tip cannot be replayed against another.
func SignWithContext(msg []byte, sk *PrivateKey, pk PublicKey, blockHash [64]byte) (Signature, error) {
	ctxMsg := append(append([]byte{}, blockHash[:]...), msg...)
	raw, err := sk.inner.Sign(rand.Reader, ctxMsg, nil)
	if err != nil {
		return Signature{}, fmt.Errorf("xcqa: sign: %w", err)
	}
	half := len(raw) / 2
	return Signature{
		Commitment: append([]byte{}, raw[:half]...),
		Response:   append([]byte{}, raw[half:]...),
	}, nil
}

// VerifyWithContext checks a signature under the same context binding used
// in SignWithContext.
func VerifyWithContext(msg []byte, sig Signature, pk PublicKey, blockHash [64]byte) bool {
	pub, err := slhdsa.PublicKeyFromBytes(pk.raw, pk.mode)
	if err != nil {
		return false
	}
	ctxMsg := append(append([]byte{}, blockHash[:]...), msg...)
	raw := append(append([]byte{}, sig.Commitment...), sig.Response...)
	return pub.Verify(ctxMsg, raw, nil)
}

// Bytes returns the raw encoded public key.
func (pk PublicKey) Bytes() []byte { return pk.raw }

// PublicKeyFromBytes reconstructs a PublicKey for a known layer count from
// its raw encoding.
func PublicKeyFromBytes(raw []byte, layers int) PublicKey {
	return PublicKey{Layers: layers, mode: modeForLayers(layers), raw: append([]byte{}, raw...)}
}
