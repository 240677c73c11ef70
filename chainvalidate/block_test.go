package chainvalidate

import (
	"testing"

	"github.com/xcqa/chain-core/xcqa"
)

func TestBlockHeaderHashDeterministic(t *testing.T) {
	h := BlockHeader{Height: 5, Timestamp: 100, DifficultyTier: 1, FineDifficulty: 2}
	if h.Hash() != h.Hash() {
		t.Fatal("header hash is not deterministic")
	}
}

func TestBlockHeaderHashDiffersOnHeight(t *testing.T) {
	h1 := BlockHeader{Height: 5, Timestamp: 100}
	h2 := BlockHeader{Height: 6, Timestamp: 100}
	if h1.Hash() == h2.Hash() {
		t.Fatal("expected different heights to produce different hashes")
	}
}

func TestBlockVerifyPoWRoundTrip(t *testing.T) {
	header := BlockHeader{Height: 1, Timestamp: 100, DifficultyTier: 0, FineDifficulty: 0}
	blockHash := header.Hash()

	pk, sk, err := xcqa.KeyGen(8)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}

	var nonce [32]byte
	nonce[0] = 3
	msg := append(append([]byte{}, blockHash[:]...), nonce[:]...)
	sig, err := xcqa.SignWithContext(msg, sk, pk, blockHash)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	b := &Block{Header: header, XCQASig: sig, XCQANonce: nonce}
	if err := b.VerifyPoW(pk); err != nil {
		t.Fatalf("expected valid PoW signature to verify, got: %v", err)
	}
}

func TestBlockVerifyPoWFailsOnWrongEpochKey(t *testing.T) {
	header := BlockHeader{Height: 1, Timestamp: 100}
	blockHash := header.Hash()

	pk, sk, err := xcqa.KeyGen(8)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	otherPK, _, err := xcqa.KeyGen(8)
	if err != nil {
		t.Fatalf("keygen 2: %v", err)
	}

	var nonce [32]byte
	msg := append(append([]byte{}, blockHash[:]...), nonce[:]...)
	sig, err := xcqa.SignWithContext(msg, sk, pk, blockHash)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	b := &Block{Header: header, XCQASig: sig, XCQANonce: nonce}
	if err := b.VerifyPoW(otherPK); err == nil {
		t.Fatal("expected verification against the wrong epoch key to fail")
	}
}

func TestBlockVerifyTransactionsRejectsCountMismatch(t *testing.T) {
	b := &Block{Header: BlockHeader{Height: 1}, Transactions: make([]Transaction, 2)}
	if err := b.VerifyTransactions(nil, nil); err == nil {
		t.Fatal("expected mismatched public key count to fail")
	}
}
