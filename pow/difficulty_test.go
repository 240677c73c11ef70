package pow

import "testing"

func TestCheckDifficulty(t *testing.T) {
	var h [64]byte
	h[3] = 1 // three leading zero bytes, then nonzero

	if !CheckDifficulty(h, 3) {
		t.Fatal("expected 3 leading zero bytes to satisfy difficulty 3")
	}
	if CheckDifficulty(h, 4) {
		t.Fatal("expected 3 leading zero bytes to fail difficulty 4")
	}
}

func TestCheckDifficultyZero(t *testing.T) {
	var h [64]byte
	h[0] = 1
	if !CheckDifficulty(h, 0) {
		t.Fatal("difficulty 0 should always pass")
	}
}

func TestCheckDifficultyAllZero(t *testing.T) {
	var h [64]byte
	if !CheckDifficulty(h, 64) {
		t.Fatal("all-zero digest should satisfy max difficulty")
	}
}
