package xhash

import "testing"

func TestBlake3_512Length(t *testing.T) {
	h := Blake3_512([]byte("test"))
	if len(h) != DigestSize {
		t.Fatalf("got %d bytes, want %d", len(h), DigestSize)
	}
}

func TestBlake3_512Deterministic(t *testing.T) {
	a := Blake3_512([]byte("test"))
	b := Blake3_512([]byte("test"))
	if a != b {
		t.Fatal("blake3 digest is not deterministic")
	}
	c := Blake3_512([]byte("different"))
	if a == c {
		t.Fatal("different inputs produced the same digest")
	}
}

func TestSha512Length(t *testing.T) {
	h := Sha512([]byte("test"))
	if len(h) != DigestSize {
		t.Fatalf("got %d bytes, want %d", len(h), DigestSize)
	}
}

func TestHKDFExpandLength(t *testing.T) {
	kdf := Extract([]byte("salt"), []byte("input key material"))
	out := kdf.Expand([]byte("info"), 32)
	if len(out) != 32 {
		t.Fatalf("got %d bytes, want 32", len(out))
	}
}

func TestHKDFDeterministic(t *testing.T) {
	a := Extract([]byte("salt"), []byte("ikm")).Expand([]byte("info"), 64)
	b := Extract([]byte("salt"), []byte("ikm")).Expand([]byte("info"), 64)
	if string(a) != string(b) {
		t.Fatal("hkdf is not deterministic")
	}
	c := Extract([]byte("salt"), []byte("other ikm")).Expand([]byte("info"), 64)
	if string(a) == string(c) {
		t.Fatal("different ikm produced the same output")
	}
}
