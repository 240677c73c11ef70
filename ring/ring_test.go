package ring

import "testing"

func TestAddCommutative(t *testing.T) {
	a := Element{}
	b := Element{}
	a.Coeffs[0] = 12345
	a.Coeffs[10] = 99
	b.Coeffs[0] = 7
	b.Coeffs[10] = Q - 1
	if !Equal(Add(a, b), Add(b, a)) {
		t.Fatal("addition is not commutative")
	}
}

func TestSubUndoesAdd(t *testing.T) {
	a := Element{}
	b := Element{}
	a.Coeffs[5] = 42
	b.Coeffs[5] = Q - 1
	sum := Add(a, b)
	if !Equal(Sub(sum, b), a) {
		t.Fatal("(a+b)-b != a")
	}
}

func TestMulIdentity(t *testing.T) {
	a := Element{}
	a.Coeffs[3] = 1234
	a.Coeffs[100] = 56789

	one := Element{}
	one.Coeffs[0] = 1

	if !Equal(Mul(a, one), a) {
		t.Fatal("a*1 != a")
	}
}

func TestMulBasic(t *testing.T) {
	a := Element{}
	b := Element{}
	a.Coeffs[0] = 5
	b.Coeffs[0] = 3
	c := Mul(a, b)
	if c.Coeffs[0] != 15 {
		t.Fatalf("5*3 = %d, want 15", c.Coeffs[0])
	}
}

func TestMulNegacyclicReduction(t *testing.T) {
	// X^255 * X^1 = X^256 = -1 (mod X^256+1)
	a := Element{}
	b := Element{}
	a.Coeffs[N-1] = 2
	b.Coeffs[1] = 3
	c := Mul(a, b)
	want := Q - 6
	if c.Coeffs[0] != want {
		t.Fatalf("coeff 0 = %d, want %d", c.Coeffs[0], want)
	}
}

func TestMulCommutativeAssociative(t *testing.T) {
	a := Element{}
	b := Element{}
	c := Element{}
	a.Coeffs[1] = 111
	a.Coeffs[200] = 222
	b.Coeffs[2] = 333
	b.Coeffs[201] = 444
	c.Coeffs[3] = 555

	if !Equal(Mul(a, b), Mul(b, a)) {
		t.Fatal("multiplication is not commutative")
	}
	if !Equal(Mul(Mul(a, b), c), Mul(a, Mul(b, c))) {
		t.Fatal("multiplication is not associative")
	}
}

func TestVectorOps(t *testing.T) {
	v1 := ZeroVector(3)
	v2 := ZeroVector(3)
	v1[0].Coeffs[0] = 1
	v2[0].Coeffs[0] = 2
	sum := AddVec(v1, v2)
	if sum[0].Coeffs[0] != 3 {
		t.Fatalf("vector add mismatch: %d", sum[0].Coeffs[0])
	}
	if !EqualVec(SubVec(sum, v2), v1) {
		t.Fatal("(v1+v2)-v2 != v1")
	}
}

func TestAddVecLengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on length mismatch")
		}
	}()
	AddVec(ZeroVector(2), ZeroVector(3))
}
