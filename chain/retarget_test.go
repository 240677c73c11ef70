package chain

import "testing"

func TestRetargetBeforeHeightTwo(t *testing.T) {
	tier, fine := Retarget(3, 4, []uint64{0})
	if tier != 0 || fine != 1 {
		t.Fatalf("expected (0,1) before height 2, got (%d,%d)", tier, fine)
	}
	tier, fine = Retarget(3, 4, []uint64{0, 10})
	if tier != 0 || fine != 1 {
		t.Fatalf("expected (0,1) at height 1, got (%d,%d)", tier, fine)
	}
}

func TestRetargetDown(t *testing.T) {
	// 10 blocks spaced 15s apart, target 10s: height 9, so the window is the
	// last 9 blocks {15..135}, avg = 120/8 = 15 > 12 -> fine decreases.
	ts := make([]uint64, 10)
	for i := range ts {
		ts[i] = uint64(i) * 15
	}
	tier, fine := Retarget(0, 5, ts)
	if tier != 0 || fine != 4 {
		t.Fatalf("expected fine to drop from 5 to 4, got (%d,%d)", tier, fine)
	}
}

func TestRetargetDownRollsTierAtFineOne(t *testing.T) {
	ts := make([]uint64, 10)
	for i := range ts {
		ts[i] = uint64(i) * 15
	}
	tier, fine := Retarget(2, 1, ts)
	if tier != 1 || fine != 8 {
		t.Fatalf("expected tier to drop and fine to wrap to 8, got (%d,%d)", tier, fine)
	}
}

func TestRetargetDownAtTierZeroFineOneStaysPut(t *testing.T) {
	ts := make([]uint64, 10)
	for i := range ts {
		ts[i] = uint64(i) * 15
	}
	tier, fine := Retarget(0, 1, ts)
	if tier != 0 || fine != 1 {
		t.Fatalf("expected (0,1) to stay put at the floor, got (%d,%d)", tier, fine)
	}
}

func TestRetargetUp(t *testing.T) {
	// 10 blocks spaced 5s apart: the window is the last 9 blocks {5..45},
	// avg = 40/8 = 5 < 8 -> fine increases.
	ts := make([]uint64, 10)
	for i := range ts {
		ts[i] = uint64(i) * 5
	}
	tier, fine := Retarget(0, 5, ts)
	if tier != 0 || fine != 6 {
		t.Fatalf("expected fine to rise from 5 to 6, got (%d,%d)", tier, fine)
	}
}

func TestRetargetUpRollsTierAtFineEight(t *testing.T) {
	ts := make([]uint64, 10)
	for i := range ts {
		ts[i] = uint64(i) * 5
	}
	tier, fine := Retarget(0, 8, ts)
	if tier != 1 || fine != 1 {
		t.Fatalf("expected tier to rise and fine to reset to 1, got (%d,%d)", tier, fine)
	}
	tier, fine = Retarget(0, 7, ts)
	if tier != 1 || fine != 1 {
		t.Fatalf("expected fine=7 to roll over to tier=1, fine=1 too, got (%d,%d)", tier, fine)
	}
}

func TestRetargetPartialWindowExcludesGenesis(t *testing.T) {
	// Height 2: the window is the last min(Window, height) = 2 blocks,
	// {5, 20}, so avg = 15 > 12 -> fine decreases. A window that wrongly
	// included genesis would see avg = 20/2 = 10 and leave fine unchanged.
	tier, fine := Retarget(0, 2, []uint64{0, 5, 20})
	if tier != 0 || fine != 1 {
		t.Fatalf("expected fine to drop from 2 to 1, got (%d,%d)", tier, fine)
	}
}

func TestRetargetUnchangedWithinBand(t *testing.T) {
	// avg = 10s exactly matches target, within [8,12].
	ts := make([]uint64, 10)
	for i := range ts {
		ts[i] = uint64(i) * 10
	}
	tier, fine := Retarget(2, 5, ts)
	if tier != 2 || fine != 5 {
		t.Fatalf("expected difficulty unchanged, got (%d,%d)", tier, fine)
	}
}
