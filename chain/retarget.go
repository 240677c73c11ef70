package chain

// Retargeting parameters: a retarget window samples the last WINDOW block
// timestamps and compares their average spacing to TARGET seconds.
const (
	TargetSeconds = 10
	Window        = 10
)

// Retarget computes the (tier, fine) pair the next block header should
// carry, given the current (tier, fine) and the timestamps of the chain up
// to and including the current tip (height = len(timestamps)-1).
//
// Before height 2, the difficulty is fixed at (tier=0, fine=1). From height
// 2 onward, the average spacing of the last min(Window, height) blocks
// drives the adjustment: faster than 0.8x target nudges fine up (rolling
// into tier at fine==8); slower than 1.2x target nudges fine down (rolling
// out of tier at fine==1). Fine is always kept in [1,8]; tier is monotone
// within uint8's range via saturating arithmetic.
func Retarget(currentTier, currentFine uint8, timestamps []uint64) (uint8, uint8) {
	height := len(timestamps) - 1
	if height < 2 {
		return 0, 1
	}

	w := Window
	if height < w {
		w = height
	}
	window := timestamps[len(timestamps)-w:]
	delta := window[len(window)-1] - window[0]
	divisor := uint64(w - 1)
	if divisor == 0 {
		divisor = 1
	}
	avg := delta / divisor

	tier, fine := currentTier, currentFine
	switch {
	case float64(avg) < 0.8*float64(TargetSeconds):
		if fine < 8 {
			fine++
		}
		if fine == 8 {
			fine = 1
			if tier < 255 {
				tier++
			}
		}
	case float64(avg) > 1.2*float64(TargetSeconds):
		if fine > 1 {
			fine--
		} else if tier > 0 {
			tier--
			fine = 8
		}
	}
	return tier, fine
}
