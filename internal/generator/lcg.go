package generator

const (
	lcgMultiplier = 1103515245
	lcgIncrement  = 12345
	lcgModulus    = 1 << 31
)

// lcg is the linear congruential generator s' = (s*a + c) mod 2^31.
// It lives for a single Generate call.
type lcg struct {
	state uint64
}

func newLCG(seed uint32) *lcg {
	return &lcg{state: uint64(seed)}
}

// next advances the state and returns it.
func (l *lcg) next() uint64 {
	l.state = (l.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return l.state
}

// Float64 returns the next draw in [0, 1).
func (l *lcg) Float64() float64 {
	return float64(l.next()) / lcgModulus
}

// Intn scales the next draw to an index in [0, n).
func (l *lcg) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	idx := int(l.Float64() * float64(n))
	// float rounding must never step outside the pool
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}
