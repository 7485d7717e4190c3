// Package rng provides the seeded pseudo-random stream every render owns.
package rng

// Random is a mulberry32 generator. The zero value is a valid stream for seed 0.
// A Random must not be shared between renders.
type Random struct {
	state uint32
}

// New returns a stream initialised from seed.
func New(seed uint32) *Random {
	return &Random{state: seed}
}

// Next returns the next float in [0,1).
func (r *Random) Next() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / 4294967296.0
}

// Intn returns an int in [0,n). n <= 0 yields 0 without consuming a draw.
func (r *Random) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() * float64(n))
}

// Range returns a float in [lo, lo+span).
func (r *Random) Range(lo, span float64) float64 {
	return lo + r.Next()*span
}
