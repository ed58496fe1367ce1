package prng

import "math"

// UniformU64 returns a uniformly distributed 64-bit value.
func (s *State) UniformU64() uint64 { return s.Uint64() }

// UniformInRange returns a uniform value in [lo, hi) using rejection
// sampling whenever hi-lo is not a power of two, so every representable
// value in range has exactly equal probability (spec §4.2).
func (s *State) UniformInRange(lo, hi uint64) uint64 {
	span := hi - lo
	if span == 0 {
		return lo
	}
	if span&(span-1) == 0 {
		// power of two: a mask is already unbiased, no rejection needed
		return lo + (s.Uint64() & (span - 1))
	}
	limit := (math.MaxUint64 / span) * span
	for {
		v := s.Uint64()
		if v < limit {
			return lo + v%span
		}
	}
}

// UniformInRangeInclusive returns a uniform value in [lo, hi].
func (s *State) UniformInRangeInclusive(lo, hi uint64) uint64 {
	if hi == math.MaxUint64 && lo == 0 {
		return s.Uint64()
	}
	return s.UniformInRange(lo, hi+1)
}

// Bool returns true with probability p (clamped to [0,1]).
func (s *State) Bool(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.F64_01() < p
}

// F64_01 returns a uniform float64 in [0, 1), using the top 53 bits of a
// 64-bit word (the full mantissa width of a float64).
func (s *State) F64_01() float64 {
	return float64(s.Uint64()>>11) / (1 << 53)
}

// FiniteF64 returns a uniform finite float64 drawn from the full range of
// representable finite magnitudes, resampling on Inf/NaN bit patterns.
func (s *State) FiniteF64() float64 {
	for {
		bits := s.Uint64()
		f := math.Float64frombits(bits)
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
}

// FiniteF32 is the float32 analogue of FiniteF64.
func (s *State) FiniteF32() float32 {
	for {
		bits := uint32(s.Uint64())
		f := math.Float32frombits(bits)
		if !isNaN32(f) && !isInf32(f) {
			return f
		}
	}
}

func isNaN32(f float32) bool { return f != f }
func isInf32(f float32) bool {
	return f > math.MaxFloat32 || f < -math.MaxFloat32
}

// Zipf draws from a Zipf-like distribution over {1, ..., n} with skew s,
// via inverse-transform sampling against the discrete harmonic-like CDF.
// This favors correctness and determinism over the performance of
// rejection-based Zipf samplers; n is expected to be a modest cardinality
// (a column's distinct-value count), not a billion-row range.
func (s *State) Zipf(n uint64, skew float64) uint64 {
	if n == 0 {
		return 0
	}
	var total float64
	weights := make([]float64, n)
	for i := uint64(1); i <= n; i++ {
		w := 1 / math.Pow(float64(i), skew)
		weights[i-1] = w
		total += w
	}
	target := s.F64_01() * total
	var cum float64
	for i, w := range weights {
		cum += w
		if target <= cum {
			return uint64(i + 1)
		}
	}
	return n
}

// LogNormal draws a sample from a log-normal distribution with underlying
// normal parameters (mu, sigma), via Box-Muller transform.
func (s *State) LogNormal(mu, sigma float64) float64 {
	u1 := s.F64_01()
	u2 := s.F64_01()
	if u1 <= 0 {
		u1 = math.SmallestNonzeroFloat64
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return math.Exp(mu + sigma*z)
}

// FisherYates shuffles a sequence of length n in place via the supplied
// swap callback, used for arrays below the lazy-shuffle threshold. Callers
// supply swap rather than a slice so this stays independent of the value
// package's Array representation.
func (s *State) FisherYates(n uint64, swap func(i, j uint64)) {
	for i := n - 1; i > 0; i-- {
		j := s.UniformInRange(0, i+1)
		swap(i, j)
	}
}
