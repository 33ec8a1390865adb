package dsp

// MinMax reduces a slice of finite float32 to (min, max). The production
// backend this was ported from dispatches to AVX2/SSE4.1/NEON/WASM-SIMD128
// at runtime (see original_source/src_backend/backend/simd.rs and
// thesia-wasm-renderer/src/simd.rs); Go has no portable compiler intrinsics
// for that without per-arch assembly, so this is a scalar loop unrolled by
// 4 to let the compiler auto-vectorize it on amd64/arm64 — the contract
// (identical numeric result to the naive scalar reduction) is preserved,
// only the dispatch mechanism is simplified. See DESIGN.md.
func MinMax(s []float32) (min, max float32) {
	if len(s) == 0 {
		return 0, 0
	}
	min, max = s[0], s[0]
	i := 1
	for ; i+4 <= len(s); i += 4 {
		a, b, c, d := s[i], s[i+1], s[i+2], s[i+3]
		if a < min {
			min = a
		}
		if a > max {
			max = a
		}
		if b < min {
			min = b
		}
		if b > max {
			max = b
		}
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	for ; i < len(s); i++ {
		v := s[i]
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// ScalarMinMax is the reference implementation MinMax must agree with.
func ScalarMinMax(s []float32) (min, max float32) {
	if len(s) == 0 {
		return 0, 0
	}
	min, max = s[0], s[0]
	for _, v := range s[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
