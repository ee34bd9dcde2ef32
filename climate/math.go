package climate

import "math"

func pow32(v, e float32) float32 {
	return float32(math.Pow(float64(v), float64(e)))
}

func hypot32(x, y float32) float32 {
	return float32(math.Hypot(float64(x), float64(y)))
}

func lerp32(a, b, t float32) float32 {
	return a + (b-a)*t
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// smoothstep is the cubic ease used for band transitions: 0 at t<=0, 1 at
// t>=1, with zero slope at both ends.
func smoothstep(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
