package math

import "github.com/chewxy/math32"

// FogTableSize is the resolution of the fog density curve.
const FogTableSize = 256

var fogTable [FogTableSize]float32

func init() {
	for i := range FogTableSize {
		fogTable[i] = math32.Pow(float32(i)/(FogTableSize-1), 0.5)
	}
}

// FogFactor returns the fog opacity in [0, 1] for fog texture coordinates. s is
// the scaled distance through fog and t the depth across the fog surface, both as
// produced by fog texcoord generation.
func FogFactor(s, t float32) float32 {
	s -= 1.0 / 512
	if s < 0 {
		return 0
	}
	if t < 1.0/32 {
		return 0
	}
	if t < 31.0/32 {
		s *= (t - 1.0/32) / (30.0 / 32)
	}

	// leave a lot of clamp range
	s *= 8
	if s > 1 {
		s = 1
	}
	return fogTable[int(s*(FogTableSize-1))]
}
