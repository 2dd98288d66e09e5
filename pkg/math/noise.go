package math

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
)

const (
	noiseSize = 256
	noiseMask = noiseSize - 1
)

var (
	noiseTable [noiseSize]float32
	noisePerm  [noiseSize]int
)

func init() {
	r := rand.New(rand.NewPCG(1001, 0))
	for i := range noiseSize {
		noiseTable[i] = r.Float32()*2 - 1
		noisePerm[i] = int(r.Float32() * 255)
	}
}

func noiseVal(a int) int {
	return noisePerm[a&noiseMask]
}

func noiseAt(x, y, z, t int) float32 {
	return noiseTable[noiseVal(x+noiseVal(y+noiseVal(z+noiseVal(t))))]
}

// Noise4 returns smooth lattice noise in [-1, 1] for a point in 4D space.
// The lattice is seeded once, so equal inputs always yield equal outputs.
func Noise4(x, y, z, t float32) float32 {
	ix, iy, iz, it := int(math32.Floor(x)), int(math32.Floor(y)), int(math32.Floor(z)), int(math32.Floor(t))
	fx, fy, fz, ft := x-float32(ix), y-float32(iy), z-float32(iz), t-float32(it)

	var value [2]float32
	for i := range 2 {
		f0 := noiseAt(ix, iy, iz, it+i)
		f1 := noiseAt(ix+1, iy, iz, it+i)
		f2 := noiseAt(ix, iy+1, iz, it+i)
		f3 := noiseAt(ix+1, iy+1, iz, it+i)
		b0 := noiseAt(ix, iy, iz+1, it+i)
		b1 := noiseAt(ix+1, iy, iz+1, it+i)
		b2 := noiseAt(ix, iy+1, iz+1, it+i)
		b3 := noiseAt(ix+1, iy+1, iz+1, it+i)

		front := Lerp(Lerp(f0, f1, fx), Lerp(f2, f3, fx), fy)
		back := Lerp(Lerp(b0, b1, fx), Lerp(b2, b3, fx), fy)
		value[i] = Lerp(front, back, fz)
	}
	return Lerp(value[0], value[1], ft)
}
