package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection converts a longitude/latitude pair in degrees to a unit light
// direction. Longitude rotates around Z, latitude is the elevation from the
// horizon.
func SunDirection(longitude, latitude float32) mgl32.Vec3 {
	lonRad := float64(longitude) * math.Pi / 180.0
	latRad := float64(latitude) * math.Pi / 180.0

	return mgl32.Vec3{
		float32(math.Cos(latRad) * math.Cos(lonRad)),
		float32(math.Cos(latRad) * math.Sin(lonRad)),
		float32(math.Sin(latRad)),
	}
}

// EntityLight is the lighting sampled at an entity's position, used by diffuse
// color generation.
type EntityLight struct {
	Ambient  mgl32.Vec3 // 0-255 per channel
	Directed mgl32.Vec3 // 0-255 per channel
	Dir      mgl32.Vec3 // unit vector towards the light, entity space
}

// AmbientRGBA packs the ambient light as an opaque color, clamped to bytes.
func (e EntityLight) AmbientRGBA() [4]byte {
	var c [4]byte
	for i := range 3 {
		v := e.Ambient[i]
		switch {
		case v > 255:
			v = 255
		case v < 0:
			v = 0
		}
		c[i] = byte(v)
	}
	c[3] = 255
	return c
}
