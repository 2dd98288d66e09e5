// Package lighting provides the dynamic light and entity lighting data consumed
// by the surface back end.
package lighting

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/rbshade/internal/engine/shader"
)

// MaxDlights is the maximum number of dynamic lights per view. Surfaces address
// them through a bitmask, so it cannot exceed 32.
const MaxDlights = 32

// Dlight is a dynamic point light that re-lights surfaces with an additive pass.
type Dlight struct {
	Origin      mgl32.Vec3 // world space
	Transformed mgl32.Vec3 // origin in the space of the entity being drawn
	Radius      float32
	Color       mgl32.Vec3 // RGB in [0, 1]

	// Overdraw repeats the default additive pass to brighten the light.
	Overdraw int

	// Shader replaces the default additive pass when set.
	Shader *shader.Shader
}

// DlightList holds the dynamic lights of one view.
type DlightList struct {
	Lights []Dlight
}

// NewDlightList creates an empty light list.
func NewDlightList() *DlightList {
	return &DlightList{
		Lights: make([]Dlight, 0, MaxDlights),
	}
}

// Clear removes all lights.
func (l *DlightList) Clear() {
	l.Lights = l.Lights[:0]
}

// Add appends a light and returns its bit, or 0 when the list is full.
func (l *DlightList) Add(d Dlight) uint32 {
	if len(l.Lights) >= MaxDlights {
		return 0
	}
	if d.Radius <= 0 {
		d.Radius = 100
	}
	for i := range 3 {
		d.Color[i] = clamp01(d.Color[i])
	}
	l.Lights = append(l.Lights, d)
	return 1 << (len(l.Lights) - 1)
}

// TransformTo sets every light's Transformed origin into an entity's local frame.
func (l *DlightList) TransformTo(origin mgl32.Vec3, axis [3]mgl32.Vec3) {
	for i := range l.Lights {
		local := l.Lights[i].Origin.Sub(origin)
		l.Lights[i].Transformed = mgl32.Vec3{local.Dot(axis[0]), local.Dot(axis[1]), local.Dot(axis[2])}
	}
}

// Touching returns the bitmask of lights whose sphere intersects the bounds.
func (l *DlightList) Touching(mins, maxs mgl32.Vec3) uint32 {
	var bits uint32
	for i, d := range l.Lights {
		inside := true
		for j := range 3 {
			if d.Origin[j]-d.Radius > maxs[j] || d.Origin[j]+d.Radius < mins[j] {
				inside = false
				break
			}
		}
		if inside {
			bits |= 1 << i
		}
	}
	return bits
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
