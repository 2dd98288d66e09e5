// Package scene holds the per-frame view, entity and fog data the surface back
// end reads while shading. Everything here is produced by the front end and is
// read-only to the back end.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/rbshade/internal/engine/lighting"
)

// RDFlags describe the kind of view being rendered.
type RDFlags uint32

const (
	RDFNoWorldModel RDFlags = 1 << 0 // menu or model viewer, no world
	RDFSkyboxPortal RDFlags = 1 << 3 // this view is the sky box portal
	RDFDrawingSky   RDFlags = 1 << 5
	RDFSnooperView  RDFlags = 1 << 6 // reflective scope view, no dlights or fog
)

// Refdef is the front end's description of the view being rendered.
type Refdef struct {
	FloatTime float64 // seconds
	Time      int     // milliseconds
	Flags     RDFlags

	Dlights *lighting.DlightList

	// Fogs are the world fog volumes; index 0 means "no fog".
	Fogs []Fog
}

// NumDlights returns the number of dynamic lights in the view.
func (r *Refdef) NumDlights() int {
	if r.Dlights == nil {
		return 0
	}
	return len(r.Dlights.Lights)
}

// Fog returns fog volume n, or nil when n is out of range.
func (r *Refdef) Fog(n int) *Fog {
	if n <= 0 || n >= len(r.Fogs) {
		return nil
	}
	return &r.Fogs[n]
}

// Orientation places an entity, or the view, in the world.
type Orientation struct {
	Origin      mgl32.Vec3
	Axis        [3]mgl32.Vec3
	ViewOrigin  mgl32.Vec3 // view origin in this orientation's local space
	ModelMatrix mgl32.Mat4 // local to eye space
}

// IdentityOrientation returns the world orientation seen from viewOrigin.
func IdentityOrientation(viewOrigin mgl32.Vec3) Orientation {
	return Orientation{
		Axis:        [3]mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		ViewOrigin:  viewOrigin,
		ModelMatrix: mgl32.Ident4(),
	}
}

// ViewParms are the parameters of the view being drawn.
type ViewParms struct {
	Or       Orientation
	IsPortal bool
}

// Entity is the model instance whose surfaces are being shaded.
type Entity struct {
	HasModel bool // false for world surfaces, which have no axis

	Origin mgl32.Vec3
	Axis   [3]mgl32.Vec3

	ShaderRGBA     [4]byte
	ShaderTexCoord [2]float32
	ShaderTime     float32

	// FadeStartTime and FadeEndTime are in milliseconds; zero start disables fading.
	FadeStartTime int
	FadeEndTime   int

	FireRiseDir mgl32.Vec3

	Light lighting.EntityLight
}

// WorldEntity returns the entity used for world surfaces.
func WorldEntity() *Entity {
	return &Entity{
		Axis:       [3]mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		ShaderRGBA: [4]byte{255, 255, 255, 255},
	}
}

// RiseDir returns the fire-rise direction, defaulting to +Z. For models it is
// expressed in the model's local space, the space its normals live in.
func (e *Entity) RiseDir() mgl32.Vec3 {
	dir := e.FireRiseDir
	if dir == (mgl32.Vec3{}) {
		dir = mgl32.Vec3{0, 0, 1}
	}
	if !e.HasModel {
		return dir
	}
	return mgl32.Vec3{dir.Dot(e.Axis[0]), dir.Dot(e.Axis[1]), dir.Dot(e.Axis[2])}
}
