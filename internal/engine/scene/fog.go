package scene

// Fog is a world fog volume.
type Fog struct {
	Color   [4]byte // packed fog color, alpha 255
	TCScale float32 // 1 / (8 * depth for opaque)

	// HasSurface is set when the volume has a visible surface plane; otherwise
	// the eye is always considered inside.
	HasSurface bool
	Surface    [4]float32 // plane normal and distance
}

// GLFogMode is the fixed-function fog equation.
type GLFogMode int

const (
	GLFogLinear GLFogMode = iota
	GLFogExp
)

// GLFog holds global distance fog parameters.
type GLFog struct {
	Registered bool
	Mode       GLFogMode
	Color      [4]float32
	Start      float32
	End        float32
	Density    float32
}

// GLFogs holds the distance fog settings the iterators pick from.
type GLFogs struct {
	Sky     GLFog
	Portal  GLFog
	Current GLFog
}

// Frame is everything the back end needs to know about the view being drawn.
type Frame struct {
	Refdef Refdef
	View   ViewParms
	GLFogs GLFogs

	Projection2D bool

	// SkyboxPortal is set when the world contains a sky box portal.
	SkyboxPortal bool
	// DrawSkyboxPortal lets the portal view draw all of its surfaces.
	DrawSkyboxPortal bool
}
