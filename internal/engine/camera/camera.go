// Package camera provides the orbit camera of the surface viewer.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/rbshade/internal/engine/scene"
)

// OrbitCamera orbits around a center point. The world is Z-up.
type OrbitCamera struct {
	Center mgl32.Vec3

	Distance float32
	Pitch    float32 // elevation above the XY plane, radians
	Yaw      float32 // rotation around Z, radians

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32

	FovY float32 // degrees
	Near float32
	Far  float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        200,
		Pitch:           0.5,
		MinDistance:     20,
		MaxDistance:     5000,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FovY:            70,
		Near:            4,
		Far:             8192,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	sp, cp := math32.Sincos(c.Pitch)
	sy, cy := math32.Sincos(c.Yaw)
	return c.Center.Add(mgl32.Vec3{cp * cy, cp * sy, sp}.Mul(c.Distance))
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 0, 1})
}

// Projection returns the perspective projection for a viewport aspect ratio.
func (c *OrbitCamera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// Orientation returns the view orientation: forward, left and up axes at the
// camera position.
func (c *OrbitCamera) Orientation() scene.Orientation {
	pos := c.Position()
	forward := c.Center.Sub(pos).Normalize()
	left := mgl32.Vec3{0, 0, 1}.Cross(forward)
	if left.Len() < 1e-6 {
		// looking straight up or down
		left = mgl32.Vec3{-math32.Sin(c.Yaw), math32.Cos(c.Yaw), 0}
	}
	left = left.Normalize()
	up := forward.Cross(left)

	return scene.Orientation{
		Origin:      pos,
		Axis:        [3]mgl32.Vec3{forward, left, up},
		ViewOrigin:  pos,
		ModelMatrix: c.ViewMatrix(),
	}
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity
	c.Pitch = min(max(c.Pitch, c.MinPitch), c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
}

// FitToBounds centers the camera on a bounding box and backs off far enough
// to see it.
func (c *OrbitCamera) FitToBounds(mins, maxs mgl32.Vec3) {
	c.Center = mins.Add(maxs).Mul(0.5)
	size := maxs.Sub(mins)
	c.Distance = max(size[0], size[1], size[2]) * 1.2
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
	c.Pitch = 0.6
	c.Yaw = 0
}
