package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestOrbitPosition(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = mgl32.Vec3{10, 0, 0}
	c.Distance = 100
	c.Pitch = 0
	c.Yaw = 0

	pos := c.Position()
	assert.InDelta(t, 110, pos[0], 1e-4)
	assert.InDelta(t, 0, pos[1], 1e-4)
	assert.InDelta(t, 0, pos[2], 1e-4)
}

func TestOrientationAxes(t *testing.T) {
	c := NewOrbitCamera()
	c.Pitch = 0
	c.Yaw = 0

	or := c.Orientation()
	forward, left, up := or.Axis[0], or.Axis[1], or.Axis[2]
	assert.InDelta(t, -1, forward[0], 1e-4, "looks back at the center")
	assert.InDelta(t, 1, up[2], 1e-4)
	assert.InDelta(t, 0, forward.Dot(left), 1e-4)
	assert.InDelta(t, 0, left.Dot(up), 1e-4)
	assert.Equal(t, c.Position(), or.ViewOrigin)
}

func TestOrientationStraightDown(t *testing.T) {
	c := NewOrbitCamera()
	c.MaxPitch = 2
	c.Pitch = 1.5707964
	or := c.Orientation()
	assert.InDelta(t, 1, or.Axis[1].Len(), 1e-4)
	assert.InDelta(t, 1, or.Axis[2].Len(), 1e-4)
}

func TestDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(0, 100000)
	assert.Equal(t, c.MaxPitch, c.Pitch)
	c.HandleDrag(0, -100000)
	assert.Equal(t, c.MinPitch, c.Pitch)
}

func TestZoomClampsDistance(t *testing.T) {
	c := NewOrbitCamera()
	for range 100 {
		c.HandleZoom(5)
	}
	assert.Equal(t, c.MinDistance, c.Distance)
	for range 100 {
		c.HandleZoom(-5)
	}
	assert.Equal(t, c.MaxDistance, c.Distance)
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToBounds(mgl32.Vec3{-64, -64, 0}, mgl32.Vec3{64, 64, 32})
	assert.Equal(t, mgl32.Vec3{0, 0, 16}, c.Center)
	assert.InDelta(t, 128*1.2, c.Distance, 1e-3)
}
