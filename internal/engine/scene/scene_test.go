package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/rbshade/internal/engine/lighting"
)

func TestRefdefFog(t *testing.T) {
	r := Refdef{Fogs: make([]Fog, 3)}
	r.Fogs[2].TCScale = 0.5

	if r.Fog(0) != nil {
		t.Error("fog 0 means no fog")
	}
	if r.Fog(3) != nil || r.Fog(-1) != nil {
		t.Error("out of range fog should be nil")
	}
	if f := r.Fog(2); f == nil || f.TCScale != 0.5 {
		t.Errorf("Fog(2) = %+v", f)
	}
}

func TestNumDlights(t *testing.T) {
	var r Refdef
	if r.NumDlights() != 0 {
		t.Error("nil light list should report zero lights")
	}
	r.Dlights = lighting.NewDlightList()
	r.Dlights.Add(lighting.Dlight{Radius: 10})
	if r.NumDlights() != 1 {
		t.Errorf("NumDlights() = %d, want 1", r.NumDlights())
	}
}

func TestRiseDir(t *testing.T) {
	e := WorldEntity()
	if got := e.RiseDir(); got != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("default RiseDir() = %v, want +Z", got)
	}

	// A model lying on its side sees world +Z along its local -X.
	e.HasModel = true
	e.Axis = [3]mgl32.Vec3{{0, 0, -1}, {0, 1, 0}, {1, 0, 0}}
	if got := e.RiseDir(); !got.ApproxEqual(mgl32.Vec3{-1, 0, 0}) {
		t.Errorf("rotated RiseDir() = %v, want -X", got)
	}

	// Yawed a quarter turn, a world +X rise points down the local -Y axis.
	e.Axis = [3]mgl32.Vec3{{0, 1, 0}, {-1, 0, 0}, {0, 0, 1}}
	e.FireRiseDir = mgl32.Vec3{1, 0, 0}
	if got := e.RiseDir(); !got.ApproxEqual(mgl32.Vec3{0, -1, 0}) {
		t.Errorf("yawed RiseDir() = %v, want -Y", got)
	}
}

func TestIdentityOrientation(t *testing.T) {
	or := IdentityOrientation(mgl32.Vec3{1, 2, 3})
	if or.ModelMatrix != mgl32.Ident4() {
		t.Error("identity orientation should have an identity model matrix")
	}
	if or.ViewOrigin != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("ViewOrigin = %v", or.ViewOrigin)
	}
}
