package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNormalLines(t *testing.T) {
	xyz := []mgl32.Vec3{{0, 0, 0}, {1, 2, 3}}
	normals := []mgl32.Vec3{{0, 0, 1}, {1, 0, 0}}
	dst := make([]float32, 12)

	NormalLines(dst, xyz, normals, NormalLength, 0, 1)
	NormalLines(dst, xyz, normals, NormalLength, 1, 2)

	want := []float32{0, 0, 0, 0, 0, 2, 1, 2, 3, 3, 2, 3}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst = %v, want %v", dst, want)
		}
	}
}

func TestBoundsLines(t *testing.T) {
	v := BoundsLines(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
	if len(v) != BoundsLineVertexCount*3 {
		t.Fatalf("len = %d, want %d", len(v), BoundsLineVertexCount*3)
	}
	for i, f := range v {
		if f != -1 && f != 1 {
			t.Fatalf("coordinate %d = %v, want a box corner", i, f)
		}
	}
}

func TestSphereBounds(t *testing.T) {
	mins, maxs := SphereBounds(mgl32.Vec3{10, 0, 0}, 5, 1)
	if mins != (mgl32.Vec3{4, -6, -6}) || maxs != (mgl32.Vec3{16, 6, 6}) {
		t.Errorf("SphereBounds() = %v, %v", mins, maxs)
	}
}

func TestCaptureFromPixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	c := NewCapture(dir, "frame")
	c.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	// 1x2 image: bottom row red, top row blue.
	pixels := []byte{255, 0, 0, 255, 0, 0, 255, 255}
	path, err := c.FromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("FromPixels() error = %v", err)
	}
	if filepath.Base(path) != "frame_2024-01-02_03-04-05.png" {
		t.Errorf("path = %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); r != 0 || b == 0 {
		t.Errorf("top row should be blue after the flip")
	}

	if _, err := c.FromPixels(pixels, 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}
