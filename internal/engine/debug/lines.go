// Package debug provides line geometry and frame capture for debug overlays.
package debug

import "github.com/go-gl/mathgl/mgl32"

// NormalLength is the length of drawn normal vectors in world units.
const NormalLength = 2

// NormalLines writes a line from each vertex to the tip of its scaled normal
// for vertexes [start, end). dst holds 6 floats per vertex.
func NormalLines(dst []float32, xyz, normals []mgl32.Vec3, length float32, start, end int) {
	for i := start; i < end; i++ {
		p := xyz[i]
		tip := p.Add(normals[i].Mul(length))
		o := i * 6
		dst[o], dst[o+1], dst[o+2] = p[0], p[1], p[2]
		dst[o+3], dst[o+4], dst[o+5] = tip[0], tip[1], tip[2]
	}
}

// BoundsLineVertexCount is the number of line vertexes in a bounds wireframe (12 edges x 2).
const BoundsLineVertexCount = 24

// BoundsLines returns the 12 edges of an axis-aligned box as line pairs,
// [x, y, z] per vertex.
func BoundsLines(mins, maxs mgl32.Vec3) []float32 {
	x0, y0, z0 := mins[0], mins[1], mins[2]
	x1, y1, z1 := maxs[0], maxs[1], maxs[2]
	return []float32{
		// bottom
		x0, y0, z0, x1, y0, z0,
		x1, y0, z0, x1, y1, z0,
		x1, y1, z0, x0, y1, z0,
		x0, y1, z0, x0, y0, z0,
		// top
		x0, y0, z1, x1, y0, z1,
		x1, y0, z1, x1, y1, z1,
		x1, y1, z1, x0, y1, z1,
		x0, y1, z1, x0, y0, z1,
		// verticals
		x0, y0, z0, x0, y0, z1,
		x1, y0, z0, x1, y0, z1,
		x1, y1, z0, x1, y1, z1,
		x0, y1, z0, x0, y1, z1,
	}
}

// SphereBounds returns the box enclosing a sphere, padded on every side.
func SphereBounds(center mgl32.Vec3, radius, padding float32) (mins, maxs mgl32.Vec3) {
	r := radius + padding
	ext := mgl32.Vec3{r, r, r}
	return center.Sub(ext), center.Add(ext)
}
