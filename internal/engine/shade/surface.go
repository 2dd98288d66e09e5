package shade

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/rbshade/internal/engine/shader"
)

// Surface accumulates the geometry of the surface being drawn, and the scratch
// colors and texture coordinates computed for the current stage.
type Surface struct {
	NumVertexes int
	NumIndexes  int

	XYZ          []mgl32.Vec3
	Normals      []mgl32.Vec3
	TexCoords    [2][][2]float32 // base, lightmap
	VertexColors [][4]byte
	Indexes      []uint32

	Shader     *shader.Shader
	FogNum     int
	DlightBits uint32
	ShaderTime float64

	Stages    []*shader.Stage
	NumPasses int
	Iterator  shader.IteratorKind

	// Scratch output of the color and texcoord generators.
	Colors      [][4]byte
	StageCoords [2][][2]float32
}

func newSurface() *Surface {
	return &Surface{
		XYZ:          make([]mgl32.Vec3, MaxVertexes),
		Normals:      make([]mgl32.Vec3, MaxVertexes),
		TexCoords:    [2][][2]float32{make([][2]float32, MaxVertexes), make([][2]float32, MaxVertexes)},
		VertexColors: make([][4]byte, MaxVertexes),
		Indexes:      make([]uint32, MaxIndexes),
		Colors:       make([][4]byte, MaxVertexes),
		StageCoords:  [2][][2]float32{make([][2]float32, MaxVertexes), make([][2]float32, MaxVertexes)},
	}
}

// reset clears the counts and the sentinel slots.
func (s *Surface) reset() {
	s.NumVertexes = 0
	s.NumIndexes = 0
	s.XYZ[MaxVertexes-1] = mgl32.Vec3{}
	s.Indexes[MaxIndexes-1] = 0
}

// Vertex is one vertex of submitted geometry.
type Vertex struct {
	XYZ      mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord [2]float32
	Lightmap [2]float32
	Color    [4]byte
}

// AddVertex appends a vertex and returns its index.
func (s *Surface) AddVertex(v Vertex) (uint32, error) {
	if s.Shader == nil {
		return 0, ErrNoSurface
	}
	if s.NumVertexes >= MaxVertexes {
		return 0, fmt.Errorf("adding vertex %d: %w", s.NumVertexes, ErrMaxVertexes)
	}
	n := s.NumVertexes
	s.XYZ[n] = v.XYZ
	s.Normals[n] = v.Normal
	s.TexCoords[0][n] = v.TexCoord
	s.TexCoords[1][n] = v.Lightmap
	s.VertexColors[n] = v.Color
	s.NumVertexes++
	return uint32(n), nil
}

// AddIndexes appends indexes relative to base, usually the value of NumVertexes
// before the surface's vertexes were added.
func (s *Surface) AddIndexes(base uint32, indexes ...uint32) error {
	if s.Shader == nil {
		return ErrNoSurface
	}
	if s.NumIndexes+len(indexes) > MaxIndexes {
		return fmt.Errorf("adding %d indexes at %d: %w", len(indexes), s.NumIndexes, ErrMaxIndexes)
	}
	for i, idx := range indexes {
		s.Indexes[s.NumIndexes+i] = base + idx
	}
	s.NumIndexes += len(indexes)
	return nil
}

// AddTriangle appends three vertexes and the triangle joining them.
func (s *Surface) AddTriangle(a, b, c Vertex) error {
	base := uint32(s.NumVertexes)
	for _, v := range [3]Vertex{a, b, c} {
		if _, err := s.AddVertex(v); err != nil {
			return err
		}
	}
	return s.AddIndexes(base, 0, 1, 2)
}

// Indices returns the accumulated index list.
func (s *Surface) Indices() []uint32 {
	return s.Indexes[:s.NumIndexes]
}

// stageCount returns the number of stages before the terminating nil entry.
func (s *Surface) stageCount() int {
	n := 0
	for n < len(s.Stages) && n < shader.MaxShaderStages && s.Stages[n] != nil && s.Stages[n].Active {
		n++
	}
	return n
}
