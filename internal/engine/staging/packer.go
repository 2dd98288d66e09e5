package staging

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Streams selects which vertex attributes a pack writes.
type Streams uint8

const (
	StreamPosition Streams = 1 << iota
	StreamTexCoord0
	StreamTexCoord1
	StreamColor
)

// Has reports whether every stream in s2 is selected.
func (s Streams) Has(s2 Streams) bool { return s&s2 == s2 }

// Source is per-vertex surface data. Only the slices named by the pack's
// streams are read.
type Source struct {
	Positions []mgl32.Vec3
	TexCoords [2][][2]float32
	Colors    [][4]byte
}

// Target is the packed copy of Count vertices, ready to be registered with the
// device as client arrays. Unselected streams are nil.
type Target struct {
	Count     int
	Positions []float32
	TexCoords [2][]float32
	Colors    []byte
}

// Packer copies a range of indexes from Src into Dst.
type Packer struct {
	Streams Streams
	Src     Source
	Dst     Target
}

// PackRange copies vertices [start, end). Concurrent calls must use disjoint ranges.
func (p *Packer) PackRange(start, end int) {
	for i := start; i < end; i++ {
		if p.Streams.Has(StreamPosition) {
			xyz := p.Src.Positions[i]
			copy(p.Dst.Positions[i*3 : i*3+3], xyz[:])
		}
		if p.Streams.Has(StreamTexCoord0) {
			st := p.Src.TexCoords[0][i]
			p.Dst.TexCoords[0][i*2] = st[0]
			p.Dst.TexCoords[0][i*2+1] = st[1]
		}
		if p.Streams.Has(StreamTexCoord1) {
			st := p.Src.TexCoords[1][i]
			p.Dst.TexCoords[1][i*2] = st[0]
			p.Dst.TexCoords[1][i*2+1] = st[1]
		}
		if p.Streams.Has(StreamColor) {
			c := p.Src.Colors[i]
			copy(p.Dst.Colors[i*4 : i*4+4], c[:])
		}
	}
}

// Pack reserves staging memory for n vertices of the selected streams and fills
// it from src, using d to split the work.
func Pack(b *Buffers, d *Dispatcher, streams Streams, src Source, n int) (Target, error) {
	p := Packer{Streams: streams, Src: src, Dst: Target{Count: n}}

	var err error
	if streams.Has(StreamPosition) {
		if p.Dst.Positions, err = b.ReserveVertex(n); err != nil {
			return Target{}, err
		}
	}
	for unit, s := range [2]Streams{StreamTexCoord0, StreamTexCoord1} {
		if streams.Has(s) {
			if p.Dst.TexCoords[unit], err = b.ReserveTexCoord(n); err != nil {
				return Target{}, err
			}
		}
	}
	if streams.Has(StreamColor) {
		if p.Dst.Colors, err = b.ReserveColor(n); err != nil {
			return Target{}, err
		}
	}

	if err := d.Split(n, p.PackRange); err != nil {
		return Target{}, fmt.Errorf("packing %d vertices: %w", n, err)
	}
	return p.Dst, nil
}
