// Package staging owns the flat per-frame vertex arrays the device reads from,
// and the machinery that unrolls indexed surface data into them.
package staging

import (
	"errors"
	"fmt"
)

// ErrOverflow is returned when a reservation does not fit in what is left of
// the frame's staging memory.
var ErrOverflow = errors.New("staging: buffer overflow")

// Buffers are the frame's staging arrays. Each reservation hands out a fresh
// region and advances the cursor by exactly the reserved size; Reset rewinds
// all cursors at the start of a frame.
type Buffers struct {
	capacity int // in vertices

	vertex    []float32 // xyz
	vertexPos int

	texCoord    []float32 // st, two streams share this array
	texCoordPos int

	color    []byte // rgba
	colorPos int

	white []byte
}

// NewBuffers allocates staging memory for capacity vertices per stream.
func NewBuffers(capacity int) *Buffers {
	b := &Buffers{
		capacity: capacity,
		vertex:   make([]float32, capacity*3),
		texCoord: make([]float32, capacity*2*2),
		color:    make([]byte, capacity*4),
		white:    make([]byte, capacity*4),
	}
	for i := range b.white {
		b.white[i] = 0xff
	}
	return b
}

// Capacity returns the per-stream capacity in vertices.
func (b *Buffers) Capacity() int { return b.capacity }

// Reset rewinds every cursor.
func (b *Buffers) Reset() {
	b.vertexPos = 0
	b.texCoordPos = 0
	b.colorPos = 0
}

// Used reports how many vertices have been reserved from each stream this frame.
func (b *Buffers) Used() (vertex, texCoord, color int) {
	return b.vertexPos / 3, b.texCoordPos / 2, b.colorPos / 4
}

// ReserveVertex reserves positions for n vertices.
func (b *Buffers) ReserveVertex(n int) ([]float32, error) {
	s, err := reserve(b.vertex, &b.vertexPos, n*3)
	if err != nil {
		return nil, fmt.Errorf("reserving %d positions: %w", n, err)
	}
	return s, nil
}

// ReserveTexCoord reserves one texture coordinate stream for n vertices.
func (b *Buffers) ReserveTexCoord(n int) ([]float32, error) {
	s, err := reserve(b.texCoord, &b.texCoordPos, n*2)
	if err != nil {
		return nil, fmt.Errorf("reserving %d texcoords: %w", n, err)
	}
	return s, nil
}

// ReserveColor reserves colors for n vertices.
func (b *Buffers) ReserveColor(n int) ([]byte, error) {
	s, err := reserve(b.color, &b.colorPos, n*4)
	if err != nil {
		return nil, fmt.Errorf("reserving %d colors: %w", n, err)
	}
	return s, nil
}

// White returns a constant opaque white color array for n vertices. It is
// shared and never advances a cursor.
func (b *Buffers) White(n int) ([]byte, error) {
	if n < 0 || n*4 > len(b.white) {
		return nil, fmt.Errorf("white array for %d vertices: %w", n, ErrOverflow)
	}
	return b.white[: n*4 : n*4], nil
}

func reserve[T any](buf []T, pos *int, size int) ([]T, error) {
	if size < 0 || *pos+size > len(buf) {
		return nil, ErrOverflow
	}
	s := buf[*pos : *pos+size : *pos+size]
	*pos += size
	return s, nil
}
