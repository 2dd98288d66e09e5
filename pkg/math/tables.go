// Package math provides the lookup tables and noise used by the shading back end.
package math

import (
	"github.com/chewxy/math32"
)

// Function table layout. Indexes wrap with TableMask so any phase is valid.
const (
	TableSize  = 1024
	TableShift = 10
	TableMask  = TableSize - 1
)

// Func selects the periodic function a waveform samples.
type Func int

const (
	FuncNone Func = iota
	FuncSin
	FuncSquare
	FuncTriangle
	FuncSawtooth
	FuncInverseSawtooth
	FuncNoise
)

// String returns the shader-script name of the function.
func (f Func) String() string {
	switch f {
	case FuncSin:
		return "sin"
	case FuncSquare:
		return "square"
	case FuncTriangle:
		return "triangle"
	case FuncSawtooth:
		return "sawtooth"
	case FuncInverseSawtooth:
		return "inversesawtooth"
	case FuncNoise:
		return "noise"
	default:
		return "none"
	}
}

var (
	sinTable         [TableSize]float32
	squareTable      [TableSize]float32
	triangleTable    [TableSize]float32
	sawToothTable    [TableSize]float32
	invSawToothTable [TableSize]float32
)

func init() {
	for i := 0; i < TableSize; i++ {
		deg := float32(i) * 360.0 / float32(TableSize-1)
		sinTable[i] = math32.Sin(deg * math32.Pi / 180)

		if i < TableSize/2 {
			squareTable[i] = 1
		} else {
			squareTable[i] = -1
		}

		sawToothTable[i] = float32(i) / TableSize
		invSawToothTable[i] = 1 - sawToothTable[i]

		switch {
		case i < TableSize/4:
			triangleTable[i] = float32(i) / (TableSize / 4)
		case i < TableSize/2:
			triangleTable[i] = 1 - triangleTable[i-TableSize/4]
		default:
			triangleTable[i] = -triangleTable[i-TableSize/2]
		}
	}
}

// Table returns the lookup table for fn. Noise and none map to the sine table,
// callers evaluate noise separately.
func Table(fn Func) *[TableSize]float32 {
	switch fn {
	case FuncSquare:
		return &squareTable
	case FuncTriangle:
		return &triangleTable
	case FuncSawtooth:
		return &sawToothTable
	case FuncInverseSawtooth:
		return &invSawToothTable
	default:
		return &sinTable
	}
}

// Sin samples the sine table at a raw table index.
func Sin(index int64) float32 {
	return sinTable[index&TableMask]
}

// Index converts a phase in cycles to a table index.
func Index(cycles float64) int64 {
	return int64(cycles * TableSize)
}

// WaveValue evaluates base + table(phase + time*freq) * amplitude.
func WaveValue(table *[TableSize]float32, base, amplitude, phase, freq float32, time float64) float32 {
	idx := Index(float64(phase) + time*float64(freq))
	return base + table[idx&TableMask]*amplitude
}

// Luma returns the Rec. 709 luminance of an RGB triple.
func Luma(r, g, b float32) float32 {
	return r*0.2126 + g*0.7152 + b*0.0722
}

// Lerp interpolates from a to b by t.
func Lerp(a, b, t float32) float32 {
	return a*(1-t) + b*t
}

// Clamp01 clamps v into [0, 1].
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
