// Package record provides a device that records what the surface back end asks
// of it instead of drawing. It backs headless runs and golden comparisons.
package record

import (
	"fmt"
	"io"
	"slices"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/rbshade/internal/engine/scene"
	"github.com/Faultbox/rbshade/internal/engine/shader"
	"github.com/Faultbox/rbshade/internal/engine/staging"
	"github.com/Faultbox/rbshade/internal/engine/texture"
)

// Op identifies a recorded device call.
type Op int

const (
	OpSelectTexture Op = iota
	OpBindTexture
	OpEnableTexture
	OpTexEnv
	OpState
	OpCull
	OpPolygonOffset
	OpFog
	OpEnableFog
	OpDepthRange
	OpColor
	OpVertexPointer
	OpTexCoordPointer
	OpColorPointer
	OpClientArrays
	OpDrawElements
	OpDrawLines
	numOps
)

var opNames = [numOps]string{
	"selectTexture", "bindTexture", "enableTexture", "texEnv", "state", "cull",
	"polygonOffset", "fog", "enableFog", "depthRange", "color", "vertexPointer",
	"texCoordPointer", "colorPointer", "clientArrays", "drawElements", "drawLines",
}

func (o Op) String() string {
	if o < 0 || o >= numOps {
		return fmt.Sprintf("op(%d)", int(o))
	}
	return opNames[o]
}

// MarshalYAML writes the op by name.
func (o Op) MarshalYAML() (any, error) {
	return o.String(), nil
}

// Command is one recorded call. Only the fields meaningful for Op are set.
type Command struct {
	Op    Op               `yaml:"op"`
	Unit  int              `yaml:"unit,omitempty"`
	Image string           `yaml:"image,omitempty"`
	State shader.StateBits `yaml:"state,omitempty"`
	Value int              `yaml:"value,omitempty"` // enum argument or element count
	On    bool             `yaml:"on,omitempty"`
	Args  []float32        `yaml:"args,omitempty"`
}

// Draw is the device state at one draw call, with copies of the registered
// arrays.
type Draw struct {
	Unit      int              `yaml:"unit"`
	Images    [2]string        `yaml:"images"`
	Textured  [2]bool          `yaml:"textured"`
	TexEnv    shader.TexEnv    `yaml:"texEnv"`
	State     shader.StateBits `yaml:"state"`
	Cull      shader.CullType  `yaml:"cull"`
	Fog       bool             `yaml:"fog"`
	Streams   staging.Streams  `yaml:"streams"`
	Indexes   []uint32         `yaml:"indexes,flow"`
	Lines     int              `yaml:"lines,omitempty"`
	Positions []float32        `yaml:"positions,flow"`
	TexCoords [2][]float32     `yaml:"texCoords,flow"`
	Colors    []byte           `yaml:"colors,flow"`
}

// Recorder implements the back end's device interface by recording calls.
type Recorder struct {
	// KeepArrays copies the registered arrays into each Draw.
	KeepArrays bool

	commands []Command
	draws    []Draw
	counts   [numOps]int

	unit      int
	images    [2]string
	textured  [2]bool
	env       shader.TexEnv
	state     shader.StateBits
	cull      shader.CullType
	fog       bool
	streams   staging.Streams
	positions []float32
	texCoords [2][]float32
	colors    []byte
}

// New creates a recorder with texturing enabled on unit 0.
func New() *Recorder {
	r := &Recorder{}
	r.Reset()
	return r
}

// Reset drops the recording and returns the device to its initial state.
func (r *Recorder) Reset() {
	keep := r.KeepArrays
	*r = Recorder{
		KeepArrays: keep,
		commands:   r.commands[:0],
		draws:      r.draws[:0],
		textured:   [2]bool{true, false},
		state:      shader.StateDefault,
	}
}

// Commands returns the recorded calls in order.
func (r *Recorder) Commands() []Command { return r.commands }

// Draws returns the recorded draw calls in order.
func (r *Recorder) Draws() []Draw { return r.draws }

// Count returns how many times op was recorded.
func (r *Recorder) Count(op Op) int { return r.counts[op] }

func (r *Recorder) add(c Command) {
	r.commands = append(r.commands, c)
	r.counts[c.Op]++
}

func (r *Recorder) SelectTexture(unit int) {
	r.unit = unit
	r.add(Command{Op: OpSelectTexture, Unit: unit})
}

func (r *Recorder) BindTexture(img *texture.Image) {
	r.images[r.unit] = img.Name
	r.add(Command{Op: OpBindTexture, Unit: r.unit, Image: img.Name})
}

func (r *Recorder) EnableTexture(enabled bool) {
	r.textured[r.unit] = enabled
	r.add(Command{Op: OpEnableTexture, Unit: r.unit, On: enabled})
}

func (r *Recorder) SetTexEnv(env shader.TexEnv) {
	r.env = env
	r.add(Command{Op: OpTexEnv, Unit: r.unit, Value: int(env)})
}

func (r *Recorder) SetState(bits shader.StateBits) {
	r.state = bits
	r.add(Command{Op: OpState, State: bits})
}

func (r *Recorder) SetCull(cull shader.CullType) {
	r.cull = cull
	r.add(Command{Op: OpCull, Value: int(cull)})
}

func (r *Recorder) SetPolygonOffset(enabled bool, factor, units float32) {
	r.add(Command{Op: OpPolygonOffset, On: enabled, Args: []float32{factor, units}})
}

func (r *Recorder) SetFog(fog scene.GLFog) {
	args := append(fog.Color[:], fog.Start, fog.End, fog.Density)
	r.add(Command{Op: OpFog, Value: int(fog.Mode), Args: args})
}

func (r *Recorder) EnableFog(enabled bool) {
	r.fog = enabled
	r.add(Command{Op: OpEnableFog, On: enabled})
}

func (r *Recorder) SetDepthRange(near, far float32) {
	r.add(Command{Op: OpDepthRange, Args: []float32{near, far}})
}

func (r *Recorder) SetColor(rgba [4]float32) {
	r.add(Command{Op: OpColor, Args: rgba[:]})
}

func (r *Recorder) VertexPointer(xyz []float32) {
	r.positions = xyz
	r.add(Command{Op: OpVertexPointer, Value: len(xyz) / 3})
}

func (r *Recorder) TexCoordPointer(unit int, st []float32) {
	r.texCoords[unit] = st
	r.add(Command{Op: OpTexCoordPointer, Unit: unit, Value: len(st) / 2})
}

func (r *Recorder) ColorPointer(rgba []byte) {
	r.colors = rgba
	r.add(Command{Op: OpColorPointer, Value: len(rgba) / 4})
}

func (r *Recorder) EnableClientArrays(streams staging.Streams) {
	r.streams = streams
	r.add(Command{Op: OpClientArrays, Value: int(streams)})
}

func (r *Recorder) DrawElements(indexes []uint32) {
	r.add(Command{Op: OpDrawElements, Unit: r.unit, State: r.state, Value: len(indexes)})
	r.draws = append(r.draws, r.snapshot(indexes, 0))
}

func (r *Recorder) DrawLines(count int) {
	r.add(Command{Op: OpDrawLines, Unit: r.unit, State: r.state, Value: count})
	r.draws = append(r.draws, r.snapshot(nil, count))
}

// snapshot captures the state of a draw. The registered arrays are staging
// memory that is overwritten next frame, so they are copied when kept.
func (r *Recorder) snapshot(indexes []uint32, lines int) Draw {
	d := Draw{
		Unit:     r.unit,
		Images:   r.images,
		Textured: r.textured,
		TexEnv:   r.env,
		State:    r.state,
		Cull:     r.cull,
		Fog:      r.fog,
		Streams:  r.streams,
		Indexes:  slices.Clone(indexes),
		Lines:    lines,
	}
	if r.KeepArrays {
		d.Positions = slices.Clone(r.positions)
		d.Colors = slices.Clone(r.colors)
		for u := range r.texCoords {
			d.TexCoords[u] = slices.Clone(r.texCoords[u])
		}
	}
	return d
}

// Summary logs the per-op call counts.
func (r *Recorder) Summary(log *zap.Logger) {
	fields := make([]zap.Field, 0, numOps+1)
	fields = append(fields, zap.Int("commands", len(r.commands)))
	for op := range numOps {
		if n := r.counts[op]; n > 0 {
			fields = append(fields, zap.Int(op.String(), n))
		}
	}
	log.Info("recorded frame", fields...)
}

// WriteYAML writes the recorded draws as YAML.
func (r *Recorder) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(struct {
		Draws []Draw `yaml:"draws"`
	}{r.draws}); err != nil {
		return fmt.Errorf("encoding recording: %w", err)
	}
	return enc.Close()
}
