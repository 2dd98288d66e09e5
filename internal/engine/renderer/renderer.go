// Package renderer provides the OpenGL device the surface back end draws with.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/rbshade/internal/engine/scene"
	"github.com/Faultbox/rbshade/internal/engine/shader"
	"github.com/Faultbox/rbshade/internal/engine/staging"
	"github.com/Faultbox/rbshade/internal/engine/texture"
	"github.com/Faultbox/rbshade/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// GLDevice drives fixed-function OpenGL 2.1 with client-side vertex arrays.
// It tracks state so redundant changes are not sent to the driver.
type GLDevice struct {
	config Config
	log    *zap.Logger

	unit     int
	bound    [2]uint32
	textured [2]bool
	env      [2]shader.TexEnv
	state    shader.StateBits
	cull     shader.CullType
	cullSet  bool
	streams  staging.Streams

	uploaded []*texture.Image
}

// New creates a GL device.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*GLDevice, error) {
	d := &GLDevice{
		config: cfg,
		log:    logger.Named("gl"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	d.log.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	gl.ActiveTexture(gl.TEXTURE0)
	gl.Enable(gl.TEXTURE_2D)
	d.textured[0] = true

	// force the first SetState to apply every bit
	d.state = ^shader.StateBits(0)
	d.SetState(shader.StateDefault)

	return d, nil
}

// Close deletes uploaded textures.
func (d *GLDevice) Close() {
	d.log.Info("closing renderer", zap.Int("textures", len(d.uploaded)))
	for _, img := range d.uploaded {
		gl.DeleteTextures(1, &img.Handle)
		img.Handle = 0
	}
	d.uploaded = nil
}

// Resize handles window resize.
func (d *GLDevice) Resize(width, height int) {
	d.config.Width = width
	d.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	d.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin clears the frame and loads the view matrices.
func (d *GLDevice) Begin(projection, modelView mgl32.Mat4) {
	// depth writes must be on for the clear to reach the depth buffer
	d.SetState(shader.StateDefault)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.MatrixMode(gl.PROJECTION)
	gl.LoadMatrixf(&projection[0])
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadMatrixf(&modelView[0])
}

// LoadModelView replaces the modelview matrix, placing the geometry of the
// entity that follows.
func (d *GLDevice) LoadModelView(m mgl32.Mat4) {
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadMatrixf(&m[0])
}

// ReadPixels reads the framebuffer back as bottom-up RGBA rows.
func (d *GLDevice) ReadPixels() ([]byte, int, int) {
	w, h := d.config.Width, d.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// SelectTexture makes unit the target of texture and texcoord calls.
func (d *GLDevice) SelectTexture(unit int) {
	if d.unit == unit {
		return
	}
	d.unit = unit
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.ClientActiveTexture(gl.TEXTURE0 + uint32(unit))
}

// BindTexture binds img to the selected unit, uploading it on first use.
func (d *GLDevice) BindTexture(img *texture.Image) {
	if img.Handle == 0 {
		d.upload(img)
	}
	if d.bound[d.unit] == img.Handle {
		return
	}
	d.bound[d.unit] = img.Handle
	gl.BindTexture(gl.TEXTURE_2D, img.Handle)
}

func (d *GLDevice) upload(img *texture.Image) {
	gl.GenTextures(1, &img.Handle)
	gl.BindTexture(gl.TEXTURE_2D, img.Handle)
	d.bound[d.unit] = img.Handle

	wrap := int32(gl.REPEAT)
	if img.Clamp {
		wrap = gl.CLAMP_TO_EDGE
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(img.Width), int32(img.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pixels.Pix))

	d.uploaded = append(d.uploaded, img)
	d.log.Debug("texture uploaded",
		zap.String("name", img.Name),
		zap.Uint32("handle", img.Handle),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
	)
}

// EnableTexture turns texturing of the selected unit on or off.
func (d *GLDevice) EnableTexture(enabled bool) {
	if d.textured[d.unit] == enabled {
		return
	}
	d.textured[d.unit] = enabled
	if enabled {
		gl.Enable(gl.TEXTURE_2D)
	} else {
		gl.Disable(gl.TEXTURE_2D)
	}
}

// SetTexEnv sets the texture environment of the selected unit.
func (d *GLDevice) SetTexEnv(env shader.TexEnv) {
	if d.env[d.unit] == env {
		return
	}
	d.env[d.unit] = env
	gl.TexEnvi(gl.TEXTURE_ENV, gl.TEXTURE_ENV_MODE, texEnvMode(env))
}

func texEnvMode(env shader.TexEnv) int32 {
	switch env {
	case shader.TexEnvAdd:
		return gl.ADD
	case shader.TexEnvReplace:
		return gl.REPLACE
	case shader.TexEnvDecal:
		return gl.DECAL
	default:
		return gl.MODULATE
	}
}

// SetState applies the state bits that differ from the current ones.
func (d *GLDevice) SetState(bits shader.StateBits) {
	diff := bits ^ d.state
	if diff == 0 {
		return
	}

	if diff&(shader.SrcBlendBits|shader.DstBlendBits) != 0 {
		if src, dst, ok := blendFactors(bits); ok {
			gl.Enable(gl.BLEND)
			gl.BlendFunc(src, dst)
		} else {
			gl.Disable(gl.BLEND)
		}
	}

	if diff&shader.DepthMaskTrue != 0 {
		gl.DepthMask(bits.Has(shader.DepthMaskTrue))
	}

	if diff&shader.DepthFuncEqual != 0 {
		if bits.Has(shader.DepthFuncEqual) {
			gl.DepthFunc(gl.EQUAL)
		} else {
			gl.DepthFunc(gl.LEQUAL)
		}
	}

	if diff&shader.PolyModeLine != 0 {
		if bits.Has(shader.PolyModeLine) {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		} else {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		}
	}

	if diff&shader.DepthTestDisable != 0 {
		if bits.Has(shader.DepthTestDisable) {
			gl.Disable(gl.DEPTH_TEST)
		} else {
			gl.Enable(gl.DEPTH_TEST)
		}
	}

	if diff&shader.AlphaTestBits != 0 {
		switch bits.AlphaTest() {
		case shader.AlphaTestGT0:
			gl.Enable(gl.ALPHA_TEST)
			gl.AlphaFunc(gl.GREATER, 0)
		case shader.AlphaTestLT80:
			gl.Enable(gl.ALPHA_TEST)
			gl.AlphaFunc(gl.LESS, 0.5)
		case shader.AlphaTestGE80:
			gl.Enable(gl.ALPHA_TEST)
			gl.AlphaFunc(gl.GEQUAL, 0.5)
		default:
			gl.Disable(gl.ALPHA_TEST)
		}
	}

	d.state = bits
}

// blendFactors maps the blend bits to GL factors. ok is false when no blend
// is requested.
func blendFactors(bits shader.StateBits) (src, dst uint32, ok bool) {
	if bits.SrcBlend() == 0 && bits.DstBlend() == 0 {
		return 0, 0, false
	}

	src = gl.ONE
	switch bits.SrcBlend() {
	case shader.SrcBlendZero:
		src = gl.ZERO
	case shader.SrcBlendDstColor:
		src = gl.DST_COLOR
	case shader.SrcBlendOneMinusDstColor:
		src = gl.ONE_MINUS_DST_COLOR
	case shader.SrcBlendSrcAlpha:
		src = gl.SRC_ALPHA
	case shader.SrcBlendOneMinusSrcAlpha:
		src = gl.ONE_MINUS_SRC_ALPHA
	case shader.SrcBlendDstAlpha:
		src = gl.DST_ALPHA
	case shader.SrcBlendOneMinusDstAlpha:
		src = gl.ONE_MINUS_DST_ALPHA
	case shader.SrcBlendAlphaSaturate:
		src = gl.SRC_ALPHA_SATURATE
	}

	dst = gl.ZERO
	switch bits.DstBlend() {
	case shader.DstBlendOne:
		dst = gl.ONE
	case shader.DstBlendSrcColor:
		dst = gl.SRC_COLOR
	case shader.DstBlendOneMinusSrcColor:
		dst = gl.ONE_MINUS_SRC_COLOR
	case shader.DstBlendSrcAlpha:
		dst = gl.SRC_ALPHA
	case shader.DstBlendOneMinusSrcAlpha:
		dst = gl.ONE_MINUS_SRC_ALPHA
	case shader.DstBlendDstAlpha:
		dst = gl.DST_ALPHA
	case shader.DstBlendOneMinusDstAlpha:
		dst = gl.ONE_MINUS_DST_ALPHA
	}
	return src, dst, true
}

// SetCull sets face culling. Front-sided surfaces are drawn from the front.
func (d *GLDevice) SetCull(cull shader.CullType) {
	if d.cullSet && d.cull == cull {
		return
	}
	d.cull, d.cullSet = cull, true

	switch cull {
	case shader.CullTwoSided:
		gl.Disable(gl.CULL_FACE)
	case shader.CullBackSided:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
}

// SetPolygonOffset enables or disables depth offset for decals.
func (d *GLDevice) SetPolygonOffset(enabled bool, factor, units float32) {
	if !enabled {
		gl.Disable(gl.POLYGON_OFFSET_FILL)
		return
	}
	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(factor, units)
}

// SetFog loads distance fog parameters.
func (d *GLDevice) SetFog(fog scene.GLFog) {
	if fog.Mode == scene.GLFogLinear {
		gl.Fogi(gl.FOG_MODE, gl.LINEAR)
		gl.Fogf(gl.FOG_START, fog.Start)
		gl.Fogf(gl.FOG_END, fog.End)
	} else {
		gl.Fogi(gl.FOG_MODE, gl.EXP)
		gl.Fogf(gl.FOG_DENSITY, fog.Density)
	}
	gl.Fogfv(gl.FOG_COLOR, &fog.Color[0])
}

// EnableFog turns distance fog on or off.
func (d *GLDevice) EnableFog(enabled bool) {
	if enabled {
		gl.Enable(gl.FOG)
	} else {
		gl.Disable(gl.FOG)
	}
}

// SetDepthRange maps depth into [near, far].
func (d *GLDevice) SetDepthRange(near, far float32) {
	gl.DepthRange(float64(near), float64(far))
}

// SetColor sets the constant color.
func (d *GLDevice) SetColor(rgba [4]float32) {
	gl.Color4f(rgba[0], rgba[1], rgba[2], rgba[3])
}

// VertexPointer registers positions. The slice must stay alive until the
// draws using it are issued.
func (d *GLDevice) VertexPointer(xyz []float32) {
	gl.VertexPointer(3, gl.FLOAT, 0, gl.Ptr(xyz))
}

// TexCoordPointer registers texture coordinates for unit.
func (d *GLDevice) TexCoordPointer(unit int, st []float32) {
	if unit != d.unit {
		gl.ClientActiveTexture(gl.TEXTURE0 + uint32(unit))
		defer gl.ClientActiveTexture(gl.TEXTURE0 + uint32(d.unit))
	}
	gl.TexCoordPointer(2, gl.FLOAT, 0, gl.Ptr(st))
}

// ColorPointer registers RGBA colors.
func (d *GLDevice) ColorPointer(rgba []byte) {
	gl.ColorPointer(4, gl.UNSIGNED_BYTE, 0, gl.Ptr(rgba))
}

// EnableClientArrays enables exactly the arrays in streams.
func (d *GLDevice) EnableClientArrays(streams staging.Streams) {
	diff := streams ^ d.streams
	if diff == 0 {
		return
	}
	clientState(diff, streams, staging.StreamPosition, gl.VERTEX_ARRAY)
	clientState(diff, streams, staging.StreamColor, gl.COLOR_ARRAY)

	for unit, s := range [2]staging.Streams{staging.StreamTexCoord0, staging.StreamTexCoord1} {
		if diff&s == 0 {
			continue
		}
		gl.ClientActiveTexture(gl.TEXTURE0 + uint32(unit))
		clientState(diff, streams, s, gl.TEXTURE_COORD_ARRAY)
	}
	gl.ClientActiveTexture(gl.TEXTURE0 + uint32(d.unit))

	d.streams = streams
}

func clientState(diff, streams, s staging.Streams, array uint32) {
	if diff&s == 0 {
		return
	}
	if streams.Has(s) {
		gl.EnableClientState(array)
	} else {
		gl.DisableClientState(array)
	}
}

// DrawElements draws indexed triangles.
func (d *GLDevice) DrawElements(indexes []uint32) {
	if len(indexes) == 0 {
		return
	}
	gl.DrawElements(gl.TRIANGLES, int32(len(indexes)), gl.UNSIGNED_INT, gl.Ptr(indexes))
}

// DrawLines draws count registered positions as line pairs.
func (d *GLDevice) DrawLines(count int) {
	gl.DrawArrays(gl.LINES, 0, int32(count))
}
