// Package texture provides the images bound by the shading back end: built-in
// procedural images and decoding of image files from disk.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	rmath "github.com/Faultbox/rbshade/pkg/math"
)

// Image is a texture the device can bind. Handle is owned by the device and is
// zero until the image has been uploaded.
type Image struct {
	Name   string
	Width  int
	Height int
	Pixels *image.RGBA
	Clamp  bool // clamp to edge instead of repeating

	Handle uint32
}

// NewImage wraps RGBA pixels as a named image.
func NewImage(name string, pix *image.RGBA, clamp bool) *Image {
	b := pix.Bounds()
	return &Image{
		Name:   name,
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: pix,
		Clamp:  clamp,
	}
}

// Sizes of the procedural images.
const (
	DlightSize = 16
	FogS       = 256
	FogT       = 32
)

// Builtins holds the procedural images the back end binds by itself.
type Builtins struct {
	White  *Image
	Dlight *Image
	Fog    *Image
}

// NewBuiltins creates the procedural images.
func NewBuiltins() *Builtins {
	return &Builtins{
		White:  WhiteImage(),
		Dlight: DlightImage(),
		Fog:    FogImage(),
	}
}

// WhiteImage returns an 8x8 opaque white image.
func WhiteImage() *Image {
	pix := image.NewRGBA(image.Rect(0, 0, 8, 8))
	draw.Draw(pix, pix.Bounds(), image.NewUniform(color.RGBA{255, 255, 255, 255}), image.Point{}, draw.Src)
	return NewImage("*white", pix, false)
}

// DlightImage returns the radial falloff used by the default dynamic light pass.
func DlightImage() *Image {
	pix := image.NewRGBA(image.Rect(0, 0, DlightSize, DlightSize))
	for y := range DlightSize {
		for x := range DlightSize {
			dx := float32(DlightSize)/2 - 0.5 - float32(x)
			dy := float32(DlightSize)/2 - 0.5 - float32(y)
			b := 4000 / (dx*dx + dy*dy)
			switch {
			case b > 255:
				b = 255
			case b < 75:
				b = 0
			}
			v := uint8(b)
			pix.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return NewImage("*dlight", pix, true)
}

// FogImage returns the fog density image sampled by fog texture coordinates.
func FogImage() *Image {
	pix := image.NewRGBA(image.Rect(0, 0, FogS, FogT))
	for x := range FogS {
		for y := range FogT {
			d := rmath.FogFactor((float32(x)+0.5)/FogS, (float32(y)+0.5)/FogT)
			pix.SetRGBA(x, y, color.RGBA{255, 255, 255, uint8(255 * d)})
		}
	}
	return NewImage("*fog", pix, true)
}

// Load reads an image file. TGA and BMP are decoded here, other formats through
// the registered image decoders.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.ToSlash(path), filepath.Ext(path))

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tga":
		img, err = DecodeTGA(data)
	case ".bmp":
		img, err = bmp.Decode(bytes.NewReader(data))
	default:
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return NewImage(name, ToRGBA(img), false), nil
}

// ToRGBA converts any image.Image to *image.RGBA, returning RGBA input unchanged.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}
