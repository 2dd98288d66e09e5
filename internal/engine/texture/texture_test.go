package texture

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func tgaHeader(imageType byte, w, h int, bpp byte, descriptor byte) []byte {
	hdr := make([]byte, 18)
	hdr[2] = imageType
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = bpp
	hdr[17] = descriptor
	return hdr
}

func TestDecodeTGAUncompressed(t *testing.T) {
	// 2x1, 24-bit, top-to-bottom: blue then red pixel (BGR order on disk).
	data := append(tgaHeader(TGATypeUncompressed, 2, 1, 24, 0x20), 255, 0, 0, 0, 0, 255)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA() error = %v", err)
	}
	rgba := img.(*image.RGBA)
	if got := rgba.RGBAAt(0, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("pixel(0,0) = %v, want blue", got)
	}
	if got := rgba.RGBAAt(1, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("pixel(1,0) = %v, want red", got)
	}
}

func TestDecodeTGABottomUp(t *testing.T) {
	// 1x2, 32-bit, bottom-to-top: the first stored row is the last image row.
	data := append(tgaHeader(TGATypeUncompressed, 1, 2, 32, 0), 0, 255, 0, 128, 0, 0, 0, 255)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA() error = %v", err)
	}
	rgba := img.(*image.RGBA)
	if got := rgba.RGBAAt(0, 1); got != (color.RGBA{0, 255, 0, 128}) {
		t.Errorf("pixel(0,1) = %v, want translucent green", got)
	}
}

func TestDecodeTGARLE(t *testing.T) {
	// 3x1 RLE: a run of two white pixels then one raw black pixel.
	data := tgaHeader(TGATypeRLE, 3, 1, 24, 0x20)
	data = append(data, 0x81, 255, 255, 255)
	data = append(data, 0x00, 0, 0, 0)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA() error = %v", err)
	}
	rgba := img.(*image.RGBA)
	for x, want := range []color.RGBA{{255, 255, 255, 255}, {255, 255, 255, 255}, {0, 0, 0, 255}} {
		if got := rgba.RGBAAt(x, 0); got != want {
			t.Errorf("pixel(%d,0) = %v, want %v", x, got, want)
		}
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"too short", []byte{1, 2, 3}},
		{"color mapped", func() []byte { h := tgaHeader(1, 1, 1, 24, 0); h[1] = 1; return h }()},
		{"unsupported depth", tgaHeader(TGATypeUncompressed, 1, 1, 16, 0)},
		{"truncated pixels", tgaHeader(TGATypeUncompressed, 4, 4, 24, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestBuiltins(t *testing.T) {
	b := NewBuiltins()

	if b.White.Pixels.RGBAAt(3, 3) != (color.RGBA{255, 255, 255, 255}) {
		t.Error("white image is not white")
	}

	// The dlight falloff is brightest at the center and black in the corners.
	center := b.Dlight.Pixels.RGBAAt(DlightSize/2, DlightSize/2)
	corner := b.Dlight.Pixels.RGBAAt(0, 0)
	if center.R != 255 {
		t.Errorf("dlight center = %v, want full intensity", center)
	}
	if corner.R != 0 {
		t.Errorf("dlight corner = %v, want black", corner)
	}
	if !b.Dlight.Clamp || !b.Fog.Clamp {
		t.Error("dlight and fog images should clamp")
	}

	// Fog opacity grows along s.
	near := b.Fog.Pixels.RGBAAt(1, FogT-1)
	far := b.Fog.Pixels.RGBAAt(FogS-1, FogT-1)
	if near.A >= far.A {
		t.Errorf("fog alpha near = %d, far = %d, want increasing", near.A, far.A)
	}
}

func TestLoadBMP(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(1, 1, color.RGBA{10, 20, 30, 255})

	path := filepath.Join(t.TempDir(), "stone.bmp")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := bmp.Encode(f, src); err != nil {
		t.Fatalf("bmp.Encode: %v", err)
	}
	f.Close()

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if img.Width != 2 || img.Height != 2 {
		t.Errorf("size = %dx%d, want 2x2", img.Width, img.Height)
	}
	if got := img.Pixels.RGBAAt(1, 1); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("pixel = %v, want {10 20 30 255}", got)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.tga")); err == nil {
		t.Error("expected error for missing file")
	}
}
