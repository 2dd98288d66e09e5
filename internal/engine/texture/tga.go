package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

var errTGATruncated = errors.New("TGA data truncated")

// DecodeTGA decodes an uncompressed or RLE compressed 24/32-bit true-color TGA.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d", bpp)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}
	src := data[offset:]
	bytesPerPixel := bpp / 8

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	pixelCount := width * height

	// put stores the n-th pixel in file order, honouring the row direction.
	put := func(n int, px []byte) {
		x, y := n%width, n/width
		if !topToBottom {
			y = height - 1 - y
		}
		a := uint8(255)
		if bytesPerPixel == 4 {
			a = px[3]
		}
		img.SetRGBA(x, y, color.RGBA{R: px[2], G: px[1], B: px[0], A: a})
	}

	if imageType == TGATypeUncompressed {
		if len(src) < pixelCount*bytesPerPixel {
			return nil, errTGATruncated
		}
		for n := range pixelCount {
			put(n, src[n*bytesPerPixel:])
		}
		return img, nil
	}

	n, i := 0, 0
	for n < pixelCount && i < len(src) {
		packet := src[i]
		i++
		count := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			if i+bytesPerPixel > len(src) {
				return nil, errTGATruncated
			}
			px := src[i : i+bytesPerPixel]
			i += bytesPerPixel
			for ; count > 0 && n < pixelCount; count-- {
				put(n, px)
				n++
			}
			continue
		}

		for ; count > 0 && n < pixelCount; count-- {
			if i+bytesPerPixel > len(src) {
				return nil, errTGATruncated
			}
			put(n, src[i : i+bytesPerPixel])
			i += bytesPerPixel
			n++
		}
	}
	return img, nil
}
