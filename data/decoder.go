package data

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register gif.
	_ "image/jpeg" // Register jpeg.
	_ "image/png"  // Register png.

	_ "golang.org/x/image/bmp"  // Register bmp.
	_ "golang.org/x/image/tiff" // Register tiff.
	_ "golang.org/x/image/webp" // Register webp.
)

// Decoder turns file bytes into memory values.
type Decoder interface {
	Decode(b []byte) ([]int32, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(b []byte) ([]int32, error)

func (f DecoderFunc) Decode(b []byte) ([]int32, error) { return f(b) }

// RawDecoder stores one byte per cell.
type RawDecoder struct{}

func (RawDecoder) Decode(b []byte) ([]int32, error) {
	out := make([]int32, len(b))
	for i, elem := range b {
		out[i] = int32(elem)
	}
	return out, nil
}

// ImageDecoder stores [width, height, pixels...] in row-major order,
// each pixel packed as b<<16 | g<<8 | r.
type ImageDecoder struct{}

func (ImageDecoder) Decode(b []byte) ([]int32, error) {
	img, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	out := make([]int32, 0, 2+bounds.Dx()*bounds.Dy())
	out = append(out, int32(bounds.Dx()), int32(bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c, ok := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if !ok {
				return nil, fmt.Errorf("unexpected %s color model", format)
			}
			out = append(out, PackRGB(c.R, c.G, c.B))
		}
	}
	return out, nil
}

// PackRGB packs a color the way images are stored in memory.
func PackRGB(r, g, b uint8) int32 {
	return int32(b)<<16 | int32(g)<<8 | int32(r)
}

// DefaultDecoders selects the image decoder for known image extensions.
var DefaultDecoders = map[string]Decoder{
	".png":  ImageDecoder{},
	".jpg":  ImageDecoder{},
	".jpeg": ImageDecoder{},
	".gif":  ImageDecoder{},
	".bmp":  ImageDecoder{},
	".tif":  ImageDecoder{},
	".tiff": ImageDecoder{},
	".webp": ImageDecoder{},
}
