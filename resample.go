package applehdr

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"
)

// bufferFromImage converts a decoded 8- or 16-bit image to a normalized
// 3-channel float buffer in [0, 1].
func bufferFromImage(img image.Image) *PixelBuffer {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := NewPixelBuffer(w, h, 3)
	parallelRows(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				i := (y*w + x) * 3
				out.Pix[i] = float32(r) / 65535.0
				out.Pix[i+1] = float32(g) / 65535.0
				out.Pix[i+2] = float32(bl) / 65535.0
			}
		}
	})
	return out
}

// grayBufferFromImage converts a decoded image to a normalized
// single-channel float buffer in [0, 1].
func grayBufferFromImage(img image.Image) *PixelBuffer {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := NewPixelBuffer(w, h, 1)
	if gray, ok := img.(*image.Gray); ok {
		parallelRows(h, func(start, end int) {
			for y := start; y < end; y++ {
				row := gray.Pix[(y+b.Min.Y-gray.Rect.Min.Y)*gray.Stride:]
				for x := 0; x < w; x++ {
					out.Pix[y*w+x] = float32(row[x+b.Min.X-gray.Rect.Min.X]) / 255.0
				}
			}
		})
		return out
	}
	parallelRows(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				c := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
				out.Pix[y*w+x] = float32(c.Y) / 65535.0
			}
		}
	})
	return out
}

// ResampleGainMap scales the auxiliary gain-map image to the base image's
// resolution with a Lanczos3 filter and returns it as a normalized
// single-channel buffer. The auxiliary image is typically stored at a lower
// resolution than the base. Resampling happens on the integer samples, so
// the normalized result stays in [0, 1].
func ResampleGainMap(aux image.Image, w, h int) *PixelBuffer {
	b := aux.Bounds()
	if b.Dx() != w || b.Dy() != h {
		aux = resize.Resize(uint(w), uint(h), aux, resize.Lanczos3)
	}
	return grayBufferFromImage(aux)
}
