package applehdr

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"
	"github.com/mrjoshuak/go-openexr/exr"
	"github.com/mrjoshuak/go-openexr/half"
	"golang.org/x/image/tiff"
)

// WriteOptions configures the output writers. The zero value selects the
// per-format defaults.
type WriteOptions struct {
	Quality     int  // 0-100, HEIF/AVIF only
	Lossless    bool // HEIF/AVIF only
	BitDepth    int  // 10/12 for HEIF/AVIF, 16 for PNG/TIFF, 16/32 for EXR
	Subsampling int  // 420, 422 or 444; ignored for PNG/TIFF/EXR
}

// rgba64FromBuffer packs a 3-channel Uint16Buffer into an opaque RGBA64.
func rgba64FromBuffer(buf *Uint16Buffer) *image.RGBA64 {
	img := image.NewRGBA64(image.Rect(0, 0, buf.W, buf.H))
	parallelRows(buf.H, func(start, end int) {
		for y := start; y < end; y++ {
			row := img.Pix[y*img.Stride:]
			for x := 0; x < buf.W; x++ {
				i := (y*buf.W + x) * 3
				o := x * 8
				r, g, b := buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2]
				row[o] = uint8(r >> 8)
				row[o+1] = uint8(r)
				row[o+2] = uint8(g >> 8)
				row[o+3] = uint8(g)
				row[o+4] = uint8(b >> 8)
				row[o+5] = uint8(b)
				row[o+6] = 0xFF
				row[o+7] = 0xFF
			}
		}
	})
	return img
}

// WritePNG writes a 3-channel 16-bit buffer as a 48-bit PNG.
//
// PNG cannot carry CICP signaling portably, so the samples are written
// as-is; callers are expected to pass BT.2100 PQ data.
func WritePNG(w io.Writer, buf *Uint16Buffer) error {
	if buf.Channels != 3 {
		return errors.New("png output requires a 3-channel buffer")
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, rgba64FromBuffer(buf))
}

// WriteTIFF writes a 3-channel 16-bit buffer as a deflate-compressed TIFF.
func WriteTIFF(w io.Writer, buf *Uint16Buffer) error {
	if buf.Channels != 3 {
		return errors.New("tiff output requires a 3-channel buffer")
	}
	return tiff.Encode(w, rgba64FromBuffer(buf), &tiff.Options{
		Compression: tiff.Deflate,
		Predictor:   true,
	})
}

// WriteEXR writes a 3-channel linear buffer as a scanline OpenEXR file with
// ZIP compression. bitDepth selects half (16) or float (32) channels.
func WriteEXR(path string, buf *PixelBuffer, bitDepth int) error {
	if buf.Channels != 3 {
		return errors.New("exr output requires a 3-channel buffer")
	}
	var pixelType exr.PixelType
	var sampleSize int
	switch bitDepth {
	case 0, defaultEXRDepth:
		pixelType = exr.PixelTypeHalf
		sampleSize = 2
	case 32:
		pixelType = exr.PixelTypeFloat
		sampleSize = 4
	default:
		return fmt.Errorf("exr output supports bit depth 16 or 32, got %d", bitDepth)
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer f.Close()

	h := exr.NewScanlineHeader(buf.W, buf.H)
	h.SetCompression(exr.CompressionZIP)

	channels := exr.NewChannelList()
	for _, name := range []string{"R", "G", "B"} {
		channels.Add(exr.Channel{Name: name, Type: pixelType, XSampling: 1, YSampling: 1})
	}
	h.SetChannels(channels)

	fb := exr.NewFrameBuffer()
	for _, name := range []string{"R", "G", "B"} {
		data := make([]byte, buf.W*buf.H*sampleSize)
		fb.Set(name, exr.NewSlice(pixelType, data, buf.W, buf.H))
	}
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			r, g, b := buf.RGBAt(x, y)
			if pixelType == exr.PixelTypeHalf {
				fb.Get("R").SetHalf(x, y, half.FromFloat32(r))
				fb.Get("G").SetHalf(x, y, half.FromFloat32(g))
				fb.Get("B").SetHalf(x, y, half.FromFloat32(b))
			} else {
				fb.Get("R").SetFloat32(x, y, r)
				fb.Get("G").SetFloat32(x, y, g)
				fb.Get("B").SetFloat32(x, y, b)
			}
		}
	}

	sw, err := exr.NewScanlineWriter(f, h)
	if err != nil {
		return err
	}
	sw.SetFrameBuffer(fb)
	yMin := int(h.DataWindow().Min.Y)
	yMax := int(h.DataWindow().Max.Y)
	if err := sw.WritePixels(yMin, yMax); err != nil {
		return err
	}
	return sw.Close()
}

// WriteRadianceHDR writes a 3-channel linear buffer in the Radiance RGBE
// format.
func WriteRadianceHDR(w io.Writer, buf *PixelBuffer) error {
	if buf.Channels != 3 {
		return errors.New("radiance output requires a 3-channel buffer")
	}
	m := hdr.NewRGB(image.Rect(0, 0, buf.W, buf.H))
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			r, g, b := buf.RGBAt(x, y)
			m.SetRGB(x, y, hdrcolor.RGB{R: float64(r), G: float64(g), B: float64(b)})
		}
	}
	return rgbe.Encode(w, m)
}
