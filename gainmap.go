package applehdr

import "fmt"

// ApplyGainMap combines a non-linear Display P3 SDR base image with its
// gain map, producing linear-light HDR pixels.
//
// base is an HxWx3 buffer in [0, 1] with an sRGB-equivalent transfer
// function (Display P3 shares the sRGB EOTF). gainMap is a single-channel
// HxW buffer in [0, 1], already resampled to base's dimensions. headroom is
// the multiplier derived from HDRMetadata.Headroom, >= 1.0.
//
// The result is a new HxWx3 buffer with values in [0, headroom]: the
// per-pixel scale factor 1 + (headroom-1)*gainLinear broadcasts the
// single-channel gain map across all three color channels.
func ApplyGainMap(base, gainMap *PixelBuffer, headroom float64) (*PixelBuffer, error) {
	if base.W != gainMap.W || base.H != gainMap.H {
		return nil, fmt.Errorf("%w: base %dx%d vs gain map %dx%d",
			ErrDimensionMismatch, base.W, base.H, gainMap.W, gainMap.H)
	}
	out := NewPixelBuffer(base.W, base.H, 3)
	boost := float32(headroom - 1.0)
	parallelRows(base.H, func(start, end int) {
		for y := start; y < end; y++ {
			row := base.Pix[y*base.W*3 : (y+1)*base.W*3]
			gmRow := gainMap.Pix[y*gainMap.W : (y+1)*gainMap.W]
			outRow := out.Pix[y*out.W*3 : (y+1)*out.W*3]
			for x := 0; x < base.W; x++ {
				scale := 1.0 + boost*srgbEOTF(gmRow[x])
				i := x * 3
				outRow[i] = srgbEOTF(row[i]) * scale
				outRow[i+1] = srgbEOTF(row[i+1]) * scale
				outRow[i+2] = srgbEOTF(row[i+2]) * scale
			}
		}
	})
	return out, nil
}
