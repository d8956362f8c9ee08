package applehdr

import "math"

// SMPTE ST 2084 constants.
const (
	pqM1 = 2610.0 / 16384.0
	pqM2 = 2523.0 / 4096.0 * 128.0
	pqC1 = 3424.0 / 4096.0
	pqC2 = 2413.0 / 4096.0 * 32.0
	pqC3 = 2392.0 / 4096.0 * 32.0
)

// pqInverseEOTF maps absolute luminance in nits to a [0, 1] PQ code value.
// Inputs beyond the representable [0, 10000] nit range follow the standard
// formula's extrapolation; no extra clamping happens here.
func pqInverseEOTF(nits float64) float64 {
	y := math.Pow(math.Max(nits, 0)/pqMaxNits, pqM1)
	return math.Pow((pqC1+pqC2*y)/(1+pqC3*y), pqM2)
}

// EncodePQ scales every linear sample by whiteNits and applies the inverse
// PQ (SMPTE ST 2084) EOTF, producing normalized code values. whiteNits <= 0
// selects the 203-nit default reference white.
func EncodePQ(linear *PixelBuffer, whiteNits float64) *PixelBuffer {
	if whiteNits <= 0 {
		whiteNits = RefWhiteNits
	}
	out := NewPixelBuffer(linear.W, linear.H, linear.Channels)
	stride := linear.W * linear.Channels
	parallelRows(linear.H, func(start, end int) {
		for y := start; y < end; y++ {
			row := linear.Pix[y*stride : (y+1)*stride]
			outRow := out.Pix[y*stride : (y+1)*stride]
			for i, v := range row {
				outRow[i] = float32(pqInverseEOTF(whiteNits * float64(v)))
			}
		}
	})
	return out
}

// QuantizeToUint16 maps unit-interval samples to 16-bit integers: multiply
// by 65535, round to nearest, clamp. Out-of-range inputs are clamped rather
// than rejected, so the function doubles as a general unit-to-uint16
// quantizer independent of PQ.
func QuantizeToUint16(buf *PixelBuffer) *Uint16Buffer {
	out := NewUint16Buffer(buf.W, buf.H, buf.Channels)
	stride := buf.W * buf.Channels
	parallelRows(buf.H, func(start, end int) {
		for y := start; y < end; y++ {
			row := buf.Pix[y*stride : (y+1)*stride]
			outRow := out.Pix[y*stride : (y+1)*stride]
			for i, v := range row {
				outRow[i] = quantize16(v)
			}
		}
	})
	return out
}

func quantize16(v float32) uint16 {
	// The product must stay in single precision: float32(0.9)*65535 lands
	// exactly on 58981.5 and rounds up to the reference 58982, while the
	// float64 product falls a hair short and rounds down.
	q := math.Round(float64(v * 65535.0))
	if q <= 0 {
		return 0
	}
	if q >= 65535 {
		return 65535
	}
	return uint16(q)
}
