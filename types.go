package applehdr

// PixelBuffer stores a rectangular buffer of float32 samples, either
// 3-channel interleaved RGB or single-channel (gain map / luminance).
// Encoded and normalized data lives in [0, 1]; linear radiance is unbounded
// non-negative.
type PixelBuffer struct {
	W, H     int
	Channels int
	Pix      []float32
}

// NewPixelBuffer allocates a zeroed buffer.
func NewPixelBuffer(w, h, channels int) *PixelBuffer {
	return &PixelBuffer{W: w, H: h, Channels: channels, Pix: make([]float32, w*h*channels)}
}

// At returns the sample at (x, y) for channel c.
func (b *PixelBuffer) At(x, y, c int) float32 {
	return b.Pix[(y*b.W+x)*b.Channels+c]
}

// RGBAt returns the RGB triple at (x, y). The buffer must be 3-channel.
func (b *PixelBuffer) RGBAt(x, y int) (r, g, bl float32) {
	i := (y*b.W + x) * 3
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

// Uint16Buffer stores a rectangular buffer of 16-bit unsigned samples.
type Uint16Buffer struct {
	W, H     int
	Channels int
	Pix      []uint16
}

// NewUint16Buffer allocates a zeroed buffer.
func NewUint16Buffer(w, h, channels int) *Uint16Buffer {
	return &Uint16Buffer{W: w, H: h, Channels: channels, Pix: make([]uint16, w*h*channels)}
}
