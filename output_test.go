package applehdr

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/tiff"
)

func testUint16Buffer() *Uint16Buffer {
	buf := NewUint16Buffer(2, 2, 3)
	copy(buf.Pix, []uint16{
		0, 1000, 20000, 38055, 42871, 65535,
		12345, 0, 65535, 500, 42871, 30000,
	})
	return buf
}

func TestWritePNGRoundTrip(t *testing.T) {
	buf := testUint16Buffer()
	var b bytes.Buffer
	if err := WritePNG(&b, buf); err != nil {
		t.Fatalf("write png: %v", err)
	}
	img, err := png.Decode(&b)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			i := (y*buf.W + x) * 3
			r, g, bl, _ := img.At(x, y).RGBA()
			if uint16(r) != buf.Pix[i] || uint16(g) != buf.Pix[i+1] || uint16(bl) != buf.Pix[i+2] {
				t.Fatalf("pixel (%d,%d) = (%d,%d,%d), want (%d,%d,%d)",
					x, y, r, g, bl, buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2])
			}
		}
	}
}

func TestWriteTIFFRoundTrip(t *testing.T) {
	buf := testUint16Buffer()
	var b bytes.Buffer
	if err := WriteTIFF(&b, buf); err != nil {
		t.Fatalf("write tiff: %v", err)
	}
	img, err := tiff.Decode(&b)
	if err != nil {
		t.Fatalf("decode tiff: %v", err)
	}
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			i := (y*buf.W + x) * 3
			r, g, bl, _ := img.At(x, y).RGBA()
			if uint16(r) != buf.Pix[i] || uint16(g) != buf.Pix[i+1] || uint16(bl) != buf.Pix[i+2] {
				t.Fatalf("pixel (%d,%d) = (%d,%d,%d), want (%d,%d,%d)",
					x, y, r, g, bl, buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2])
			}
		}
	}
}

func TestWriteEXR(t *testing.T) {
	buf := NewPixelBuffer(3, 2, 3)
	for i := range buf.Pix {
		buf.Pix[i] = float32(i) / 4.0
	}
	for _, depth := range []int{0, 16, 32} {
		path := filepath.Join(t.TempDir(), "out.exr")
		if err := WriteEXR(path, buf, depth); err != nil {
			t.Fatalf("write exr depth %d: %v", depth, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if len(data) < 4 || !bytes.Equal(data[:4], []byte{0x76, 0x2f, 0x31, 0x01}) {
			t.Fatalf("depth %d: missing OpenEXR magic, got % x", depth, data[:4])
		}
	}
}

func TestWriteEXRBadDepth(t *testing.T) {
	buf := NewPixelBuffer(1, 1, 3)
	path := filepath.Join(t.TempDir(), "out.exr")
	if err := WriteEXR(path, buf, 24); err == nil {
		t.Error("bit depth 24 accepted")
	}
}

func TestWriteRadianceHDR(t *testing.T) {
	buf := NewPixelBuffer(3, 2, 3)
	for i := range buf.Pix {
		buf.Pix[i] = float32(i) * 0.75
	}
	var b bytes.Buffer
	if err := WriteRadianceHDR(&b, buf); err != nil {
		t.Fatalf("write radiance: %v", err)
	}
	if !bytes.HasPrefix(b.Bytes(), []byte("#?")) {
		t.Errorf("missing radiance signature, got %q", b.Bytes()[:min(16, b.Len())])
	}
}

func TestWritersRejectChannelMismatch(t *testing.T) {
	gray := NewUint16Buffer(2, 2, 1)
	if err := WritePNG(&bytes.Buffer{}, gray); err == nil {
		t.Error("png accepted 1-channel buffer")
	}
	if err := WriteTIFF(&bytes.Buffer{}, gray); err == nil {
		t.Error("tiff accepted 1-channel buffer")
	}
	f := NewPixelBuffer(2, 2, 1)
	if err := WriteEXR(filepath.Join(t.TempDir(), "out.exr"), f, 16); err == nil {
		t.Error("exr accepted 1-channel buffer")
	}
	if err := WriteRadianceHDR(&bytes.Buffer{}, f); err == nil {
		t.Error("radiance accepted 1-channel buffer")
	}
}
