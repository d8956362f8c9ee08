package applehdr

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func gradientBuffers() (*PixelBuffer, *PixelBuffer) {
	base := NewPixelBuffer(2, 2, 3)
	for i := range base.Pix {
		base.Pix[i] = float32(float64(i) / 11.0)
	}
	gainMap := NewPixelBuffer(2, 2, 1)
	for i := range gainMap.Pix {
		gainMap.Pix[i] = float32(float64(i) / 3.0)
	}
	return base, gainMap
}

func TestApplyGainMap(t *testing.T) {
	base, gainMap := gradientBuffers()
	const headroom = 4.0

	hdr, err := ApplyGainMap(base, gainMap, headroom)
	if err != nil {
		t.Fatalf("apply gain map: %v", err)
	}
	for i, v := range hdr.Pix {
		if v < 0 || v > headroom {
			t.Fatalf("sample %d = %v outside [0, %v]", i, v, headroom)
		}
	}

	norm := NewPixelBuffer(hdr.W, hdr.H, 3)
	for i, v := range hdr.Pix {
		norm.Pix[i] = v / headroom
	}
	want := []uint16{
		0, 142, 454, 1260, 2268, 3635,
		9344, 13107, 17630, 41622, 52790, 65535,
	}
	if diff := cmp.Diff(want, QuantizeToUint16(norm).Pix); diff != "" {
		t.Errorf("quantized output mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyGainMapZeroIsBaseLinear(t *testing.T) {
	base, gainMap := gradientBuffers()
	for i := range gainMap.Pix {
		gainMap.Pix[i] = 0
	}
	hdr, err := ApplyGainMap(base, gainMap, 7.5)
	if err != nil {
		t.Fatalf("apply gain map: %v", err)
	}
	for i, v := range hdr.Pix {
		if want := srgbEOTF(base.Pix[i]); v != want {
			t.Fatalf("sample %d = %v, want base linear %v", i, v, want)
		}
	}
}

func TestApplyGainMapSaturatedIsHeadroomTimesBase(t *testing.T) {
	base, gainMap := gradientBuffers()
	for i := range gainMap.Pix {
		gainMap.Pix[i] = 1
	}
	const headroom = 4.0
	hdr, err := ApplyGainMap(base, gainMap, headroom)
	if err != nil {
		t.Fatalf("apply gain map: %v", err)
	}
	for i, v := range hdr.Pix {
		if want := headroom * srgbEOTF(base.Pix[i]); v != want {
			t.Fatalf("sample %d = %v, want %v", i, v, want)
		}
	}
}

func TestApplyGainMapDimensionMismatch(t *testing.T) {
	base := NewPixelBuffer(4, 4, 3)
	gainMap := NewPixelBuffer(2, 2, 1)
	if _, err := ApplyGainMap(base, gainMap, 2.0); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("error = %v, want ErrDimensionMismatch", err)
	}
}

func BenchmarkApplyGainMap(b *testing.B) {
	base := NewPixelBuffer(640, 480, 3)
	for i := range base.Pix {
		base.Pix[i] = float32(i%256) / 255.0
	}
	gainMap := NewPixelBuffer(640, 480, 1)
	for i := range gainMap.Pix {
		gainMap.Pix[i] = float32(i%256) / 255.0
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ApplyGainMap(base, gainMap, 7.37); err != nil {
			b.Fatal(err)
		}
	}
}
