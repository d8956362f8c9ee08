package applehdr_test

import (
	"fmt"

	"github.com/vearutop/applehdr"
)

func ExampleHDRMetadata_Headroom() {
	m := applehdr.ParseHDRMetadata(map[string]any{
		"MakerNotes:HDRHeadroom": 2.0,
		"MakerNotes:HDRGain":     1.0,
	})
	headroom, err := m.Headroom()
	if err != nil {
		return
	}
	fmt.Printf("%.1f\n", headroom)
	// Output: 4.0
}

func ExampleApplyGainMap() {
	base := applehdr.NewPixelBuffer(1, 1, 3)
	copy(base.Pix, []float32{1, 1, 1})
	gainMap := applehdr.NewPixelBuffer(1, 1, 1)
	gainMap.Pix[0] = 1

	hdr, err := applehdr.ApplyGainMap(base, gainMap, 4.0)
	if err != nil {
		return
	}
	fmt.Println(hdr.Pix)
	// Output: [4 4 4]
}

func ExampleQuantizeToPQ() {
	linear := applehdr.NewPixelBuffer(1, 1, 3)
	copy(linear.Pix, []float32{0, 1, 2})

	q := applehdr.QuantizeToPQ(linear, applehdr.RefWhiteNits)
	fmt.Println(q.Pix)
	// Output: [0 38055 42871]
}
