package heifio

/*
#cgo pkg-config: libheif
#include <stdlib.h>
#include <libheif/heif.h>
*/
import "C"

import (
	"fmt"
	"path/filepath"
	"unsafe"

	"github.com/vearutop/applehdr"
)

// Format selects the output compression.
type Format int

const (
	FormatHEIC Format = iota
	FormatAVIF
)

// Encode writes a 3-channel 16-bit buffer as a 10- or 12-bit HEIF or AVIF
// file. The image is tagged with the BT.2100 PQ NCLX profile (primaries 9,
// transfer characteristics 16, matrix coefficients 9, full range), so the
// buffer is expected to hold PQ-encoded BT.2020 code values.
func Encode(path string, buf *applehdr.Uint16Buffer, format Format, opt applehdr.WriteOptions) error {
	if buf.Channels != 3 {
		return fmt.Errorf("heif: output requires a 3-channel buffer")
	}
	depth := opt.BitDepth
	if depth == 0 {
		depth = 10
	}
	if depth != 10 && depth != 12 {
		return fmt.Errorf("heif: bit depth must be 10 or 12, got %d", depth)
	}
	quality := opt.Quality
	if quality <= 0 {
		quality = 95
	}
	chroma := opt.Subsampling
	if chroma == 0 {
		chroma = 420
	}
	if chroma != 420 && chroma != 422 && chroma != 444 {
		return fmt.Errorf("heif: chroma subsampling must be 420, 422 or 444, got %d", chroma)
	}

	ctx := C.heif_context_alloc()
	if ctx == nil {
		return fmt.Errorf("heif: context alloc failed")
	}
	defer C.heif_context_free(ctx)

	var img *C.struct_heif_image
	err := heifErr(C.heif_image_create(C.int(buf.W), C.int(buf.H),
		C.heif_colorspace_RGB, C.heif_chroma_interleaved_RRGGBB_LE, &img), "heif: image create")
	if err != nil {
		return err
	}
	defer C.heif_image_release(img)

	if err := heifErr(C.heif_image_add_plane(img, C.heif_channel_interleaved,
		C.int(buf.W), C.int(buf.H), C.int(depth)), "heif: add plane"); err != nil {
		return err
	}
	var stride C.int
	plane := C.heif_image_get_plane(img, C.heif_channel_interleaved, &stride)
	if plane == nil {
		return fmt.Errorf("heif: no interleaved plane")
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(plane)), int(stride)*buf.H)

	shift := uint(16 - depth)
	for y := 0; y < buf.H; y++ {
		row := data[y*int(stride):]
		for x := 0; x < buf.W; x++ {
			i := (y*buf.W + x) * 3
			for ch := 0; ch < 3; ch++ {
				v := reduceDepth(buf.Pix[i+ch], shift)
				o := (x*3 + ch) * 2
				row[o] = byte(v)
				row[o+1] = byte(v >> 8)
			}
		}
	}

	nclx := C.heif_nclx_color_profile_alloc()
	if nclx == nil {
		return fmt.Errorf("heif: nclx alloc failed")
	}
	defer C.heif_nclx_color_profile_free(nclx)
	nclx.color_primaries = C.heif_color_primaries_ITU_R_BT_2020_2_and_2100_0
	nclx.transfer_characteristics = C.heif_transfer_characteristic_ITU_R_BT_2100_0_PQ
	nclx.matrix_coefficients = C.heif_matrix_coefficients_ITU_R_BT_2020_2_and_2100_0_non_constant_luminance
	nclx.full_range_flag = 1
	if err := heifErr(C.heif_image_set_nclx_color_profile(img, nclx), "heif: set nclx"); err != nil {
		return err
	}

	compression := C.heif_compression_HEVC
	if format == FormatAVIF {
		compression = C.heif_compression_AV1
	}
	var enc *C.struct_heif_encoder
	if err := heifErr(C.heif_context_get_encoder_for_format(ctx, compression, &enc), "heif: get encoder"); err != nil {
		return err
	}
	defer C.heif_encoder_release(enc)

	if opt.Lossless {
		if err := heifErr(C.heif_encoder_set_lossless(enc, 1), "heif: set lossless"); err != nil {
			return err
		}
	} else {
		if err := heifErr(C.heif_encoder_set_lossy_quality(enc, C.int(quality)), "heif: set quality"); err != nil {
			return err
		}
	}
	chromaStr := C.CString(fmt.Sprintf("%d", chroma))
	defer C.free(unsafe.Pointer(chromaStr))
	paramName := C.CString("chroma")
	defer C.free(unsafe.Pointer(paramName))
	// Some encoder plugins do not expose the chroma parameter; ignore that.
	_ = C.heif_encoder_set_parameter_string(enc, paramName, chromaStr)

	encOpts := C.heif_encoding_options_alloc()
	if encOpts == nil {
		return fmt.Errorf("heif: options alloc failed")
	}
	defer C.heif_encoding_options_free(encOpts)
	encOpts.output_nclx_profile = nclx

	if err := heifErr(C.heif_context_encode_image(ctx, img, enc, encOpts, nil), "heif: encode"); err != nil {
		return err
	}

	cPath := C.CString(filepath.Clean(path))
	defer C.free(unsafe.Pointer(cPath))
	return heifErr(C.heif_context_write_to_file(ctx, cPath), "heif: write")
}

// reduceDepth rescales a 16-bit sample to 16-shift bits, rounding to nearest
// with saturation instead of truncating.
func reduceDepth(v uint16, shift uint) uint16 {
	r := (uint32(v) + 1<<(shift-1)) >> shift
	if max := uint32(0xFFFF) >> shift; r > max {
		r = max
	}
	return uint16(r)
}
