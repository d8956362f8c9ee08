// Package heifio reads and writes HEIF/AVIF containers through libheif.
//
// It binds the C API directly: the pipeline needs auxiliary-image access by
// URN on the read side and NCLX color signaling plus 10/12-bit planes on the
// write side, none of which the high-level Go wrapper exposes.
package heifio

/*
#cgo pkg-config: libheif
#include <stdlib.h>
#include <string.h>
#include <libheif/heif.h>
*/
import "C"

import (
	"fmt"
	"image"
	"path/filepath"
	"unsafe"

	"github.com/vearutop/applehdr"
)

func heifErr(err C.struct_heif_error, op string) error {
	if err.code == C.heif_error_Ok {
		return nil
	}
	return fmt.Errorf("%s: %s", op, C.GoString(err.message))
}

// Reader opens HEIF containers. It implements applehdr.ImageReader.
type Reader struct{}

// Open reads the container at path and returns access to its images.
func (Reader) Open(path string) (applehdr.Container, error) {
	ctx := C.heif_context_alloc()
	if ctx == nil {
		return nil, fmt.Errorf("heif: context alloc failed")
	}
	cPath := C.CString(filepath.Clean(path))
	defer C.free(unsafe.Pointer(cPath))
	if err := heifErr(C.heif_context_read_from_file(ctx, cPath, nil), "heif: read"); err != nil {
		C.heif_context_free(ctx)
		return nil, err
	}
	var handle *C.struct_heif_image_handle
	if err := heifErr(C.heif_context_get_primary_image_handle(ctx, &handle), "heif: primary handle"); err != nil {
		C.heif_context_free(ctx)
		return nil, err
	}
	return &container{ctx: ctx, handle: handle}, nil
}

type container struct {
	ctx    *C.struct_heif_context
	handle *C.struct_heif_image_handle
}

func (c *container) Close() error {
	if c.handle != nil {
		C.heif_image_handle_release(c.handle)
		c.handle = nil
	}
	if c.ctx != nil {
		C.heif_context_free(c.ctx)
		c.ctx = nil
	}
	return nil
}

// Primary decodes the primary (SDR base) image as 8-bit RGB.
func (c *container) Primary() (image.Image, error) {
	var img *C.struct_heif_image
	err := heifErr(C.heif_decode_image(c.handle, &img,
		C.heif_colorspace_RGB, C.heif_chroma_interleaved_RGB, nil), "heif: decode primary")
	if err != nil {
		return nil, err
	}
	defer C.heif_image_release(img)

	w := int(C.heif_image_get_width(img, C.heif_channel_interleaved))
	h := int(C.heif_image_get_height(img, C.heif_channel_interleaved))
	var stride C.int
	plane := C.heif_image_get_plane_readonly(img, C.heif_channel_interleaved, &stride)
	if plane == nil {
		return nil, fmt.Errorf("heif: no interleaved plane")
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(plane)), int(stride)*h)

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := data[y*int(stride):]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			dst[x*4] = src[x*3]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xFF
		}
	}
	return out, nil
}

// Auxiliary decodes the auxiliary image tagged with the given URN as an
// 8-bit grayscale image. It fails when no auxiliary image carries the URN.
func (c *container) Auxiliary(urn string) (image.Image, error) {
	filter := C.int(C.LIBHEIF_AUX_IMAGE_FILTER_OMIT_ALPHA | C.LIBHEIF_AUX_IMAGE_FILTER_OMIT_DEPTH)
	n := int(C.heif_image_handle_get_number_of_auxiliary_images(c.handle, filter))
	if n == 0 {
		return nil, fmt.Errorf("heif: no auxiliary images")
	}
	ids := make([]C.heif_item_id, n)
	n = int(C.heif_image_handle_get_list_of_auxiliary_image_IDs(c.handle, filter, &ids[0], C.int(n)))

	for _, id := range ids[:n] {
		var aux *C.struct_heif_image_handle
		if err := heifErr(C.heif_image_handle_get_auxiliary_image_handle(c.handle, id, &aux), "heif: aux handle"); err != nil {
			return nil, err
		}
		var cType *C.char
		if err := heifErr(C.heif_image_handle_get_auxiliary_type(aux, &cType), "heif: aux type"); err != nil {
			C.heif_image_handle_release(aux)
			return nil, err
		}
		auxType := C.GoString(cType)
		C.heif_image_handle_release_auxiliary_type(aux, &cType)
		if auxType != urn {
			C.heif_image_handle_release(aux)
			continue
		}
		img, err := decodeGray(aux)
		C.heif_image_handle_release(aux)
		return img, err
	}
	return nil, fmt.Errorf("heif: no auxiliary image of type %q", urn)
}

func decodeGray(handle *C.struct_heif_image_handle) (image.Image, error) {
	var img *C.struct_heif_image
	err := heifErr(C.heif_decode_image(handle, &img,
		C.heif_colorspace_monochrome, C.heif_chroma_monochrome, nil), "heif: decode auxiliary")
	if err != nil {
		return nil, err
	}
	defer C.heif_image_release(img)

	w := int(C.heif_image_get_width(img, C.heif_channel_Y))
	h := int(C.heif_image_get_height(img, C.heif_channel_Y))
	var stride C.int
	plane := C.heif_image_get_plane_readonly(img, C.heif_channel_Y, &stride)
	if plane == nil {
		return nil, fmt.Errorf("heif: no luma plane")
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(plane)), int(stride)*h)

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+w], data[y*int(stride):])
	}
	return out, nil
}
