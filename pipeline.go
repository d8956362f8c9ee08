package applehdr

import (
	"fmt"
	"image"
)

// TagReader extracts a flat tag-name to value mapping from a container
// file. Absent tags are simply missing from the map, never an error.
type TagReader interface {
	Tags(path string) (map[string]any, error)
}

// Container exposes the decoded images of one input file. The primary image
// is the SDR base; auxiliary images are keyed by URN.
type Container interface {
	Primary() (image.Image, error)
	Auxiliary(urn string) (image.Image, error)
	Close() error
}

// ImageReader opens a container file through the external image codec.
type ImageReader interface {
	Open(path string) (Container, error)
}

// Decoder composes the metadata and codec collaborators into the end-to-end
// HDR reconstruction pipeline. It is stateless and safe for concurrent use
// across independent files.
type Decoder struct {
	Tags   TagReader
	Images ImageReader
}

// NewDecoder returns a Decoder using the given collaborators.
func NewDecoder(tags TagReader, images ImageReader) *Decoder {
	return &Decoder{Tags: tags, Images: images}
}

// Metadata reads and parses the Apple HDR metadata for path.
func (d *Decoder) Metadata(path string) (*HDRMetadata, error) {
	tags, err := d.Tags.Tags(path)
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}
	return ParseHDRMetadata(tags), nil
}

// LoadAsDisplayP3Linear reconstructs the linear-light Display P3 HDR image:
// it derives the headroom from the maker metadata, decodes the base and
// gain-map images, resamples the gain map to the base resolution and applies
// it. Samples of the result lie in [0, headroom].
func (d *Decoder) LoadAsDisplayP3Linear(path string) (*PixelBuffer, error) {
	meta, err := d.Metadata(path)
	if err != nil {
		return nil, err
	}
	if !meta.SupportedProfile() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProfile, meta.ProfileDesc)
	}
	headroom, err := meta.Headroom()
	if err != nil {
		return nil, err
	}

	c, err := d.Images.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open container: %w", err)
	}
	defer c.Close()

	primary, err := c.Primary()
	if err != nil {
		return nil, fmt.Errorf("decode primary: %w", err)
	}
	urn := meta.AuxType
	if urn == "" {
		urn = DefaultGainMapURN
	}
	// A gain-map image that cannot be found is fatal: silently returning the
	// SDR base would misrepresent an HDR image as standard dynamic range.
	aux, err := c.Auxiliary(urn)
	if err != nil {
		return nil, fmt.Errorf("%w: auxiliary image %q: %v", ErrMissingMetadata, urn, err)
	}

	base := bufferFromImage(primary)
	gainMap := ResampleGainMap(aux, base.W, base.H)
	return ApplyGainMap(base, gainMap, headroom)
}

// LoadAsBT2020Linear reconstructs the HDR image and transforms it to linear
// ITU-R BT.2020.
func (d *Decoder) LoadAsBT2020Linear(path string) (*PixelBuffer, error) {
	return d.LoadAsLinear(path, "ITU-R BT.2020")
}

// LoadAsLinear reconstructs the HDR image and transforms it to the named
// linear working space.
func (d *Decoder) LoadAsLinear(path, spaceName string) (*PixelBuffer, error) {
	if _, err := LookupWorkingSpace(spaceName); err != nil {
		return nil, err
	}
	dp3, err := d.LoadAsDisplayP3Linear(path)
	if err != nil {
		return nil, err
	}
	return Transform(dp3, "Display P3", spaceName)
}

// QuantizeToPQ encodes a linear buffer with the inverse PQ EOTF at the given
// reference white and quantizes the code values to 16-bit integers.
func QuantizeToPQ(linear *PixelBuffer, whiteNits float64) *Uint16Buffer {
	return QuantizeToUint16(EncodePQ(linear, whiteNits))
}

// SceneLinear rescales a linear buffer for scene-referred float outputs
// (EXR, Radiance), where the reference-white convention is a luminance
// rescale rather than PQ encoding. At the default 203-nit reference white
// the data is returned unscaled, with 1.0 equal to SDR diffuse white.
func SceneLinear(linear *PixelBuffer, whiteNits float64) *PixelBuffer {
	if whiteNits <= 0 {
		whiteNits = RefWhiteNits
	}
	out := NewPixelBuffer(linear.W, linear.H, linear.Channels)
	scale := float32(whiteNits / RefWhiteNits)
	for i, v := range linear.Pix {
		out.Pix[i] = v * scale
	}
	return out
}
