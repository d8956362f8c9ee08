package applehdr

import (
	"fmt"
	"math"
	"strings"
)

// Exiftool tag names for the fields the pipeline consumes. Maker tags 33
// (0x0021) and 48 (0x0030) are Apple maker-note fields, see
// https://github.com/exiftool/exiftool/blob/405674e0/lib/Image/ExifTool/Apple.pm
const (
	tagHDRHeadroom        = "MakerNotes:HDRHeadroom"
	tagHDRGain            = "MakerNotes:HDRGain"
	tagProfileDescription = "ICC_Profile:ProfileDescription"
	tagGainMapVersion     = "XMP:HDRGainMapVersion"
	tagAuxiliaryImageType = "Quicktime:AuxiliaryImageType"
)

// HDRMetadata is the per-file Apple HDR metadata record. Fields are nil when
// the corresponding tag is absent. The record is constructed once per input
// file and never mutated afterwards.
type HDRMetadata struct {
	HeadroomTag    *float64 // maker tag 33
	GainTag        *float64 // maker tag 48
	ProfileDesc    string
	GainMapVersion *int64
	AuxType        string // auxiliary image URN, empty when untagged
}

// ParseHDRMetadata builds an HDRMetadata from a flat exiftool-style tag map.
// Unknown tags are ignored; absent tags leave their fields unset.
func ParseHDRMetadata(tags map[string]any) *HDRMetadata {
	m := &HDRMetadata{}
	for tag, val := range tags {
		switch tag {
		case tagHDRHeadroom:
			if f, ok := tagFloat(val); ok {
				m.HeadroomTag = &f
			}
		case tagHDRGain:
			if f, ok := tagFloat(val); ok {
				m.GainTag = &f
			}
		case tagProfileDescription:
			if s, ok := val.(string); ok {
				m.ProfileDesc = s
			}
		case tagGainMapVersion:
			if f, ok := tagFloat(val); ok {
				v := int64(f)
				m.GainMapVersion = &v
			}
		case tagAuxiliaryImageType:
			if s, ok := val.(string); ok {
				m.AuxType = s
			}
		}
	}
	return m
}

func tagFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Headroom derives the maximum linear-light multiplier from the maker tags.
// The piecewise coefficients are Apple's published derivation, see
// https://developer.apple.com/documentation/appkit/images_and_pdf/applying_apple_hdr_effect_to_your_photos
// The result is always >= 1.0.
func (m *HDRMetadata) Headroom() (float64, error) {
	if m.HeadroomTag == nil || m.GainTag == nil {
		return 0, fmt.Errorf("%w: maker tags 33 and 48 required", ErrMissingMetadata)
	}
	h, g := *m.HeadroomTag, *m.GainTag

	var stops float64
	if h < 1.0 {
		if g <= 0.01 {
			stops = -20.0*g + 1.8
		} else {
			stops = -0.101*g + 1.601
		}
	} else {
		if g <= 0.01 {
			stops = -70.0*g + 3.0
		} else {
			stops = -0.303*g + 2.303
		}
	}
	return math.Exp2(math.Max(stops, 0.0)), nil
}

// SupportedProfile reports whether the ICC profile description identifies a
// Display P3 variant or the degenerate linear-gray profile Apple writes for
// some gain-map assets.
func (m *HDRMetadata) SupportedProfile() bool {
	desc := strings.ToLower(m.ProfileDesc)
	if strings.Contains(desc, "display p3") {
		return true
	}
	return strings.Contains(desc, "linear gray")
}
