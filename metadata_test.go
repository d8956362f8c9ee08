package applehdr

import (
	"errors"
	"math"
	"testing"
)

func fptr(v float64) *float64 { return &v }

func TestHDRMetadataHeadroom(t *testing.T) {
	cases := []struct {
		name     string
		headroom float64
		gain     float64
		want     float64
	}{
		{name: "low headroom, low gain", headroom: 0.5, gain: 0.005, want: 3.249009585424942},
		{name: "low headroom, high gain", headroom: 0.5, gain: 0.5, want: 2.9291863946399075},
		{name: "high headroom, low gain", headroom: 1.0, gain: 0.005, want: 6.276672783174005},
		{name: "high headroom, high gain", headroom: 2.0, gain: 1.0, want: 4.0},
		{name: "stops clamped to zero", headroom: 2.0, gain: 10.0, want: 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := &HDRMetadata{HeadroomTag: fptr(tc.headroom), GainTag: fptr(tc.gain)}
			got, err := m.Headroom()
			if err != nil {
				t.Fatalf("headroom: %v", err)
			}
			if math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("headroom = %v, want %v", got, tc.want)
			}
			if got < 1.0 {
				t.Errorf("headroom %v below 1.0", got)
			}
			again, _ := m.Headroom()
			if again != got {
				t.Errorf("headroom not deterministic: %v vs %v", again, got)
			}
		})
	}
}

func TestHDRMetadataHeadroomMissingTags(t *testing.T) {
	cases := []*HDRMetadata{
		{},
		{HeadroomTag: fptr(1.0)},
		{GainTag: fptr(0.5)},
	}
	for _, m := range cases {
		if _, err := m.Headroom(); !errors.Is(err, ErrMissingMetadata) {
			t.Errorf("headroom error = %v, want ErrMissingMetadata", err)
		}
	}
}

func TestParseHDRMetadata(t *testing.T) {
	tags := map[string]any{
		"SourceFile":                     "testdata/hdr-sample.heic",
		"MakerNotes:HDRHeadroom":         0.33399999141693115,
		"MakerNotes:HDRGain":             0.016992788761854172,
		"ICC_Profile:ProfileDescription": "Display P3",
		"XMP:HDRGainMapVersion":          float64(65536),
		"Quicktime:AuxiliaryImageType":   "urn:com:apple:photo:2020:aux:hdrgainmap",
	}
	m := ParseHDRMetadata(tags)
	if m.HeadroomTag == nil || *m.HeadroomTag != 0.33399999141693115 {
		t.Errorf("HeadroomTag = %v", m.HeadroomTag)
	}
	if m.GainTag == nil || *m.GainTag != 0.016992788761854172 {
		t.Errorf("GainTag = %v", m.GainTag)
	}
	if m.ProfileDesc != "Display P3" {
		t.Errorf("ProfileDesc = %q", m.ProfileDesc)
	}
	if m.GainMapVersion == nil || *m.GainMapVersion != 65536 {
		t.Errorf("GainMapVersion = %v", m.GainMapVersion)
	}
	if m.AuxType != "urn:com:apple:photo:2020:aux:hdrgainmap" {
		t.Errorf("AuxType = %q", m.AuxType)
	}
	if !m.SupportedProfile() {
		t.Error("Display P3 profile not recognized")
	}
}

func TestParseHDRMetadataEmpty(t *testing.T) {
	m := ParseHDRMetadata(map[string]any{})
	if m.HeadroomTag != nil || m.GainTag != nil || m.ProfileDesc != "" {
		t.Errorf("unexpected fields in %+v", m)
	}
	if m.SupportedProfile() {
		t.Error("empty profile reported as supported")
	}
}

func TestSupportedProfile(t *testing.T) {
	cases := []struct {
		desc string
		want bool
	}{
		{"Display P3", true},
		{"display p3", true},
		{"Apple display P3 variant", true},
		{"Linear Gray", true},
		{"sRGB IEC61966-2.1", false},
		{"Adobe RGB (1998)", false},
	}
	for _, tc := range cases {
		m := &HDRMetadata{ProfileDesc: tc.desc}
		if got := m.SupportedProfile(); got != tc.want {
			t.Errorf("SupportedProfile(%q) = %v, want %v", tc.desc, got, tc.want)
		}
	}
}
