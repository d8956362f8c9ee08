package applehdr

import "errors"

var (
	// ErrMissingMetadata reports that the required Apple maker tags are not
	// present, meaning the file is not a supported HDR gain-map image.
	ErrMissingMetadata = errors.New("missing HDR metadata")

	// ErrUnsupportedProfile reports an ICC profile description that is not a
	// recognized variant of Display P3.
	ErrUnsupportedProfile = errors.New("unsupported ICC profile")

	// ErrDimensionMismatch reports that the base image and gain map disagree
	// on spatial dimensions after resampling.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrUnknownColorSpace reports a working-space name that is not in the
	// registry.
	ErrUnknownColorSpace = errors.New("unknown color space")
)
