package applehdr

const (
	// RefWhiteNits is the default reference white luminance in cd/m2.
	RefWhiteNits = 203.0

	pqMaxNits = 10000.0
)

const (
	// DefaultGainMapURN identifies the Apple HDR gain-map auxiliary image
	// when the metadata does not name one explicitly.
	DefaultGainMapURN = "urn:com:apple:photo:2020:aux:hdrgainmap"
)

const defaultEXRDepth = 16
