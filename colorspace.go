package applehdr

import "fmt"

// Chromaticity is a CIE xy coordinate.
type Chromaticity struct {
	X, Y float64
}

// WorkingSpace defines a named RGB color space by the chromaticities of its
// primaries and whitepoint.
type WorkingSpace struct {
	Name  string
	R     Chromaticity
	G     Chromaticity
	B     Chromaticity
	White Chromaticity
}

var (
	whiteD65 = Chromaticity{0.3127, 0.3290}
	whiteD50 = Chromaticity{0.3457, 0.3585}
)

// workingSpaces is the fixed process-wide registry. It is populated here and
// never mutated at runtime.
var workingSpaces = map[string]WorkingSpace{
	"sRGB": {
		Name:  "sRGB",
		R:     Chromaticity{0.640, 0.330},
		G:     Chromaticity{0.300, 0.600},
		B:     Chromaticity{0.150, 0.060},
		White: whiteD65,
	},
	"Display P3": {
		Name:  "Display P3",
		R:     Chromaticity{0.680, 0.320},
		G:     Chromaticity{0.265, 0.690},
		B:     Chromaticity{0.150, 0.060},
		White: whiteD65,
	},
	"ITU-R BT.2020": {
		Name:  "ITU-R BT.2020",
		R:     Chromaticity{0.708, 0.292},
		G:     Chromaticity{0.170, 0.797},
		B:     Chromaticity{0.131, 0.046},
		White: whiteD65,
	},
	"Adobe RGB (1998)": {
		Name:  "Adobe RGB (1998)",
		R:     Chromaticity{0.640, 0.330},
		G:     Chromaticity{0.210, 0.710},
		B:     Chromaticity{0.150, 0.060},
		White: whiteD65,
	},
	"ROMM RGB": {
		Name:  "ROMM RGB",
		R:     Chromaticity{0.7347, 0.2653},
		G:     Chromaticity{0.1596, 0.8404},
		B:     Chromaticity{0.0366, 0.0001},
		White: whiteD50,
	},
}

// LookupWorkingSpace returns the registered space for name.
func LookupWorkingSpace(name string) (WorkingSpace, error) {
	ws, ok := workingSpaces[name]
	if !ok {
		return WorkingSpace{}, fmt.Errorf("%w: %q", ErrUnknownColorSpace, name)
	}
	return ws, nil
}

// WorkingSpaceNames lists the registered working-space names.
func WorkingSpaceNames() []string {
	names := make([]string, 0, len(workingSpaces))
	for name := range workingSpaces {
		names = append(names, name)
	}
	return names
}

// mat3 is a row-major 3x3 matrix.
type mat3 [9]float64

func (m mat3) mul(n mat3) mat3 {
	var out mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r*3+c] = m[r*3]*n[c] + m[r*3+1]*n[3+c] + m[r*3+2]*n[6+c]
		}
	}
	return out
}

func (m mat3) mulVec(x, y, z float64) (float64, float64, float64) {
	return m[0]*x + m[1]*y + m[2]*z,
		m[3]*x + m[4]*y + m[5]*z,
		m[6]*x + m[7]*y + m[8]*z
}

func (m mat3) inverse() mat3 {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[3], m[4], m[5]
	g, h, i := m[6], m[7], m[8]
	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	inv := 1.0 / det
	return mat3{
		(e*i - f*h) * inv, (c*h - b*i) * inv, (b*f - c*e) * inv,
		(f*g - d*i) * inv, (a*i - c*g) * inv, (c*d - a*f) * inv,
		(d*h - e*g) * inv, (b*g - a*h) * inv, (a*e - b*d) * inv,
	}
}

func xyToXYZ(c Chromaticity) (float64, float64, float64) {
	return c.X / c.Y, 1.0, (1.0 - c.X - c.Y) / c.Y
}

// npm derives the normalized primaries matrix (linear RGB -> XYZ) from the
// space's chromaticities.
func (ws WorkingSpace) npm() mat3 {
	xr, _, zr := xyToXYZ(ws.R)
	xg, _, zg := xyToXYZ(ws.G)
	xb, _, zb := xyToXYZ(ws.B)
	p := mat3{
		xr, xg, xb,
		1, 1, 1,
		zr, zg, zb,
	}
	wx, wy, wz := xyToXYZ(ws.White)
	sr, sg, sb := p.inverse().mulVec(wx, wy, wz)
	return mat3{
		xr * sr, xg * sg, xb * sb,
		sr, sg, sb,
		zr * sr, zg * sg, zb * sb,
	}
}

// Bradford cone response matrix and its inverse.
var (
	bradford = mat3{
		0.8951, 0.2664, -0.1614,
		-0.7502, 1.7135, 0.0367,
		0.0389, -0.0685, 1.0296,
	}
	bradfordInv = bradford.inverse()
)

// chromaticAdaptation returns the Bradford XYZ-to-XYZ matrix adapting from
// srcWhite to dstWhite.
func chromaticAdaptation(srcWhite, dstWhite Chromaticity) mat3 {
	if srcWhite == dstWhite {
		return mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
	}
	sx, sy, sz := bradford.mulVec(xyToXYZ(srcWhite))
	dx, dy, dz := bradford.mulVec(xyToXYZ(dstWhite))
	scale := mat3{
		dx / sx, 0, 0,
		0, dy / sy, 0,
		0, 0, dz / sz,
	}
	return bradfordInv.mul(scale).mul(bradford)
}

// conversionMatrix derives the linear RGB-to-RGB matrix mapping src to dst.
func conversionMatrix(src, dst WorkingSpace) mat3 {
	return dst.npm().inverse().mul(chromaticAdaptation(src.White, dst.White)).mul(src.npm())
}

// Transform converts a 3-channel linear buffer between named working spaces.
// Output samples are clamped to be non-negative; out-of-gamut colors are
// truncated, not gamut-mapped. No upper clamp is applied.
func Transform(buf *PixelBuffer, srcName, dstName string) (*PixelBuffer, error) {
	src, err := LookupWorkingSpace(srcName)
	if err != nil {
		return nil, err
	}
	dst, err := LookupWorkingSpace(dstName)
	if err != nil {
		return nil, err
	}
	out := NewPixelBuffer(buf.W, buf.H, 3)
	if src.Name == dst.Name {
		copy(out.Pix, buf.Pix)
		return out, nil
	}
	m := conversionMatrix(src, dst)
	var mf [9]float32
	for i, v := range m {
		mf[i] = float32(v)
	}
	parallelRows(buf.H, func(start, end int) {
		for y := start; y < end; y++ {
			row := buf.Pix[y*buf.W*3 : (y+1)*buf.W*3]
			outRow := out.Pix[y*out.W*3 : (y+1)*out.W*3]
			for x := 0; x < buf.W; x++ {
				i := x * 3
				r, g, b := row[i], row[i+1], row[i+2]
				outRow[i] = clampNonNeg(mf[0]*r + mf[1]*g + mf[2]*b)
				outRow[i+1] = clampNonNeg(mf[3]*r + mf[4]*g + mf[5]*b)
				outRow[i+2] = clampNonNeg(mf[6]*r + mf[7]*g + mf[8]*b)
			}
		}
	})
	return out, nil
}

func clampNonNeg(v float32) float32 {
	if v < 0 {
		return 0
	}
	return v
}
