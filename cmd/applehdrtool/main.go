// Command applehdrtool decodes Apple HDR gain-map HEIC photos into
// color-managed HDR output files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vearutop/applehdr"
	"github.com/vearutop/applehdr/internal/exiftool"
	"github.com/vearutop/applehdr/internal/heifio"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "decode":
		if err := runDecode(os.Args[2:]); err != nil {
			fail(err)
		}
	case "info":
		if err := runInfo(os.Args[2:]); err != nil {
			fail(err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: applehdrtool <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  decode -in input.heic -out output.{png|tiff|heic|avif|exr|hdr}")
	fmt.Fprintln(os.Stderr, "         [-q 95|lossless] [-b 10|12|16|32] [-y 420|422|444]")
	fmt.Fprintln(os.Stderr, "         [-colourspace \"ITU-R BT.2020\"] [-white 203]")
	fmt.Fprintln(os.Stderr, "  info   -in input.heic")
}

func newDecoder() *applehdr.Decoder {
	return applehdr.NewDecoder(&exiftool.Reader{}, heifio.Reader{})
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	inPath := fs.String("in", "", "input HEIC file")
	outPath := fs.String("out", "", "output file; format chosen by extension")
	quality := fs.String("q", "95", "quality 0-100, or \"lossless\" (heic/avif)")
	bitDepth := fs.Int("b", 0, "bit depth: 10/12 (heic/avif), 16 (png/tiff), 16/32 (exr)")
	subsampling := fs.Int("y", 420, "chroma subsampling: 420, 422 or 444 (heic/avif)")
	space := fs.String("colourspace", "ITU-R BT.2020", "destination working space")
	white := fs.Float64("white", applehdr.RefWhiteNits, "reference white luminance in nits")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("missing required arguments")
	}

	opt := applehdr.WriteOptions{
		BitDepth:    *bitDepth,
		Subsampling: *subsampling,
	}
	if *quality == "lossless" {
		opt.Lossless = true
	} else if _, err := fmt.Sscanf(*quality, "%d", &opt.Quality); err != nil {
		return fmt.Errorf("invalid quality %q", *quality)
	}

	dec := newDecoder()
	linear, err := dec.LoadAsLinear(*inPath, *space)
	if err != nil {
		return err
	}

	switch ext := strings.ToLower(filepath.Ext(*outPath)); ext {
	case ".png":
		return writeFile(*outPath, func(f *os.File) error {
			return applehdr.WritePNG(f, applehdr.QuantizeToPQ(linear, *white))
		})
	case ".tif", ".tiff":
		return writeFile(*outPath, func(f *os.File) error {
			return applehdr.WriteTIFF(f, applehdr.QuantizeToPQ(linear, *white))
		})
	case ".heic":
		return heifio.Encode(*outPath, applehdr.QuantizeToPQ(linear, *white), heifio.FormatHEIC, opt)
	case ".avif":
		return heifio.Encode(*outPath, applehdr.QuantizeToPQ(linear, *white), heifio.FormatAVIF, opt)
	case ".exr":
		return applehdr.WriteEXR(*outPath, applehdr.SceneLinear(linear, *white), opt.BitDepth)
	case ".hdr":
		return writeFile(*outPath, func(f *os.File) error {
			return applehdr.WriteRadianceHDR(f, applehdr.SceneLinear(linear, *white))
		})
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	inPath := fs.String("in", "", "input HEIC file")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("missing required arguments")
	}

	meta, err := newDecoder().Metadata(*inPath)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "profile:", meta.ProfileDesc)
	if meta.GainMapVersion != nil {
		fmt.Fprintln(os.Stdout, "gain map version:", *meta.GainMapVersion)
	}
	if meta.AuxType != "" {
		fmt.Fprintln(os.Stdout, "auxiliary type:", meta.AuxType)
	}
	headroom, err := meta.Headroom()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "headroom: %.4f\n", headroom)
	return nil
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
