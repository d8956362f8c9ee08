// Package exiftool extracts metadata tags by shelling out to the exiftool
// binary, mirroring how Apple maker notes are read in practice: the maker
// fields are proprietary and exiftool carries the only maintained decoding
// tables for them.
package exiftool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
)

// tagPatterns restricts extraction to the HDR-related groups the pipeline
// consumes.
var tagPatterns = []string{
	"-XMP:HDR*",
	"-Apple:HDR*",
	"-ICC_Profile:ProfileDesc*",
	"-Quicktime:Auxiliary*",
}

// Reader reads tags via the exiftool executable.
type Reader struct {
	// Path to the exiftool binary; "exiftool" from $PATH when empty.
	Path string
}

// Tags runs exiftool with JSON output (-j), numeric values (-n) and group
// prefixes (-G) and returns the flat tag map for path. Absent tags are
// simply missing from the map.
func (r *Reader) Tags(path string) (map[string]any, error) {
	bin := r.Path
	if bin == "" {
		bin = "exiftool"
	}
	args := append([]string{"-j", "-n", "-G"}, tagPatterns...)
	args = append(args, filepath.Clean(path))

	cmd := exec.Command(bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("exiftool: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}

	var records []map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &records); err != nil {
		return nil, fmt.Errorf("exiftool: parse output: %w", err)
	}
	if len(records) == 0 {
		return map[string]any{}, nil
	}
	return records[0], nil
}
