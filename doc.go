// Package applehdr reconstructs HDR images from Apple HEIC photos that carry
// an embedded gain map.
//
// The SDR base image is combined with the auxiliary gain-map image and the
// headroom derived from Apple maker-note metadata, producing a linear-light
// Display P3 image. The result can be transformed to other RGB working spaces
// (typically ITU-R BT.2020) and encoded with the SMPTE ST 2084 (PQ) transfer
// function for HDR output containers.
package applehdr
