// Package raster is the gateway's raster codec (spec §4.2): it decodes an
// input buffer, corrects EXIF orientation, hands dimensions to
// internal/geometry, and re-encodes. Decode failures never propagate as
// errors — they fall back to an opaque R×R placeholder so the media-type
// contract always holds (spec §4.2, §9).
package raster

import "preview-gateway/internal/geometry"

// Quality is the closed set of symbolic encoder quality levels (spec §3).
type Quality string

const (
	QualityLowest  Quality = "LOWEST"
	QualityLow     Quality = "LOW"
	QualityMedium  Quality = "MEDIUM"
	QualityHigh    Quality = "HIGH"
	QualityHighest Quality = "HIGHEST"
)

// QualityTable is the fixed symbolic-to-encoder-int contract from spec §3.
var QualityTable = map[Quality]int{
	QualityLowest:  0,
	QualityLow:     15,
	QualityMedium:  50,
	QualityHigh:    80,
	QualityHighest: 95,
}

// JPEGQuality looks up the encoder int for q, defaulting to MEDIUM for an
// unrecognized value (the request validator rejects those before this
// package ever sees them).
func JPEGQuality(q Quality) int {
	if v, ok := QualityTable[q]; ok {
		return v
	}
	return QualityTable[QualityMedium]
}

// OutFormat is the closed set of output encodings (spec §3).
type OutFormat string

const (
	FormatJPEG OutFormat = "JPEG"
	FormatPNG  OutFormat = "PNG"
	FormatGIF  OutFormat = "GIF"
)

// Mode selects preview vs thumbnail semantics (spec §3).
type Mode string

const (
	ModePreview   Mode = "PREVIEW"
	ModeThumbnail Mode = "THUMBNAIL"
)

// Shape selects a rectangular or rounded thumbnail mask. Only meaningful
// when Mode is THUMBNAIL (spec §4.1's shape/crop matrix, §9).
type Shape string

const (
	ShapeRectangular Shape = "RECTANGULAR"
	ShapeRounded     Shape = "ROUNDED"
)

// Request is the fully-validated raster request (spec §3's RasterRequest).
type Request struct {
	Width, Height int
	Quality       Quality
	OutFormat     OutFormat
	Mode          Mode
	Shape         Shape // empty means no shape (PREVIEW, or THUMBNAIL/RECTANGULAR)
	Crop          bool
	CropAnchor    geometry.Anchor
}
