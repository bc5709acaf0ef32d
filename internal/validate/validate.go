// Package validate implements the request validator (spec §4.6): pure
// checks performed before any I/O. Grounded on the original source's
// data_validator.py (is_id_valid, check_for_validation_errors).
package validate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"preview-gateway/internal/apperror"
	"preview-gateway/internal/blobclient"
	"preview-gateway/internal/raster"
)

var areaPattern = regexp.MustCompile(`^[0-9]+x[0-9]+$`)

// ParseUUID validates that s is a UUID of any RFC 4122 variant (spec §4.6:
// "identifiers parseable as UUID (any variant)").
func ParseUUID(s string) (string, *apperror.Error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", apperror.Unprocessable("invalid identifier: not a UUID")
	}
	return s, nil
}

// ParseVersion validates a version string is a non-negative integer.
func ParseVersion(s string) (int, *apperror.Error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, apperror.Unprocessable("invalid version: must be a non-negative integer")
	}
	return v, nil
}

// ParseOwnerServiceTag validates the service_type query parameter against
// the closed {files, chats} set.
func ParseOwnerServiceTag(s string) (blobclient.OwnerServiceTag, *apperror.Error) {
	switch strings.ToLower(s) {
	case "files":
		return blobclient.OwnerFiles, nil
	case "chats":
		return blobclient.OwnerChats, nil
	default:
		return "", apperror.Unprocessable("invalid service_type: must be one of files, chats")
	}
}

// ParseArea validates and parses a `WxH` area string (spec §3's AreaSpec).
// A failed match is an InvalidInput (400), not Unprocessable (422) —
// spec §7 groups "area parse" under InvalidInput alongside page-range and
// format errors.
func ParseArea(s string) (width, height int, appErr *apperror.Error) {
	if !areaPattern.MatchString(s) {
		return 0, 0, apperror.InvalidInput("invalid area: must match WxH")
	}
	parts := strings.SplitN(s, "x", 2)
	w, err1 := strconv.Atoi(parts[0])
	h, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || w < 0 || h < 0 {
		return 0, 0, apperror.InvalidInput("invalid area: must match WxH")
	}
	return w, h, nil
}

// ParsePageRange validates a page range: firstPage>=1 and (lastPage==0 or
// firstPage<=lastPage) (spec §3's PageRange, §4.6).
func ParsePageRange(first, last int) *apperror.Error {
	if first < 1 {
		return apperror.Unprocessable("invalid page range: first_page must be >= 1")
	}
	if last != 0 && first > last {
		return apperror.Unprocessable("invalid page range: first_page must be <= last_page")
	}
	return nil
}

// ParseQuality validates the quality query parameter against the closed
// enum (spec §3).
func ParseQuality(s string) (raster.Quality, *apperror.Error) {
	q := raster.Quality(strings.ToUpper(s))
	if _, ok := raster.QualityTable[q]; !ok {
		return "", apperror.Unprocessable("invalid quality: unknown enum value")
	}
	return q, nil
}

// ParseOutFormat validates the output_format query parameter against the
// closed {JPEG, PNG, GIF} set.
func ParseOutFormat(s string) (raster.OutFormat, *apperror.Error) {
	switch raster.OutFormat(strings.ToUpper(s)) {
	case raster.FormatJPEG:
		return raster.FormatJPEG, nil
	case raster.FormatPNG:
		return raster.FormatPNG, nil
	case raster.FormatGIF:
		return raster.FormatGIF, nil
	default:
		return "", apperror.Unprocessable("invalid output_format: unknown enum value")
	}
}

// ParseShape validates the shape query parameter against the closed
// {RECTANGULAR, ROUNDED} set; an empty string is valid and means "no
// shape requested".
func ParseShape(s string) (raster.Shape, *apperror.Error) {
	if s == "" {
		return "", nil
	}
	switch raster.Shape(strings.ToUpper(s)) {
	case raster.ShapeRectangular:
		return raster.ShapeRectangular, nil
	case raster.ShapeRounded:
		return raster.ShapeRounded, nil
	default:
		return "", apperror.Unprocessable("invalid shape: unknown enum value")
	}
}

// ParseCropAnchor validates the crop_anchor parameter against the closed
// {TOP, CENTER} set.
func ParseCropAnchor(s string) (string, *apperror.Error) {
	switch strings.ToUpper(s) {
	case "TOP", "CENTER":
		return strings.ToUpper(s), nil
	default:
		return "", apperror.Unprocessable("invalid crop anchor: unknown enum value")
	}
}
