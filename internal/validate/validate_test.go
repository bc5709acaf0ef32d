package validate

import (
	"testing"

	"preview-gateway/internal/apperror"
)

func TestParseUUIDRejectsNonUUID(t *testing.T) {
	if _, err := ParseUUID("not-a-uuid"); err == nil || err.Kind != apperror.KindUnprocessable {
		t.Errorf("ParseUUID(invalid) = %v, want Unprocessable", err)
	}
}

func TestParseUUIDAcceptsValid(t *testing.T) {
	if _, err := ParseUUID("123e4567-e89b-12d3-a456-426614174000"); err != nil {
		t.Errorf("ParseUUID(valid) error = %v", err)
	}
}

func TestParseVersionRejectsNegative(t *testing.T) {
	if _, err := ParseVersion("-1"); err == nil {
		t.Error("ParseVersion(-1) = nil error, want error")
	}
}

func TestParseAreaMatchesPattern(t *testing.T) {
	w, h, err := ParseArea("100x200")
	if err != nil || w != 100 || h != 200 {
		t.Errorf("ParseArea(100x200) = (%d,%d,%v)", w, h, err)
	}
}

func TestParseAreaRejectsMalformed(t *testing.T) {
	if _, _, err := ParseArea("100xabc"); err == nil || err.Kind != apperror.KindInvalidInput {
		t.Errorf("ParseArea(malformed) = %v, want InvalidInput", err)
	}
}

func TestParsePageRangeAllowsZeroLast(t *testing.T) {
	if err := ParsePageRange(1, 0); err != nil {
		t.Errorf("ParsePageRange(1,0) error = %v", err)
	}
}

func TestParsePageRangeRejectsFirstGreaterThanLast(t *testing.T) {
	if err := ParsePageRange(5, 3); err == nil {
		t.Error("ParsePageRange(5,3) = nil error, want error")
	}
}

func TestParsePageRangeRejectsZeroFirst(t *testing.T) {
	if err := ParsePageRange(0, 5); err == nil {
		t.Error("ParsePageRange(0,5) = nil error, want error")
	}
}

func TestParseQualityRejectsUnknown(t *testing.T) {
	if _, err := ParseQuality("ULTRA"); err == nil {
		t.Error("ParseQuality(ULTRA) = nil error, want error")
	}
}

func TestParseShapeEmptyIsValid(t *testing.T) {
	shape, err := ParseShape("")
	if err != nil || shape != "" {
		t.Errorf("ParseShape(\"\") = (%v,%v), want (\"\",nil)", shape, err)
	}
}
