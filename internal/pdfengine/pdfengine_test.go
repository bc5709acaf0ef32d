package pdfengine

import "testing"

func TestPageRangeSelectorSinglePage(t *testing.T) {
	if got := pageRangeSelector(2, 2); got != "2" {
		t.Errorf("pageRangeSelector(2,2) = %q, want \"2\"", got)
	}
}

func TestPageRangeSelectorRange(t *testing.T) {
	if got := pageRangeSelector(2, 5); got != "2-5" {
		t.Errorf("pageRangeSelector(2,5) = %q, want \"2-5\"", got)
	}
}

func TestSplitIdempotentPassthrough(t *testing.T) {
	input := []byte("%PDF-1.4 not a full parse but passthrough only needs bytes")
	out := Split(input, 1, 0)
	if string(out) != string(input) {
		t.Errorf("Split(1,0) did not return input unchanged")
	}
}

func TestSplitMalformedReturnsEmptyPDF(t *testing.T) {
	out := Split([]byte("garbage"), 2, 3)
	if len(out) == 0 {
		t.Fatal("Split on malformed input returned empty byte slice, want fallback PDF bytes")
	}
	if string(out[:5]) != "%PDF-" {
		t.Errorf("Split fallback does not look like a PDF header: %q", out[:5])
	}
}

func TestSplitEmptyInputWithDefaultRangeReturnsEmptyPDF(t *testing.T) {
	out := Split(nil, 1, 0)
	if len(out) == 0 {
		t.Fatal("Split(nil, 1, 0) returned empty byte slice, want fallback PDF bytes")
	}
	if string(out[:5]) != "%PDF-" {
		t.Errorf("Split fallback does not look like a PDF header: %q", out[:5])
	}
}
