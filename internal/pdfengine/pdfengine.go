// Package pdfengine implements the PDF engine (spec §4.3): page-range
// splitting via pdfcpu and page rasterization via the lazypdf/MuPDF
// bindings.
package pdfengine

import (
	"bytes"
	"context"
	"image/gif"
	"image/jpeg"
	"image/png"
	"log/slog"
	"strconv"

	"github.com/nitro/lazypdf/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"preview-gateway/internal/apperror"
)

// emptyPDF is a minimal, structurally valid zero-page PDF returned
// whenever the input can't be parsed (spec §4.3: "parse failure returns
// empty-but-valid PDF"), grounded on the original's
// `_write_pdf_to_buffer` writing an empty PdfWriter when parsing fails.
var emptyPDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n2 0 obj\n<< /Type /Pages /Kids [] /Count 0 >>\nendobj\nxref\n0 3\n0000000000 65535 f \n0000000009 00000 n \n0000000058 00000 n \ntrailer\n<< /Size 3 /Root 1 0 R >>\nstartxref\n110\n%%EOF")

func pdfcpuConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Split selects pages [first, end] 1-based inclusive, where end = last if
// 0 < last < totalPages else totalPages (spec §4.3). first==1 && last==0
// short-circuits to a byte-identical pass-through. Empty input — an empty
// upload, or a storage fetch with an empty body, routinely paired with
// the default page range (1,0) — is special-cased ahead of that
// shortcut so it still yields the valid placeholder PDF rather than
// echoing back zero bytes. Any other parse failure also returns
// emptyPDF. Encrypted PDFs are returned unchanged — page selection is
// refused rather than attempted.
func Split(pdfBytes []byte, first, last int) []byte {
	if len(pdfBytes) == 0 {
		return emptyPDF
	}
	if first == 1 && last == 0 {
		out := make([]byte, len(pdfBytes))
		copy(out, pdfBytes)
		return out
	}

	conf := pdfcpuConfig()
	ctx, err := api.ReadContext(bytes.NewReader(pdfBytes), conf)
	if err != nil {
		return emptyPDF
	}
	if ctx.Encrypt != nil {
		out := make([]byte, len(pdfBytes))
		copy(out, pdfBytes)
		return out
	}

	total := ctx.PageCount
	end := last
	if !(last > 0 && last < total) {
		end = total
	}
	if first < 1 {
		first = 1
	}
	if end < first {
		end = first
	}

	selector := []string{pageRangeSelector(first, end)}
	var buf bytes.Buffer
	if err := api.Trim(bytes.NewReader(pdfBytes), &buf, selector, conf); err != nil {
		return emptyPDF
	}
	return buf.Bytes()
}

func pageRangeSelector(first, last int) string {
	if first == last {
		return strconv.Itoa(first)
	}
	return strconv.Itoa(first) + "-" + strconv.Itoa(last)
}

// Rasterize renders the zero-based page at the engine's natural highest
// fidelity (no down-sampling — the raster pipeline owns all further
// resizing) and returns bytes in the requested raster format. A
// malformed PDF here fails with InvalidInput (400), diverging
// deliberately from the raster codec's silent fallback since no usable
// image-shaped placeholder exists for "page N of nothing" (spec §4.3,
// §9).
func Rasterize(ctx context.Context, pdfBytes []byte, pageIndex int, outFormat string) ([]byte, *apperror.Error) {
	handler := lazypdf.NewPdfHandler(ctx, slog.Default())

	document, err := handler.OpenPDF(bytes.NewReader(pdfBytes))
	if err != nil {
		return nil, apperror.InvalidInput("malformed PDF")
	}
	defer func() { _ = handler.ClosePDF(document) }()

	var buf bytes.Buffer
	const naturalDPI = 300
	if err := handler.SaveToPNG(document, uint16(pageIndex), 0, 1.0, naturalDPI, &buf); err != nil {
		return nil, apperror.InvalidInput("malformed PDF")
	}

	if outFormat == "PNG" {
		return buf.Bytes(), nil
	}

	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, apperror.InvalidInput("malformed PDF")
	}

	var out bytes.Buffer
	switch outFormat {
	case "JPEG":
		if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: 95}); err != nil {
			return nil, apperror.InvalidInput("malformed PDF")
		}
	case "GIF":
		if err := gif.Encode(&out, img, &gif.Options{NumColors: 256}); err != nil {
			return nil, apperror.InvalidInput("malformed PDF")
		}
	default:
		if err := png.Encode(&out, img); err != nil {
			return nil, apperror.InvalidInput("malformed PDF")
		}
	}
	return out.Bytes(), nil
}
