// Package office implements the office bridge (spec §4.4): a pure RPC
// client to an external document-conversion service. It is explicitly
// NOT a LibreOffice process supervisor — spec §9 marks that design
// abandoned; this package only ever issues a multipart POST and reads
// back bytes.
package office

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"preview-gateway/internal/config"
	"preview-gateway/internal/pdfengine"
)

// Bridge posts documents to the configured conversion upstream.
type Bridge struct {
	upstream config.ConverterUpstream
	timeout  time.Duration
	http     *http.Client
	log      *slog.Logger
}

// New builds a Bridge bound to the given converter upstream and timeout
// (spec §4.4: "timeout = configured positive int (default 5s)").
func New(upstream config.ConverterUpstream, timeout time.Duration, log *slog.Logger) *Bridge {
	if log == nil {
		log = slog.Default()
	}
	return &Bridge{
		upstream: upstream,
		timeout:  timeout,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

// sanitizeExt maps JPEG/PNG to "png" before wire transmission, since the
// conversion service doesn't accept JPEG directly — JPEG re-encoding is
// done by the raster codec afterward (spec §4.4).
func sanitizeExt(targetExt string) string {
	switch targetExt {
	case "jpeg", "jpg", "png":
		return "png"
	default:
		return targetExt
	}
}

// ConvertFileTo sends source bytes to the converter and returns the
// converted bytes. Any failure (transport or non-2xx) is logged and
// yields an empty byte slice, never a hard error, grounded on the
// original's `_convert_with_libre`'s `except Exception: return
// io.BytesIO()`.
func (b *Bridge) ConvertFileTo(ctx context.Context, data []byte, targetExt string) []byte {
	wireExt := sanitizeExt(targetExt)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("files", "docs-editor-file")
	if err != nil {
		b.log.Error("office bridge: failed to build multipart request", "error", err)
		return nil
	}
	if _, err := part.Write(data); err != nil {
		b.log.Error("office bridge: failed to write payload", "error", err)
		return nil
	}
	if err := writer.Close(); err != nil {
		b.log.Error("office bridge: failed to finalize multipart request", "error", err)
		return nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s/%s/%s", b.upstream.BaseURL(), b.upstream.ServiceEndpoint, b.upstream.ConvertAPI, wireExt)
	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, &body)
	if err != nil {
		b.log.Error("office bridge: failed to build request", "error", err)
		return nil
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := b.http.Do(httpReq)
	if err != nil {
		b.log.Log(ctx, criticalLevel, "office bridge: conversion service unreachable", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b.log.Error("office bridge: conversion service returned non-2xx", "status", resp.StatusCode)
		return nil
	}

	converted, err := io.ReadAll(resp.Body)
	if err != nil {
		b.log.Error("office bridge: failed to read response", "error", err)
		return nil
	}
	return converted
}

// criticalLevel mirrors logger.LevelCritical (slog.LevelError + 4); it is
// kept as a local constant rather than imported from the logger package.
const criticalLevel = 12

// Probe issues a GET against the converter's base service endpoint with
// a 5s timeout (spec §4.8), returning true iff the response is 2xx.
func (b *Bridge) Probe(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/%s", b.upstream.BaseURL(), b.upstream.ServiceEndpoint)
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// ConvertToPdf composes convertFileTo(input, "pdf") -> split(range),
// matching the original's convert_to_pdf composition (spec §4.4).
func (b *Bridge) ConvertToPdf(ctx context.Context, data []byte, firstPage, lastPage int) []byte {
	pdfBytes := b.ConvertFileTo(ctx, data, "pdf")
	return pdfengine.Split(pdfBytes, firstPage, lastPage)
}

// ConvertPdfTo composes split(range) -> convertFileTo(other), matching
// the original's convert_pdf_to composition (spec §4.4).
func (b *Bridge) ConvertPdfTo(ctx context.Context, pdfBytes []byte, firstPage, lastPage int, targetExt string) []byte {
	trimmed := pdfengine.Split(pdfBytes, firstPage, lastPage)
	return b.ConvertFileTo(ctx, trimmed, targetExt)
}
