package dispatch

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"preview-gateway/internal/blobclient"
	"preview-gateway/internal/config"
	"preview-gateway/internal/office"
	"preview-gateway/internal/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testCfg(t *testing.T, storageSrv, converterSrv *httptest.Server) *config.Config {
	t.Helper()
	storage := upstreamFrom(t, storageSrv)
	converter := converterUpstreamFrom(t, converterSrv)
	return &config.Config{
		ServiceName:             "preview",
		ServiceWorkers:          4,
		ImageName:               "image",
		HealthName:              "health",
		PdfName:                 "pdf",
		DocumentName:            "document",
		EnableDocumentPreview:   true,
		EnableDocumentThumbnail: true,
		DocsTimeoutInSeconds:    5,
		MinimumResolution:       10,
		RateLimitRPS:            1000,
		RateLimitBurst:          1000,
		Storage:                 storage,
		DocumentConverter:       converter,
	}
}

func upstreamFrom(t *testing.T, srv *httptest.Server) config.Upstream {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("url.Parse: %v", err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("SplitHostPort: %v", err)
	}
	port, _ := strconv.Atoi(portStr)
	return config.Upstream{
		Protocol:    "http",
		IP:          net.ParseIP(host),
		Port:        port,
		DownloadAPI: "download",
		HealthCheck: "health",
	}
}

func converterUpstreamFrom(t *testing.T, srv *httptest.Server) config.ConverterUpstream {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("url.Parse: %v", err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("SplitHostPort: %v", err)
	}
	port, _ := strconv.Atoi(portStr)
	return config.ConverterUpstream{
		Protocol:        "http",
		IP:              net.ParseIP(host),
		Port:            port,
		ServiceEndpoint: "convert",
		ConvertAPI:      "convert",
	}
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	return buf.Bytes()
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestPreviewUploadReturnsPaddedJPEG(t *testing.T) {
	storageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer storageSrv.Close()
	converterSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer converterSrv.Close()

	cfg := testCfg(t, storageSrv, converterSrv)
	d := New(cfg, blobclient.New(cfg.Storage), office.New(cfg.DocumentConverter, time.Duration(cfg.DocsTimeoutInSeconds)*time.Second, nil))
	r := router.Setup(cfg, d)

	body, contentType := multipartBody(t, "file", "src.jpg", jpegBytes(t, 300, 400))
	req := httptest.NewRequest(http.MethodPost, "/preview/image/100x200/?crop=false&quality=medium&output_format=jpeg", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q, want image/jpeg", ct)
	}
	img, err := jpeg.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("jpeg.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 200 {
		t.Errorf("decoded size = %dx%d, want 100x200", b.Dx(), b.Dy())
	}
}

func TestPreviewByIDStorageUnavailableReturns502(t *testing.T) {
	storageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer storageSrv.Close()
	converterSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer converterSrv.Close()

	cfg := testCfg(t, storageSrv, converterSrv)
	d := New(cfg, blobclient.New(cfg.Storage), office.New(cfg.DocumentConverter, time.Duration(cfg.DocsTimeoutInSeconds)*time.Second, nil))
	r := router.Setup(cfg, d)

	req := httptest.NewRequest(http.MethodGet, "/preview/image/da2dcce7-cd87-423c-a6c9-38c527ab6e6a/1/0x0/?service_type=files", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "STORAGE_UNAVAILABLE" {
		t.Errorf("body = %q, want STORAGE_UNAVAILABLE", rec.Body.String())
	}
}

func TestDocThumbnailDisabledReturns400(t *testing.T) {
	storageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer storageSrv.Close()
	converterSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer converterSrv.Close()

	cfg := testCfg(t, storageSrv, converterSrv)
	cfg.EnableDocumentThumbnail = false
	d := New(cfg, blobclient.New(cfg.Storage), office.New(cfg.DocumentConverter, time.Duration(cfg.DocsTimeoutInSeconds)*time.Second, nil))
	r := router.Setup(cfg, d)

	body, contentType := multipartBody(t, "file", "doc.docx", []byte("fake docx bytes"))
	req := httptest.NewRequest(http.MethodPost, "/preview/document/10x10/thumbnail/?output_format=png", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestPdfUploadRangeOnMalformedPDFReturnsPDF(t *testing.T) {
	storageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer storageSrv.Close()
	converterSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer converterSrv.Close()

	cfg := testCfg(t, storageSrv, converterSrv)
	d := New(cfg, blobclient.New(cfg.Storage), office.New(cfg.DocumentConverter, time.Duration(cfg.DocsTimeoutInSeconds)*time.Second, nil))
	r := router.Setup(cfg, d)

	body, contentType := multipartBody(t, "file", "doc.pdf", []byte("%PDF-1.4\nnot a real pdf"))
	req := httptest.NewRequest(http.MethodPost, "/preview/pdf/?first_page=2&last_page=3", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", ct)
	}
}
