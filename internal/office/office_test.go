package office

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"preview-gateway/internal/config"
)

func testUpstream(t *testing.T, srv *httptest.Server) config.ConverterUpstream {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("url.Parse: %v", err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("SplitHostPort: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("Atoi: %v", err)
	}
	return config.ConverterUpstream{
		Protocol:        "http",
		IP:              net.ParseIP(host),
		Port:            port,
		ServiceEndpoint: "convert",
		ConvertAPI:      "convert",
	}
}

func TestSanitizeExt(t *testing.T) {
	cases := map[string]string{"jpeg": "png", "jpg": "png", "png": "png", "pdf": "pdf"}
	for in, want := range cases {
		if got := sanitizeExt(in); got != want {
			t.Errorf("sanitizeExt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConvertFileToSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/convert/convert/png") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		file, _, err := r.FormFile("files")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		body, _ := io.ReadAll(file)
		if string(body) != "source bytes" {
			t.Errorf("unexpected body: %s", body)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("converted"))
	}))
	defer srv.Close()

	bridge := New(testUpstream(t, srv), 5*time.Second, nil)
	out := bridge.ConvertFileTo(context.Background(), []byte("source bytes"), "jpeg")
	if string(out) != "converted" {
		t.Errorf("ConvertFileTo = %q, want %q", out, "converted")
	}
}

func TestConvertFileToFailureReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	bridge := New(testUpstream(t, srv), 5*time.Second, nil)
	out := bridge.ConvertFileTo(context.Background(), []byte("x"), "pdf")
	if out != nil {
		t.Errorf("ConvertFileTo on failure = %v, want nil", out)
	}
}

func TestProbeReturnsTrueOn2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	bridge := New(testUpstream(t, srv), 5*time.Second, nil)
	if !bridge.Probe(context.Background()) {
		t.Error("Probe() = false, want true")
	}
}
