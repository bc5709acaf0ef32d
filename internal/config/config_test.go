package config

import (
	"net"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVICE_NAME", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ServicePort != 8080 {
		t.Errorf("ServicePort = %d, want 8080", cfg.ServicePort)
	}
	if cfg.MinimumResolution <= 0 {
		t.Errorf("MinimumResolution = %d, want positive", cfg.MinimumResolution)
	}
	if cfg.LogLevel != LogInfo {
		t.Errorf("LogLevel = %s, want INFO", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("SERVICE_PORT", "70000")
	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want out-of-range port error")
	}
}

func TestLoadRejectsInvalidIP(t *testing.T) {
	t.Setenv("SERVICE_PORT", "8080")
	t.Setenv("SERVICE_IP", "not-an-ip")
	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want invalid IP error")
	}
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("SERVICE_IP", "127.0.0.1")
	t.Setenv("LOG_LEVEL", "VERBOSE")
	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want invalid log level error")
	}
}

func TestUpstreamBaseURL(t *testing.T) {
	u := Upstream{Protocol: "http", IP: net.ParseIP("10.0.0.5"), Port: 9000}
	if got, want := u.BaseURL(), "http://10.0.0.5:9000"; got != want {
		t.Errorf("BaseURL() = %q, want %q", got, want)
	}
}
