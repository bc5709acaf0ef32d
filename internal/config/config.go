// Package config loads the gateway's flat section_key configuration map
// from the process environment (SECTION_KEY, upper-cased) with an
// optional local .env overlay, and validates it at boot the way the
// teacher's database.New fails fast on a bad DSN.
package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LogLevel mirrors spec's five-way severity enum, one step finer than
// slog's built-in four levels.
type LogLevel string

const (
	LogDebug    LogLevel = "DEBUG"
	LogInfo     LogLevel = "INFO"
	LogWarning  LogLevel = "WARNING"
	LogError    LogLevel = "ERROR"
	LogCritical LogLevel = "CRITICAL"
)

// Config is the fully validated, immutable-after-boot process
// configuration (spec §5: "process-wide config immutable after boot").
type Config struct {
	ServiceName             string
	ServiceIP               net.IP
	ServicePort             int
	ServiceTimeoutInSeconds int
	ServiceWorkers          int

	ImageName    string
	HealthName   string
	PdfName      string
	DocumentName string

	EnableDocumentPreview   bool
	EnableDocumentThumbnail bool
	DocsTimeoutInSeconds    int

	LogPath   string
	LogFormat string
	LogLevel  LogLevel

	MinimumResolution int

	RateLimitRPS   int
	RateLimitBurst int

	Storage           Upstream
	DocumentConverter ConverterUpstream
}

// Upstream describes the blob-store's flat protocol/ip/port plus its two
// path components (spec §6: download_api, health_check).
type Upstream struct {
	Protocol    string
	IP          net.IP
	Port        int
	Name        string
	DownloadAPI string
	HealthCheck string
}

// ConverterUpstream describes the document-conversion service's
// protocol/ip/port plus its two path components (service_endpoint,
// convert_api).
type ConverterUpstream struct {
	Protocol        string
	IP              net.IP
	Port            int
	ServiceEndpoint string
	ConvertAPI      string
}

// BaseURL builds the "{protocol}://{ip}:{port}" prefix shared by every
// request a client issues against this upstream.
func (u Upstream) BaseURL() string {
	return fmt.Sprintf("%s://%s:%d", u.Protocol, u.IP.String(), u.Port)
}

// BaseURL builds the converter's address prefix.
func (c ConverterUpstream) BaseURL() string {
	return fmt.Sprintf("%s://%s:%d", c.Protocol, c.IP.String(), c.Port)
}

// Load reads the environment (after trying to load a local .env file),
// parses the flat section_key map, and validates the constraints spec §6
// names explicitly (port range, IP parseability, log path existence).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	cfg := &Config{
		ServiceName:             getEnv("SERVICE_NAME", "preview-gateway"),
		ServiceTimeoutInSeconds: getEnvInt("SERVICE_TIMEOUT_IN_SECONDS", 30),
		ServiceWorkers:          getEnvInt("SERVICE_WORKERS", 8),

		ImageName:    getEnv("SERVICE_IMAGE_NAME", "image"),
		HealthName:   getEnv("SERVICE_HEALTH_NAME", "health"),
		PdfName:      getEnv("SERVICE_PDF_NAME", "pdf"),
		DocumentName: getEnv("SERVICE_DOCUMENT_NAME", "doc"),

		EnableDocumentPreview:   getEnvBool("SERVICE_ENABLE_DOCUMENT_PREVIEW", true),
		EnableDocumentThumbnail: getEnvBool("SERVICE_ENABLE_DOCUMENT_THUMBNAIL", true),
		DocsTimeoutInSeconds:    getEnvInt("SERVICE_DOCS-TIMEOUT", 5),

		LogPath:   getEnv("LOG_PATH", ""),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogLevel:  LogLevel(strings.ToUpper(getEnv("LOG_LEVEL", string(LogInfo)))),

		MinimumResolution: getEnvInt("IMAGE_CONSTANTS_MINIMUM_RESOLUTION", 150),

		RateLimitRPS:   getEnvInt("SERVICE_RATE_LIMIT_RPS", 20),
		RateLimitBurst: getEnvInt("SERVICE_RATE_LIMIT_BURST", 50),
	}

	servicePort, err := parsePort("SERVICE_PORT", getEnv("SERVICE_PORT", "8080"))
	if err != nil {
		return nil, err
	}
	cfg.ServicePort = servicePort

	serviceIP, err := parseIP("SERVICE_IP", getEnv("SERVICE_IP", "0.0.0.0"))
	if err != nil {
		return nil, err
	}
	cfg.ServiceIP = serviceIP

	storage, err := loadUpstream("STORAGE")
	if err != nil {
		return nil, err
	}
	cfg.Storage = storage

	converter, err := loadConverter("DOCUMENT_CONVERSION")
	if err != nil {
		return nil, err
	}
	cfg.DocumentConverter = converter

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadUpstream(prefix string) (Upstream, error) {
	port, err := parsePort(prefix+"_PORT", getEnv(prefix+"_PORT", "8081"))
	if err != nil {
		return Upstream{}, err
	}
	ip, err := parseIP(prefix+"_IP", getEnv(prefix+"_IP", "127.0.0.1"))
	if err != nil {
		return Upstream{}, err
	}
	return Upstream{
		Protocol:    getEnv(prefix+"_PROTOCOL", "http"),
		IP:          ip,
		Port:        port,
		Name:        getEnv(prefix+"_NAME", "storage"),
		DownloadAPI: getEnv(prefix+"_DOWNLOAD_API", "download"),
		HealthCheck: getEnv(prefix+"_HEALTH_CHECK", "health"),
	}, nil
}

func loadConverter(prefix string) (ConverterUpstream, error) {
	port, err := parsePort(prefix+"_PORT", getEnv(prefix+"_PORT", "8082"))
	if err != nil {
		return ConverterUpstream{}, err
	}
	ip, err := parseIP(prefix+"_IP", getEnv(prefix+"_IP", "127.0.0.1"))
	if err != nil {
		return ConverterUpstream{}, err
	}
	return ConverterUpstream{
		Protocol:        getEnv(prefix+"_PROTOCOL", "http"),
		IP:              ip,
		Port:            port,
		ServiceEndpoint: getEnv(prefix+"_SERVICE_ENDPOINT", "convert"),
		ConvertAPI:      getEnv(prefix+"_CONVERT_API", "convert"),
	}, nil
}

func (c *Config) validate() error {
	switch c.LogLevel {
	case LogDebug, LogInfo, LogWarning, LogError, LogCritical:
	default:
		return fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	if c.LogPath != "" {
		if _, err := os.Stat(c.LogPath); err != nil {
			return fmt.Errorf("config: log_path %q does not exist: %w", c.LogPath, err)
		}
	}
	if c.MinimumResolution <= 0 {
		return fmt.Errorf("config: image_constants_minimum_resolution must be positive, got %d", c.MinimumResolution)
	}
	if c.DocsTimeoutInSeconds <= 0 {
		return fmt.Errorf("config: service_docs-timeout must be positive, got %d", c.DocsTimeoutInSeconds)
	}
	if c.ServiceWorkers <= 0 {
		return fmt.Errorf("config: service_workers must be positive, got %d", c.ServiceWorkers)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("config: service_rate_limit_rps must be positive, got %d", c.RateLimitRPS)
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("config: service_rate_limit_burst must be positive, got %d", c.RateLimitBurst)
	}
	return nil
}

func parsePort(key, raw string) (int, error) {
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s is not an integer: %w", key, err)
	}
	if port < 0 || port > 65535 {
		return 0, fmt.Errorf("config: %s=%d out of range [0,65535]", key, port)
	}
	return port, nil
}

func parseIP(key, raw string) (net.IP, error) {
	ip := net.ParseIP(raw)
	if ip == nil {
		return nil, fmt.Errorf("config: %s=%q is not a valid IPv4/IPv6 address", key, raw)
	}
	return ip, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// AllowedOrigins returns the CORS allow-list from ALLOWED_ORIGINS (comma
// separated), defaulting to "*" since the gateway is typically called by
// other backend services rather than browsers directly.
func AllowedOrigins() []string {
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr == "" {
		return []string{"*"}
	}
	var origins []string
	for _, p := range strings.Split(originsStr, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
