// Package logger wires the gateway's structured logging: tint for
// human-readable development output, JSON for production, sized to
// spec's five-way log_level enum (DEBUG/INFO/WARNING/ERROR/CRITICAL).
package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"preview-gateway/internal/config"
)

// LevelCritical sits one step above slog's built-in Error level, since
// spec's severity enum has a level slog doesn't.
const LevelCritical = slog.Level(12)

// levelNames renders LevelCritical with its own label instead of "ERROR+4".
var levelNames = map[slog.Leveler]string{
	LevelCritical: "CRITICAL",
}

// Init builds and installs the global logger for the given environment
// ("production" selects the JSON handler) and level, writing to logPath
// when set or standard error otherwise.
func Init(service, env string, level config.LogLevel, logPath string) (*slog.Logger, error) {
	slogLevel := toSlogLevel(level)

	var out io.Writer = os.Stderr
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		out = f
	}

	var handler slog.Handler
	if env == "production" {
		opts := &slog.HandlerOptions{
			Level:       slogLevel,
			AddSource:   true,
			ReplaceAttr: replaceLevel,
		}
		handler = slog.NewJSONHandler(out, opts).WithAttrs([]slog.Attr{
			slog.String("service", service),
			slog.String("env", env),
		})
	} else {
		handler = tint.NewHandler(out, &tint.Options{
			Level:       slogLevel,
			TimeFormat:  "15:04:05",
			ReplaceAttr: replaceLevel,
		})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}

func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok {
			if name, known := levelNames[lvl]; known {
				a.Value = slog.StringValue(name)
			}
		}
	}
	return a
}

func toSlogLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogInfo:
		return slog.LevelInfo
	case config.LogWarning:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	case config.LogCritical:
		return LevelCritical
	default:
		return slog.LevelInfo
	}
}

// L returns the default global logger.
func L() *slog.Logger {
	return slog.Default()
}
