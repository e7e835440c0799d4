// Package logging configures the process-wide slog logger for both binaries.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default logger. LOG_LEVEL selects the level; debug
// switches to colored tint output with trimmed source paths, anything else
// logs JSON to stderr.
func Setup() {
	logLevel := slog.LevelInfo
	if logLevelStr := os.Getenv("LOG_LEVEL"); logLevelStr != "" {
		if err := logLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
			panic(fmt.Sprintf("invalid log level: %s", logLevelStr))
		}
	}

	slog.SetDefault(slog.New(NewHandler(logLevel, os.Stdout, os.Stderr)))
	if logLevel == slog.LevelDebug {
		slog.Info("debug logging enabled")
		return
	}
	slog.Info("json logging enabled")
}

// NewHandler returns the handler Setup would install for level
func NewHandler(level slog.Level, debugOut, jsonOut io.Writer) slog.Handler {
	if level != slog.LevelDebug {
		return slog.NewJSONHandler(jsonOut, &slog.HandlerOptions{Level: level})
	}

	modulePrefix := getModulePrefix()
	replacer := func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.SourceKey {
			if source, ok := a.Value.Any().(*slog.Source); ok {
				source.File = cleanSourcePath(source.File, modulePrefix)
			}
		}
		if err, ok := a.Value.Any().(error); ok {
			aErr := tint.Err(err)
			aErr.Key = a.Key
			return aErr
		}
		return a
	}

	return tint.NewHandler(debugOut, &tint.Options{
		Level:       slog.LevelDebug,
		TimeFormat:  time.TimeOnly,
		ReplaceAttr: replacer,
		AddSource:   true,
	})
}

// getModulePrefix extracts the module path from runtime build info
// and returns a prefix that can be used to clean source paths
func getModulePrefix() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Path == "" {
		if wd, err := os.Getwd(); err == nil {
			return "/" + filepath.Base(wd) + "/"
		}
		return "/zenbild-web/"
	}

	// e.g., "github.com/zenbild/zenbild-web" -> "/zenbild-web/"
	parts := strings.Split(info.Main.Path, "/")
	return "/" + parts[len(parts)-1] + "/"
}

// cleanSourcePath removes the module prefix from the file path to make logs more readable
func cleanSourcePath(filePath, modulePrefix string) string {
	parts := strings.Split(filePath, modulePrefix)
	if len(parts) == 2 {
		return parts[1]
	}

	// Remove common Go path prefixes that aren't useful
	cleaned := filePath
	if idx := strings.LastIndex(cleaned, "/go/src/"); idx != -1 {
		cleaned = cleaned[idx+8:]
	} else if idx := strings.LastIndex(cleaned, "/src/"); idx != -1 {
		cleaned = cleaned[idx+5:]
	}

	return cleaned
}
