package logx

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Format selects a Formatter.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
	// FormatText is the plain "time - LEVEL - message" layout of run logs
	FormatText Format = "text"
)

// Config holds logger settings.
type Config struct {
	Level           Level
	Format          Format
	EnableColors    bool // console only
	EnableCaller    bool
	EnableTimestamp bool
	// TimeFormat is a time layout, or "unix" / "unixmilli"
	TimeFormat string
	Output     io.Writer
}

func DefaultConfig() *Config {
	return &Config{
		Level:           LevelInfo,
		Format:          FormatConsole,
		EnableColors:    true,
		EnableTimestamp: true,
		TimeFormat:      time.RFC3339,
		Output:          os.Stdout,
	}
}

var namedTimeFormats = map[string]string{
	"RFC3339":     time.RFC3339,
	"RFC3339NANO": time.RFC3339Nano,
	"RFC822":      time.RFC822,
	"UNIX":        "unix",
	"UNIXMILLI":   "unixmilli",
}

// LoadFromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_COLOR, LOG_CALLER and
// LOG_TIME_FORMAT over DefaultConfig.
func LoadFromEnv() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = ParseLevel(v)
	}

	switch Format(strings.ToLower(os.Getenv("LOG_FORMAT"))) {
	case FormatJSON:
		cfg.Format = FormatJSON
	case FormatText:
		cfg.Format = FormatText
	}

	if b, err := strconv.ParseBool(os.Getenv("LOG_COLOR")); err == nil {
		cfg.EnableColors = b
	}
	if b, err := strconv.ParseBool(os.Getenv("LOG_CALLER")); err == nil {
		cfg.EnableCaller = b
	}

	if v := os.Getenv("LOG_TIME_FORMAT"); v != "" {
		if named, ok := namedTimeFormats[strings.ToUpper(v)]; ok {
			cfg.TimeFormat = named
		} else {
			cfg.TimeFormat = v
		}
	}

	return cfg
}
