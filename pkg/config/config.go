// Package config loads process configuration from the environment.
package config

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Abraxas-365/certmailer/pkg/errx"
	"github.com/joho/godotenv"
)

var ErrRegistry = errx.NewRegistry("CONFIG")

var CodeInvalid = ErrRegistry.Register("INVALID", errx.TypeValidation, http.StatusInternalServerError, "Invalid configuration")

// Config is the full process configuration.
type Config struct {
	Server   ServerConfig
	SMTP     SMTPConfig
	Notifx   NotifxConfig
	Campaign CampaignConfig
	Storage  StorageConfig
	Suggest  SuggestConfig
	Debug    bool
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port        string
	CORSOrigins string
	BodyLimitMB int
	Version     string
}

// StorageConfig selects where stored campaigns read files from.
type StorageConfig struct {
	Mode      string
	UploadDir string
	Bucket    string
	Prefix    string
	AWSRegion string
}

// Load reads a .env file when present and then the environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return nil, ErrRegistry.NewWithCause(CodeInvalid, err).WithDetail("file", f)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
			BodyLimitMB: getEnvInt("BODY_LIMIT_MB", 25),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		SMTP:     loadSMTPConfig(),
		Notifx:   loadNotifxConfig(),
		Campaign: loadCampaignConfig(),
		Storage: StorageConfig{
			Mode:      getEnv("STORAGE_MODE", "local"),
			UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
			Bucket:    getEnv("AWS_BUCKET", "certmailer-uploads"),
			Prefix:    getEnv("AWS_PREFIX", ""),
			AWSRegion: getEnv("AWS_REGION", "us-east-1"),
		},
		Suggest: loadSuggestConfig(),
		Debug:   getEnvBool("DEBUG", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	var problems []string

	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		problems = append(problems, "SMTP_PORT out of range")
	}
	if c.Campaign.MaxAttempts < 1 {
		problems = append(problems, "CAMPAIGN_MAX_ATTEMPTS must be at least 1")
	}
	if c.Campaign.RetryDelay < 0 || c.Campaign.PacingDelay < 0 {
		problems = append(problems, "campaign delays must not be negative")
	}
	if c.Server.BodyLimitMB < 1 {
		problems = append(problems, "BODY_LIMIT_MB must be at least 1")
	}
	switch c.Notifx.Provider {
	case ProviderSMTP, ProviderSES, ProviderConsole:
	default:
		problems = append(problems, "unknown NOTIFX_PROVIDER "+c.Notifx.Provider)
	}
	switch c.Storage.Mode {
	case "local", "s3":
	default:
		problems = append(problems, "unknown STORAGE_MODE "+c.Storage.Mode)
	}
	switch c.Suggest.Provider {
	case SuggestOpenAI, SuggestAnthropic, SuggestGemini, SuggestBedrock, SuggestDisabled:
	default:
		problems = append(problems, "unknown SUGGEST_PROVIDER "+c.Suggest.Provider)
	}
	if c.Suggest.Temperature < 0 || c.Suggest.Temperature > 2 {
		problems = append(problems, "SUGGEST_TEMPERATURE must be within [0, 2]")
	}

	if len(problems) > 0 {
		return ErrRegistry.New(CodeInvalid).WithDetail("problems", problems)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return b
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return f
	}
	return fallback
}

// getEnvDuration accepts Go durations ("1500ms") or plain seconds ("2").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if s, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(s * float64(time.Second))
	}
	return fallback
}
