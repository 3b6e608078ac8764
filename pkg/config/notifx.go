package config

import "time"

const (
	ProviderSMTP    = "smtp"
	ProviderSES     = "ses"
	ProviderConsole = "console"
)

// NotifxConfig selects the mail transport.
type NotifxConfig struct {
	Provider  string
	AWSRegion string
}

// SMTPConfig configures the SMTP transport. Username and Password are
// fallbacks; the sender and app password in a request take precedence.
type SMTPConfig struct {
	Host     string
	Port     int
	Timeout  time.Duration
	From     string
	Username string
	Password string
}

func loadNotifxConfig() NotifxConfig {
	return NotifxConfig{
		Provider:  getEnv("NOTIFX_PROVIDER", ProviderSMTP),
		AWSRegion: getEnv("NOTIFX_AWS_REGION", getEnv("AWS_REGION", "us-east-1")),
	}
}

func loadSMTPConfig() SMTPConfig {
	return SMTPConfig{
		Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		Port:     getEnvInt("SMTP_PORT", 587),
		Timeout:  getEnvDuration("SMTP_TIMEOUT", 30*time.Second),
		From:     getEnv("SMTP_FROM", ""),
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
	}
}
