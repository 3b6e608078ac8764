package config

import (
	"time"

	"github.com/Abraxas-365/certmailer/pkg/campaign"
)

// CampaignConfig holds runner defaults.
type CampaignConfig struct {
	MaxAttempts       int
	RetryDelay        time.Duration
	PacingDelay       time.Duration
	RequireAttachment bool
	RawValues         bool
	RunLogDir         string
}

func loadCampaignConfig() CampaignConfig {
	def := campaign.DefaultPolicy()
	return CampaignConfig{
		MaxAttempts:       getEnvInt("CAMPAIGN_MAX_ATTEMPTS", def.MaxAttempts),
		RetryDelay:        getEnvDuration("CAMPAIGN_RETRY_DELAY", def.RetryDelay),
		PacingDelay:       getEnvDuration("CAMPAIGN_PACING_DELAY", def.PacingDelay),
		RequireAttachment: getEnvBool("CAMPAIGN_REQUIRE_ATTACHMENT", def.RequireAttachment),
		RawValues:         getEnvBool("CAMPAIGN_RAW_HTML_VALUES", def.RawValues),
		RunLogDir:         getEnv("RUN_LOG_DIR", "./logs"),
	}
}

// Policy converts the settings into a runner policy.
func (c CampaignConfig) Policy() campaign.Policy {
	return campaign.Policy{
		RequireAttachment: c.RequireAttachment,
		MaxAttempts:       c.MaxAttempts,
		RetryDelay:        c.RetryDelay,
		PacingDelay:       c.PacingDelay,
		RawValues:         c.RawValues,
	}
}
