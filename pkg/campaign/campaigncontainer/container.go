package campaigncontainer

import (
	"strings"

	"github.com/Abraxas-365/certmailer/pkg/campaign"
	"github.com/Abraxas-365/certmailer/pkg/campaign/campaignapi"
	"github.com/Abraxas-365/certmailer/pkg/campaign/campaignsrv"
	"github.com/Abraxas-365/certmailer/pkg/config"
	"github.com/Abraxas-365/certmailer/pkg/fsx"
	"github.com/Abraxas-365/certmailer/pkg/logx"
	"github.com/Abraxas-365/certmailer/pkg/notifx"
	"github.com/Abraxas-365/certmailer/pkg/notifx/notifxconsole"
	"github.com/Abraxas-365/certmailer/pkg/notifx/notifxses"
	"github.com/Abraxas-365/certmailer/pkg/notifx/notifxsmtp"
)

// ---------------------------------------------------------------------------
// Deps: what the campaign context needs from the composition root.
// ---------------------------------------------------------------------------

type Deps struct {
	Cfg *config.Config

	// Storage backs the stored-campaign endpoint. Nil disables it.
	Storage fsx.PathReader

	// SES is required only when NOTIFX_PROVIDER=ses.
	SES notifxses.API
}

// ---------------------------------------------------------------------------
// Container: the public surface of the campaign context.
// ---------------------------------------------------------------------------

type Container struct {
	Runner   *campaignsrv.Runner
	Service  *campaignsrv.CampaignService
	Handlers *campaignapi.CampaignHandlers

	// Console is set when the console transport is selected.
	Console *notifxconsole.Dialer
}

func New(deps Deps) *Container {
	logx.Info("  Initializing campaign module...")

	c := &Container{}
	cfg := deps.Cfg

	c.Runner = campaignsrv.NewRunner(
		cfg.Campaign.Policy(),
		campaignsrv.WithRunLogDir(cfg.Campaign.RunLogDir),
	)

	var dialers campaignsrv.DialerFactory
	switch cfg.Notifx.Provider {
	case config.ProviderSES:
		dialers = sesDialers(deps.SES)
	case config.ProviderConsole:
		c.Console = notifxconsole.NewDialer()
		dialers = func(string, string) (notifx.Dialer, error) { return c.Console, nil }
	default:
		dialers = SMTPDialers(cfg.SMTP)
	}

	c.Service = campaignsrv.NewCampaignService(c.Runner, dialers, deps.Storage)
	c.Handlers = campaignapi.NewCampaignHandlers(c.Service)

	logx.Infof("  Campaign module ready (transport: %s)", cfg.Notifx.Provider)
	return c
}

// SMTPDialers authenticates as the campaign sender. The configured
// username and password are used only when the request leaves them out.
func SMTPDialers(cfg config.SMTPConfig) campaignsrv.DialerFactory {
	base := notifxsmtp.NewDialer(notifxsmtp.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		Timeout:  cfg.Timeout,
	})

	return func(sender, password string) (notifx.Dialer, error) {
		username := strings.TrimSpace(sender)
		if username == "" {
			username = cfg.Username
		}
		if password == "" {
			password = cfg.Password
		}
		if password == "" {
			return nil, campaign.ErrMissingCredential()
		}
		return base.WithCredentials(username, password), nil
	}
}

func sesDialers(api notifxses.API) campaignsrv.DialerFactory {
	return func(string, string) (notifx.Dialer, error) {
		if api == nil {
			return nil, notifx.ErrRegistry.New(notifx.ErrUnknownProvider).WithDetail("provider", config.ProviderSES)
		}
		return notifxses.NewDialer(api), nil
	}
}
