package campaigncontainer

import (
	"testing"

	"github.com/Abraxas-365/certmailer/pkg/campaign"
	"github.com/Abraxas-365/certmailer/pkg/campaign/campaignsrv"
	"github.com/Abraxas-365/certmailer/pkg/config"
	"github.com/Abraxas-365/certmailer/pkg/errx"
	"github.com/Abraxas-365/certmailer/pkg/notifx"
	"github.com/Abraxas-365/certmailer/pkg/notifx/notifxsmtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(provider string) *config.Config {
	return &config.Config{
		Notifx: config.NotifxConfig{Provider: provider},
		SMTP:   config.SMTPConfig{Host: "smtp.example.com", Port: 587},
		Campaign: config.CampaignConfig{
			MaxAttempts:       3,
			RequireAttachment: true,
			RunLogDir:         "",
		},
	}
}

func TestSMTPDialers_UsesSenderCredentials(t *testing.T) {
	factory := SMTPDialers(config.SMTPConfig{Host: "smtp.example.com", Port: 587})

	d, err := factory("ana@example.com", "app-password")
	require.NoError(t, err)

	smtpDialer, ok := d.(*notifxsmtp.Dialer)
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", smtpDialer.Config().Username)
	assert.Equal(t, "smtp.example.com", smtpDialer.Config().Host)
}

func TestSMTPDialers_MissingPassword(t *testing.T) {
	_, err := SMTPDialers(config.SMTPConfig{Host: "smtp.example.com", Port: 587})("ana@example.com", "")
	assert.True(t, errx.HasCode(err, campaign.CodeMissingCredential))
}

func TestSMTPDialers_FallsBackToConfiguredPassword(t *testing.T) {
	_, err := SMTPDialers(config.SMTPConfig{Host: "h", Port: 587, Password: "env"})("ana@example.com", "")
	assert.NoError(t, err)
}

func TestNew_ConsoleTransport(t *testing.T) {
	c := New(Deps{Cfg: testConfig(config.ProviderConsole)})
	require.NotNil(t, c.Console)
	assert.NotNil(t, c.Handlers)
	assert.Equal(t, 3, c.Runner.Policy().MaxAttempts)
}

func TestNew_SESWithoutClient(t *testing.T) {
	c := New(Deps{Cfg: testConfig(config.ProviderSES)})
	_, err := c.Service.Send(t.Context(), sesInput(), nil)
	require.Error(t, err)
	assert.True(t, errx.HasCode(err, notifx.ErrUnknownProvider))
}

func sesInput() campaignsrv.SendInput {
	return campaignsrv.SendInput{
		RecipientsFile: "list.csv",
		RecipientsData: []byte("name,email\nAna Lopez,ana@example.com\n"),
		Sender:         "events@example.com",
		Files: campaign.Files{
			Primary: []campaign.UploadedFile{{Name: "Ana Lopez.pdf", Data: []byte("%PDF-1.4"), Role: campaign.RolePrimary}},
		},
		Template: campaign.Template{Subject: "Certificate", Body: "Hi {name}"},
	}
}
