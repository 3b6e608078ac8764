package campaignsrv_test

import (
	"context"
	"testing"

	"github.com/Abraxas-365/certmailer/pkg/campaign"
	"github.com/Abraxas-365/certmailer/pkg/campaign/campaignsrv"
	"github.com/Abraxas-365/certmailer/pkg/errx"
	"github.com/Abraxas-365/certmailer/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/certmailer/pkg/notifx"
	"github.com/Abraxas-365/certmailer/pkg/notifx/notifxconsole"
	"github.com/Abraxas-365/certmailer/pkg/recipients"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sheet = "name,email,course\nAna,a@x.com,Go\nBo,b@x.com,Go\nCy,bad,Go\n"

func newService(t *testing.T, console *notifxconsole.Dialer) (*campaignsrv.CampaignService, *fsxlocal.LocalFileSystem) {
	t.Helper()
	fs, err := fsxlocal.NewLocalFileSystem(t.TempDir())
	require.NoError(t, err)

	runner := campaignsrv.NewRunner(campaign.DefaultPolicy(), campaignsrv.WithSleeper((&recordingSleeper{}).Sleep))
	factory := func(sender, password string) (notifx.Dialer, error) {
		if password == "" {
			return nil, campaign.ErrMissingCredential()
		}
		return console, nil
	}
	return campaignsrv.NewCampaignService(runner, factory, fs), fs
}

func TestCampaignService_Send(t *testing.T) {
	console := notifxconsole.NewDialer()
	svc, _ := newService(t, console)

	sum, err := svc.Send(context.Background(), campaignsrv.SendInput{
		RecipientsFile: "people.csv",
		RecipientsData: []byte(sheet),
		Sender:         "sender@example.com",
		Password:       "app-password",
		Files: campaign.Files{
			Primary: []campaign.UploadedFile{{Name: "Ana.pdf", Data: []byte("%PDF"), Role: campaign.RolePrimary}},
		},
		Template: campaign.Template{Subject: "{course} certificate", Body: "Hi {name}"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Counts.Sent)
	assert.Equal(t, 1, sum.Counts.SkippedNoAttachment)
	require.Len(t, sum.Invalid, 1)
	assert.Equal(t, recipients.ReasonInvalidEmail, sum.Invalid[0].Reason)
	require.Len(t, console.Outbox(), 1)
	assert.Equal(t, "Go certificate", console.Outbox()[0].Subject)
}

func TestCampaignService_SendWithoutCertificates(t *testing.T) {
	console := notifxconsole.NewDialer()
	svc, _ := newService(t, console)
	no := false

	sum, err := svc.Send(context.Background(), campaignsrv.SendInput{
		RecipientsFile:    "people.csv",
		RecipientsData:    []byte(sheet),
		Sender:            "sender@example.com",
		Password:          "app-password",
		Template:          campaign.Template{Subject: "News", Body: "Hi {name}"},
		RequireAttachment: &no,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Counts.Sent)
}

func TestCampaignService_MissingPassword(t *testing.T) {
	console := notifxconsole.NewDialer()
	svc, _ := newService(t, console)

	_, err := svc.Send(context.Background(), campaignsrv.SendInput{
		RecipientsFile: "people.csv",
		RecipientsData: []byte(sheet),
		Sender:         "sender@example.com",
		Files: campaign.Files{
			Primary: []campaign.UploadedFile{{Name: "Ana.pdf", Data: []byte("%PDF"), Role: campaign.RolePrimary}},
		},
		Template: campaign.Template{Subject: "s", Body: "b"},
	}, nil)
	require.Error(t, err)
	assert.True(t, errx.HasCode(err, campaign.CodeMissingCredential))
	assert.Zero(t, console.Dials())
}

func TestCampaignService_SendStored(t *testing.T) {
	ctx := context.Background()
	console := notifxconsole.NewDialer()
	svc, fs := newService(t, console)

	require.NoError(t, fs.WriteFile(ctx, "run/people.csv", []byte(sheet)))
	require.NoError(t, fs.WriteFile(ctx, "run/certs/Ana.pdf", []byte("%PDF")))
	require.NoError(t, fs.WriteFile(ctx, "run/certs/Bo.pdf", []byte("%PDF")))
	require.NoError(t, fs.WriteFile(ctx, "run/shared/guide.pdf", []byte("%PDF")))

	sum, err := svc.SendStored(ctx, campaignsrv.StoredInput{
		RecipientsPath:  "run/people.csv",
		CertificatesDir: "run/certs",
		AttachmentsDir:  "run/shared",
		Sender:          "sender@example.com",
		Password:        "app-password",
		Template:        campaign.Template{Subject: "Certificate", Body: "Hi {name}"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Counts.Sent)
	out := console.Outbox()
	require.Len(t, out, 2)
	assert.Equal(t, "Bo.pdf", out[1].Primary.Filename)
	assert.Equal(t, "guide.pdf", out[1].Constants[0].Filename)
}
