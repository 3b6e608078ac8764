package campaignapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Abraxas-365/certmailer/pkg/campaign"
	"github.com/Abraxas-365/certmailer/pkg/campaign/campaignapi"
	"github.com/Abraxas-365/certmailer/pkg/campaign/campaignsrv"
	"github.com/Abraxas-365/certmailer/pkg/errx/errxfiber"
	"github.com/Abraxas-365/certmailer/pkg/notifx"
	"github.com/Abraxas-365/certmailer/pkg/notifx/notifxconsole"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sheet = "Name,Email,Course\nAna,a@x.com,Go\nBo,b@x.com,Go\nCy,nope,Go\n"

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func setup(t *testing.T) (*fiber.App, *notifxconsole.Dialer) {
	t.Helper()
	console := notifxconsole.NewDialer()
	runner := campaignsrv.NewRunner(campaign.DefaultPolicy(), campaignsrv.WithSleeper(noSleep))
	svc := campaignsrv.NewCampaignService(runner, func(string, string) (notifx.Dialer, error) {
		return console, nil
	}, nil)

	app := fiber.New(fiber.Config{ErrorHandler: errxfiber.ErrorHandler(false)})
	campaignapi.NewCampaignHandlers(svc).RegisterRoutes(app)
	return app, console
}

type part struct {
	field, filename, content string
}

func multipartBody(t *testing.T, parts []part) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.filename == "" {
			require.NoError(t, w.WriteField(p.field, p.content))
			continue
		}
		fw, err := w.CreateFormFile(p.field, p.filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(p.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func post(t *testing.T, app *fiber.App, path string, parts []part) (int, map[string]any) {
	t.Helper()
	body, ct := multipartBody(t, parts)
	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestPreview(t *testing.T) {
	app, _ := setup(t)
	status, body := post(t, app, "/api/v1/recipients/preview", []part{{"recipients", "people.csv", sheet}})

	assert.Equal(t, 200, status)
	assert.Equal(t, []any{"name", "email", "course"}, body["columns"])
	assert.EqualValues(t, 2, body["valid_count"])
	assert.EqualValues(t, 1, body["invalid_count"])
}

func TestPreview_ChecksTemplateFields(t *testing.T) {
	app, _ := setup(t)
	status, body := post(t, app, "/api/v1/recipients/preview", []part{
		{"recipients", "people.csv", sheet},
		{"subject", "", "Your {course} certificate"},
		{"body", "", "Hi {name}, grade {grade}"},
	})

	require.Equal(t, 200, status, body)
	assert.Equal(t, []any{"course", "name", "grade"}, body["template_fields"])
	assert.Equal(t, []any{"grade"}, body["unknown_fields"])
	assert.EqualValues(t, 2, body["valid_count"])
}

func TestPreview_MissingFile(t *testing.T) {
	app, _ := setup(t)
	status, body := post(t, app, "/api/v1/recipients/preview", []part{{"other", "", "x"}})
	assert.Equal(t, 400, status)
	assert.Equal(t, "CAMPAIGN_API_MISSING_FILE", body["code"])
}

func TestSend(t *testing.T) {
	app, console := setup(t)
	status, body := post(t, app, "/api/v1/campaigns", []part{
		{"recipients", "people.csv", sheet},
		{"certificates", "Ana.pdf", "%PDF-1.4"},
		{"attachments[]", "guide.pdf", "%PDF-1.4"},
		{"sender", "", "sender@example.com"},
		{"password", "", "app-password"},
		{"subject", "", "Your {course} certificate"},
		{"body", "", "Hi {name}\nCongrats"},
	})

	require.Equal(t, 200, status, body)
	counts := body["counts"].(map[string]any)
	assert.EqualValues(t, 1, counts["sent"])
	assert.EqualValues(t, 1, counts["skipped_no_attachment"])
	assert.Len(t, body["invalid"], 1)

	out := console.Outbox()
	require.Len(t, out, 1)
	assert.Equal(t, "Your Go certificate", out[0].Subject)
	assert.True(t, strings.Contains(out[0].HTMLBody, "Hi Ana<br>Congrats"))
	assert.Len(t, out[0].Constants, 1)
}

func TestSend_RejectsDisallowedCertificate(t *testing.T) {
	app, console := setup(t)
	status, body := post(t, app, "/api/v1/campaigns", []part{
		{"recipients", "people.csv", sheet},
		{"certificates", "Ana.docx", "PK"},
		{"sender", "", "sender@example.com"},
		{"subject", "", "s"},
		{"body", "", "b"},
	})

	assert.Equal(t, 400, status)
	assert.Equal(t, "CAMPAIGN_DISALLOWED_FILE", body["code"])
	assert.Zero(t, console.Dials())
}

func TestSend_InvalidRequireAttachment(t *testing.T) {
	app, _ := setup(t)
	status, body := post(t, app, "/api/v1/campaigns", []part{
		{"recipients", "people.csv", sheet},
		{"require_attachment", "", "maybe"},
	})
	assert.Equal(t, 400, status)
	assert.Equal(t, "CAMPAIGN_API_BAD_FORM", body["code"])
}

func TestSend_StopsWhenContextIsCancelled(t *testing.T) {
	console := notifxconsole.NewDialer()
	runner := campaignsrv.NewRunner(campaign.DefaultPolicy(), campaignsrv.WithSleeper(noSleep))
	svc := campaignsrv.NewCampaignService(runner, func(string, string) (notifx.Dialer, error) {
		return console, nil
	}, nil)

	app := fiber.New(fiber.Config{ErrorHandler: errxfiber.ErrorHandler(false)})
	app.Use(func(c *fiber.Ctx) error {
		ctx, cancel := context.WithCancel(c.UserContext())
		cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})
	campaignapi.NewCampaignHandlers(svc).RegisterRoutes(app)

	status, body := post(t, app, "/api/v1/campaigns", []part{
		{"recipients", "people.csv", sheet},
		{"certificates", "Ana.pdf", "%PDF-1.4"},
		{"sender", "", "sender@example.com"},
		{"subject", "", "Your {course} certificate"},
		{"body", "", "Hi {name}"},
	})

	assert.Equal(t, 499, status)
	assert.Equal(t, "CAMPAIGN_CANCELLED", body["code"])
	assert.Empty(t, console.Outbox())
}
