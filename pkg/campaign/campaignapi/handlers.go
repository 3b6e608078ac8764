package campaignapi

import (
	"context"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/Abraxas-365/certmailer/pkg/campaign"
	"github.com/Abraxas-365/certmailer/pkg/campaign/campaignsrv"
	"github.com/Abraxas-365/certmailer/pkg/errx"
	"github.com/Abraxas-365/certmailer/pkg/logx"
	"github.com/Abraxas-365/certmailer/pkg/ptrx"
	"github.com/gofiber/fiber/v2"
)

var ErrRegistry = errx.NewRegistry("CAMPAIGN_API")

var (
	CodeMissingFile = ErrRegistry.Register("MISSING_FILE", errx.TypeValidation, fiber.StatusBadRequest, "Required file is missing from the form")
	CodeBadForm     = ErrRegistry.Register("BAD_FORM", errx.TypeValidation, fiber.StatusBadRequest, "Request form could not be read")
)

// CampaignHandlers exposes recipient preview and campaign sending over HTTP.
type CampaignHandlers struct {
	service *campaignsrv.CampaignService
}

func NewCampaignHandlers(service *campaignsrv.CampaignService) *CampaignHandlers {
	return &CampaignHandlers{service: service}
}

// RegisterRoutes mounts the handlers under /api/v1.
func (h *CampaignHandlers) RegisterRoutes(router fiber.Router) {
	v1 := router.Group("/api/v1")
	v1.Post("/recipients/preview", h.Preview)
	v1.Post("/campaigns", h.Send)
	v1.Post("/campaigns/stored", h.SendStored)
}

// Preview handles POST /api/v1/recipients/preview with a multipart
// "recipients" file. Optional "subject" and "body" fields are checked
// against the sheet's columns.
func (h *CampaignHandlers) Preview(c *fiber.Ctx) error {
	fh, err := c.FormFile("recipients")
	if err != nil {
		return ErrRegistry.New(CodeMissingFile).WithDetail("field", "recipients")
	}
	data, err := readHeader(fh)
	if err != nil {
		return err
	}

	var tmpl *campaign.Template
	if subject, body := c.FormValue("subject"), c.FormValue("body"); subject != "" || body != "" {
		tmpl = &campaign.Template{Subject: subject, Body: body}
	}

	preview, err := h.service.Preview(fh.Filename, data, tmpl)
	if err != nil {
		return err
	}
	return c.JSON(preview)
}

// Send handles POST /api/v1/campaigns. The campaign runs synchronously and
// the response is the run summary; a fatal error after some recipients were
// processed still returns the partial summary alongside the error.
func (h *CampaignHandlers) Send(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return ErrRegistry.NewWithCause(CodeBadForm, err)
	}

	sheets := files(form, "recipients")
	if len(sheets) == 0 {
		return ErrRegistry.New(CodeMissingFile).WithDetail("field", "recipients")
	}
	sheet, err := readHeader(sheets[0])
	if err != nil {
		return err
	}

	primary, err := uploads(files(form, "certificates", "certificates[]"), campaign.RolePrimary)
	if err != nil {
		return err
	}
	constant, err := uploads(files(form, "attachments", "attachments[]"), campaign.RoleConstant)
	if err != nil {
		return err
	}

	in := campaignsrv.SendInput{
		RecipientsFile: sheets[0].Filename,
		RecipientsData: sheet,
		Sender:         value(form, "sender"),
		Password:       value(form, "password"),
		Files:          campaign.Files{Primary: primary, Constant: constant},
		Template: campaign.Template{
			Subject: value(form, "subject"),
			Body:    value(form, "body"),
		},
	}
	if raw := value(form, "require_attachment"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return ErrRegistry.NewWithCause(CodeBadForm, err).WithDetail("field", "require_attachment")
		}
		in.RequireAttachment = ptrx.Bool(b)
	}

	logx.WithFields(logx.Fields{
		"sender":       in.Sender,
		"certificates": len(primary),
		"attachments":  len(constant),
		"request_id":   c.GetRespHeader(fiber.HeaderXRequestID),
	}).Info("campaign: starting from upload")

	ctx, cancel := runContext(c)
	defer cancel()
	summary, err := h.service.Send(ctx, in, nil)
	return respond(c, summary, err)
}

// SendStored handles POST /api/v1/campaigns/stored with a JSON body naming
// a sheet and folders in the configured storage.
func (h *CampaignHandlers) SendStored(c *fiber.Ctx) error {
	var in campaignsrv.StoredInput
	if err := c.BodyParser(&in); err != nil {
		return ErrRegistry.NewWithCause(CodeBadForm, err)
	}
	ctx, cancel := runContext(c)
	defer cancel()
	summary, err := h.service.SendStored(ctx, in, nil)
	return respond(c, summary, err)
}

// runContext derives the context a campaign runs under from the user
// context and the request context. fasthttp does not report client
// disconnects; the request context is done only when the server shuts
// down, so a run stops between recipients on shutdown.
func runContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(c.UserContext())
	stop := context.AfterFunc(c.Context(), cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func respond(c *fiber.Ctx, summary *campaign.Summary, err error) error {
	if err == nil {
		return c.JSON(summary)
	}
	if summary == nil || len(summary.Outcomes) == 0 {
		return err
	}

	var e *errx.Error
	if !errx.As(err, &e) {
		return err
	}
	resp := e.ToResponse()
	return c.Status(resp.Status).JSON(fiber.Map{
		"error":   resp,
		"summary": summary,
	})
}

func files(form *multipart.Form, fields ...string) []*multipart.FileHeader {
	var out []*multipart.FileHeader
	for _, f := range fields {
		out = append(out, form.File[f]...)
	}
	return out
}

func value(form *multipart.Form, field string) string {
	if v := form.Value[field]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func uploads(headers []*multipart.FileHeader, role campaign.Role) ([]campaign.UploadedFile, error) {
	out := make([]campaign.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		if !role.Accepts(fh.Filename) {
			return nil, campaign.ErrDisallowedFile(fh.Filename, role)
		}
		data, err := readHeader(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, campaign.UploadedFile{Name: fh.Filename, Data: data, Role: role})
	}
	return out, nil
}

func readHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, campaign.ErrRegistry.NewWithCause(campaign.CodeFileRead, err).WithDetail("file", fh.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, campaign.ErrRegistry.NewWithCause(campaign.CodeFileRead, err).WithDetail("file", fh.Filename)
	}
	return data, nil
}
