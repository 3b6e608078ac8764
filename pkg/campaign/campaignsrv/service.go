package campaignsrv

import (
	"context"

	"github.com/Abraxas-365/certmailer/pkg/campaign"
	"github.com/Abraxas-365/certmailer/pkg/fsx"
	"github.com/Abraxas-365/certmailer/pkg/logx"
	"github.com/Abraxas-365/certmailer/pkg/notifx"
	"github.com/Abraxas-365/certmailer/pkg/recipients"
)

// DialerFactory returns the transport for one campaign, authenticated as
// sender. Implementations decide whether password is required.
type DialerFactory func(sender, password string) (notifx.Dialer, error)

// CampaignService loads recipients and files and runs campaigns.
type CampaignService struct {
	runner  *Runner
	dialers DialerFactory
	storage fsx.PathReader
}

// NewCampaignService creates the service. storage may be nil when stored
// campaigns are not offered.
func NewCampaignService(runner *Runner, dialers DialerFactory, storage fsx.PathReader) *CampaignService {
	return &CampaignService{
		runner:  runner,
		dialers: dialers,
		storage: storage,
	}
}

// SendInput is a campaign with every file already in memory.
type SendInput struct {
	RecipientsFile    string
	RecipientsData    []byte
	Sender            string
	Password          string
	Files             campaign.Files
	Template          campaign.Template
	RequireAttachment *bool
}

// StoredInput is a campaign whose files live in the configured storage.
type StoredInput struct {
	RecipientsPath    string            `json:"recipients_path"`
	CertificatesDir   string            `json:"certificates_dir"`
	AttachmentsDir    string            `json:"attachments_dir"`
	Sender            string            `json:"sender"`
	Password          string            `json:"password"`
	Template          campaign.Template `json:"template"`
	RequireAttachment *bool             `json:"require_attachment"`
}

// PreviewResult is a sheet preview, checked against a template when one
// was given.
type PreviewResult struct {
	*recipients.Preview
	TemplateFields []string `json:"template_fields,omitempty"`
	UnknownFields  []string `json:"unknown_fields,omitempty"`
}

// Preview parses a recipient sheet without sending anything. When tmpl is
// not nil, the placeholders it uses are listed along with those no column
// of the sheet provides.
func (s *CampaignService) Preview(filename string, data []byte, tmpl *campaign.Template) (*PreviewResult, error) {
	p, err := recipients.BuildPreview(filename, data)
	if err != nil {
		return nil, err
	}
	out := &PreviewResult{Preview: p}
	if tmpl == nil {
		return out, nil
	}

	r, err := NewRenderer(*tmpl)
	if err != nil {
		return nil, err
	}
	columns := make(map[string]bool, len(p.Columns))
	for _, c := range p.Columns {
		columns[c] = true
	}
	out.TemplateFields = r.Fields()
	for _, f := range out.TemplateFields {
		if !columns[f] {
			out.UnknownFields = append(out.UnknownFields, f)
		}
	}
	return out, nil
}

// Send validates the sheet, then runs the campaign. Invalid rows are
// reported on the summary and never sent to.
func (s *CampaignService) Send(ctx context.Context, in SendInput, onProgress func(campaign.Progress)) (*campaign.Summary, error) {
	list, err := recipients.Load(in.RecipientsFile, in.RecipientsData)
	if err != nil {
		return nil, err
	}
	if len(list.Invalid) > 0 {
		logx.WithFields(logx.Fields{
			"file":    in.RecipientsFile,
			"invalid": len(list.Invalid),
			"valid":   len(list.Valid),
		}).Warn("campaign: excluded recipients with invalid rows")
	}

	runner := s.runner
	if in.RequireAttachment != nil {
		p := runner.Policy()
		p.RequireAttachment = *in.RequireAttachment
		runner = runner.WithPolicy(p)
	}

	req := campaign.Request{
		Sender:     in.Sender,
		Recipients: list.Valid,
		Files:      in.Files,
		Template:   in.Template,
	}
	if err := runner.Validate(req); err != nil {
		return nil, err
	}

	dialer, err := s.dialers(in.Sender, in.Password)
	if err != nil {
		return nil, err
	}

	summary, err := runner.Run(ctx, dialer, req, onProgress)
	if summary != nil {
		summary.Invalid = list.Invalid
		for _, o := range summary.ByKind(campaign.Failed) {
			logx.WithFields(logx.Fields{
				"run_id": summary.RunID,
				"row":    o.Row,
				"email":  o.Email,
				"reason": o.Reason,
			}).Warn("campaign: recipient failed")
		}
	}
	return summary, err
}

// SendStored reads the sheet and folders from storage, then behaves like
// Send.
func (s *CampaignService) SendStored(ctx context.Context, in StoredInput, onProgress func(campaign.Progress)) (*campaign.Summary, error) {
	if s.storage == nil {
		return nil, campaign.ErrRegistry.New(campaign.CodeFileRead).WithDetail("reason", "no storage configured")
	}

	data, err := s.storage.ReadFile(ctx, in.RecipientsPath)
	if err != nil {
		return nil, campaign.ErrRegistry.NewWithCause(campaign.CodeFileRead, err).WithDetail("file", in.RecipientsPath)
	}
	primary, err := campaign.LoadFiles(ctx, s.storage, in.CertificatesDir, campaign.RolePrimary)
	if err != nil {
		return nil, err
	}
	constant, err := campaign.LoadFiles(ctx, s.storage, in.AttachmentsDir, campaign.RoleConstant)
	if err != nil {
		return nil, err
	}

	return s.Send(ctx, SendInput{
		RecipientsFile:    in.RecipientsPath,
		RecipientsData:    data,
		Sender:            in.Sender,
		Password:          in.Password,
		Files:             campaign.Files{Primary: primary, Constant: constant},
		Template:          in.Template,
		RequireAttachment: in.RequireAttachment,
	}, onProgress)
}
