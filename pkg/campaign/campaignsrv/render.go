package campaignsrv

import (
	"strings"

	"github.com/Abraxas-365/certmailer/pkg/campaign"
	"github.com/Abraxas-365/certmailer/pkg/logx"
	"github.com/Abraxas-365/certmailer/pkg/notifx"
	"github.com/Abraxas-365/certmailer/pkg/textx"
)

// Renderer renders the subject and body of a campaign for each recipient.
// Both are parsed once; the body's authored line breaks become <br> and,
// unless raw values are enabled, substituted values are HTML-escaped in the
// body only.
type Renderer struct {
	subject *notifx.Template
	body    *notifx.Template
	raw     bool
}

// RenderOption configures a Renderer.
type RenderOption func(*Renderer)

// WithRawValues inserts field values into the body as-is, so a column can
// carry markup such as links.
func WithRawValues(raw bool) RenderOption {
	return func(r *Renderer) { r.raw = raw }
}

// NewRenderer parses t.
func NewRenderer(t campaign.Template, opts ...RenderOption) (*Renderer, error) {
	subject, err := notifx.Parse("subject", t.Subject)
	if err != nil {
		return nil, ErrInvalidTemplate(err, "subject")
	}
	body, err := notifx.Parse("body", BodyToHTML(t.Body))
	if err != nil {
		return nil, ErrInvalidTemplate(err, "body")
	}
	r := &Renderer{subject: subject, body: body}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Fields returns every placeholder used by the subject or the body, in
// order of first use.
func (r *Renderer) Fields() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range append(r.subject.Fields(), r.body.Fields()...) {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// Render sanitizes every field value and renders the subject and body with
// the same field map. A missing placeholder fails with
// notifx.ErrMissingField.
func (r *Renderer) Render(fields map[string]string) (subject, body string, err error) {
	clean := make(map[string]string, len(fields))
	for k, v := range fields {
		s, dropped := textx.Sanitize(v)
		if dropped > 0 {
			logx.WithFields(logx.Fields{
				"field":   k,
				"dropped": dropped,
			}).Warn("campaign: dropped invalid characters from field value")
		}
		clean[k] = s
	}

	subject, err = r.subject.Render(clean)
	if err != nil {
		return "", "", err
	}
	if r.raw {
		body, err = r.body.Render(clean)
	} else {
		body, err = r.body.RenderHTML(clean)
	}
	if err != nil {
		return "", "", err
	}
	return oneLine(subject), body, nil
}

// BodyToHTML normalizes exotic spaces and turns every authored newline into
// an HTML line break.
func BodyToHTML(body string) string {
	return strings.ReplaceAll(textx.NormalizeSpaces(body), "\n", "<br>")
}

// oneLine keeps a rendered subject on a single header line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
