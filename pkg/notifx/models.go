package notifx

// EmailMessage is a fully composed personalized email: one sender, one
// recipient, a rendered subject and HTML body, at most one primary
// attachment and any number of constant attachments. It is not modified
// after it has been built.
type EmailMessage struct {
	From      string       `json:"from"`
	To        string       `json:"to"`
	Subject   string       `json:"subject"`
	HTMLBody  string       `json:"html_body"`
	Primary   *Attachment  `json:"primary,omitempty"`
	Constants []Attachment `json:"constants,omitempty"`
}

// Attachments returns the primary attachment, if any, followed by the
// constant attachments in order.
func (m EmailMessage) Attachments() []Attachment {
	out := make([]Attachment, 0, len(m.Constants)+1)
	if m.Primary != nil {
		out = append(out, *m.Primary)
	}
	return append(out, m.Constants...)
}

// Attachment represents an email attachment.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}
