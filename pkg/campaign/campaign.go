// Package campaign holds the types of a bulk certificate mailing: uploaded
// files, the send policy, per-recipient outcomes and the run summary.
package campaign

import (
	"sort"
	"time"

	"github.com/Abraxas-365/certmailer/pkg/recipients"
	"github.com/Abraxas-365/certmailer/pkg/textx"
)

// Role says how an uploaded file is used.
type Role string

const (
	// RolePrimary files are matched to one recipient by name.
	RolePrimary Role = "primary"
	// RoleConstant files are sent to every recipient.
	RoleConstant Role = "constant"
)

var allowed = map[Role][]string{
	RolePrimary:  {"pdf", "jpg", "jpeg", "png"},
	RoleConstant: {"pdf", "docx", "png", "jpg", "jpeg"},
}

// Allowed returns the file extensions accepted for r.
func (r Role) Allowed() []string {
	return append([]string(nil), allowed[r]...)
}

// Accepts reports whether filename has an extension allowed for r.
func (r Role) Accepts(filename string) bool {
	ext := textx.Ext(filename)
	for _, a := range allowed[r] {
		if a == ext {
			return true
		}
	}
	return false
}

// UploadedFile is a named blob owned by one run. Data is read fully once so
// constant attachments can be attached to every message.
type UploadedFile struct {
	Name string `json:"name"`
	Data []byte `json:"-"`
	Role Role   `json:"role"`
}

// Files groups the uploads of a run.
type Files struct {
	Primary  []UploadedFile
	Constant []UploadedFile
}

// Check rejects any file whose extension is not allowed for its role.
func (f Files) Check() error {
	for _, set := range [][]UploadedFile{f.Primary, f.Constant} {
		for _, u := range set {
			if !u.Role.Accepts(u.Name) {
				return ErrDisallowedFile(u.Name, u.Role)
			}
		}
	}
	return nil
}

// Template is the authored subject and body with {field} placeholders.
type Template struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Request is everything a run needs besides the transport.
type Request struct {
	Sender     string
	Recipients []recipients.Row
	Files      Files
	Template   Template
}

// Policy controls skip, retry, pacing and rendering behavior.
type Policy struct {
	RequireAttachment bool
	MaxAttempts       int
	RetryDelay        time.Duration
	PacingDelay       time.Duration
	// RawValues inserts sheet values into the HTML body unescaped.
	RawValues bool
}

// DefaultPolicy mirrors the historical behavior: skip recipients without a
// certificate, three attempts two seconds apart, one second between sends.
func DefaultPolicy() Policy {
	return Policy{
		RequireAttachment: true,
		MaxAttempts:       3,
		RetryDelay:        2 * time.Second,
		PacingDelay:       time.Second,
	}
}

// OutcomeKind is the terminal classification of one recipient.
type OutcomeKind string

const (
	Sent                   OutcomeKind = "sent"
	SkippedNoAttachment    OutcomeKind = "skipped_no_attachment"
	SkippedInvalidTemplate OutcomeKind = "skipped_invalid_template"
	Failed                 OutcomeKind = "failed"
)

// Skipped reports whether k is one of the skip kinds.
func (k OutcomeKind) Skipped() bool {
	return k == SkippedNoAttachment || k == SkippedInvalidTemplate
}

// Outcome is the result for one recipient. Attempts is zero for skipped
// recipients.
type Outcome struct {
	Index      int         `json:"index"`
	Row        int         `json:"row"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Kind       OutcomeKind `json:"kind"`
	Attachment string      `json:"attachment,omitempty"`
	Attempts   int         `json:"attempts"`
	Reason     string      `json:"reason,omitempty"`
}

// Counts aggregates outcomes per kind.
type Counts struct {
	Sent                   int `json:"sent"`
	SkippedNoAttachment    int `json:"skipped_no_attachment"`
	SkippedInvalidTemplate int `json:"skipped_invalid_template"`
	Failed                 int `json:"failed"`
}

// Skipped is the total of both skip kinds.
func (c Counts) Skipped() int { return c.SkippedNoAttachment + c.SkippedInvalidTemplate }

// Total is the number of recipients with an outcome.
func (c Counts) Total() int { return c.Sent + c.Skipped() + c.Failed }

// Add counts one outcome.
func (c *Counts) Add(k OutcomeKind) {
	switch k {
	case Sent:
		c.Sent++
	case SkippedNoAttachment:
		c.SkippedNoAttachment++
	case SkippedInvalidTemplate:
		c.SkippedInvalidTemplate++
	case Failed:
		c.Failed++
	}
}

// Summary is the report of one run. A cancelled run still returns the
// outcomes produced so far; Remaining counts recipients never reached.
type Summary struct {
	RunID      string               `json:"run_id"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Outcomes   []Outcome            `json:"outcomes"`
	Counts     Counts               `json:"counts"`
	Remaining  int                  `json:"remaining"`
	Cancelled  bool                 `json:"cancelled"`
	LogFile    string               `json:"log_file,omitempty"`
	Invalid    []recipients.Invalid `json:"invalid,omitempty"`
}

// ByKind returns the outcomes of kind k in recipient order.
func (s *Summary) ByKind(k OutcomeKind) []Outcome {
	var out []Outcome
	for _, o := range s.Outcomes {
		if o.Kind == k {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Progress is reported after each recipient.
type Progress struct {
	Done    int
	Total   int
	Outcome Outcome
}
