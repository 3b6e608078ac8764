// Package notifxconsole is a dry-run transport: messages are logged through
// logx and kept in memory instead of being delivered.
package notifxconsole

import (
	"context"
	"sync"

	"github.com/Abraxas-365/certmailer/pkg/logx"
	"github.com/Abraxas-365/certmailer/pkg/notifx"
)

// Dialer opens console sessions. All sessions share one outbox.
type Dialer struct {
	mu     sync.Mutex
	outbox []notifx.EmailMessage
	dials  int
}

var _ notifx.Dialer = (*Dialer)(nil)

// NewDialer creates a console dialer.
func NewDialer() *Dialer {
	return &Dialer{}
}

func (d *Dialer) Dial(ctx context.Context) (notifx.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.dials++
	d.mu.Unlock()
	logx.Info("notifx/console: session opened (dry run)")
	return &session{d: d}, nil
}

// Outbox returns a copy of every message sent so far.
func (d *Dialer) Outbox() []notifx.EmailMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notifx.EmailMessage(nil), d.outbox...)
}

// Dials reports how many sessions were opened.
func (d *Dialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

type session struct {
	d *Dialer
}

func (s *session) Send(ctx context.Context, msg notifx.EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := notifx.Validate(msg); err != nil {
		return err
	}

	names := make([]string, 0, len(msg.Constants)+1)
	for _, a := range msg.Attachments() {
		names = append(names, a.Filename)
	}
	logx.WithFields(logx.Fields{
		"from":        msg.From,
		"to":          msg.To,
		"subject":     msg.Subject,
		"attachments": names,
	}).Info("notifx/console: email sent (dry run)")
	logx.Debugf("notifx/console: html body:\n%s", msg.HTMLBody)

	s.d.mu.Lock()
	s.d.outbox = append(s.d.outbox, msg)
	s.d.mu.Unlock()
	return nil
}

func (s *session) Close() error { return nil }
