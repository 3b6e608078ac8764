// Package notifxses delivers notifx messages with the SES SendRawEmail API,
// which preserves attachments.
package notifxses

import (
	"context"
	"sync"

	"github.com/Abraxas-365/certmailer/pkg/logx"
	"github.com/Abraxas-365/certmailer/pkg/notifx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// API is the subset of *ses.Client used here.
type API interface {
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

// Dialer hands out sessions backed by one SES client. SES is stateless, so
// dialing never touches the network.
type Dialer struct {
	client API
}

var _ notifx.Dialer = (*Dialer)(nil)

// NewDialer creates an SES dialer.
func NewDialer(client API) *Dialer {
	return &Dialer{client: client}
}

func (d *Dialer) Dial(ctx context.Context) (notifx.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &session{client: d.client}, nil
}

type session struct {
	client API
	mu     sync.Mutex
	closed bool
}

func (s *session) Send(ctx context.Context, msg notifx.EmailMessage) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return sesErrors.New(ErrClosed)
	}

	raw, err := notifx.RawMIME(msg)
	if err != nil {
		return err
	}

	out, err := s.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(msg.From),
		Destinations: []string{msg.To},
		RawMessage:   &types.RawMessage{Data: raw},
	})
	if err != nil {
		return sesErrors.NewWithCause(ErrSendFailed, err).WithDetail("to", msg.To)
	}

	logx.WithFields(logx.Fields{
		"to":         msg.To,
		"message_id": aws.ToString(out.MessageId),
	}).Debug("notifx/ses: raw email sent")
	return nil
}

func (s *session) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
