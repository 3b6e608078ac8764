// Package notifxsmtp delivers notifx messages over an authenticated SMTP
// session. Port 587 uses opportunistic STARTTLS; port 465 uses implicit TLS.
package notifxsmtp

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/certmailer/pkg/logx"
	"github.com/Abraxas-365/certmailer/pkg/notifx"
	"github.com/wneessen/go-mail"
)

// Config holds the SMTP server settings. Username and Password are usually
// supplied per campaign via WithCredentials.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// DefaultConfig returns the Gmail submission settings.
func DefaultConfig() Config {
	return Config{
		Host:    "smtp.gmail.com",
		Port:    587,
		Timeout: 30 * time.Second,
	}
}

// client is the subset of *mail.Client a session needs.
type client interface {
	DialWithContext(ctx context.Context) error
	Send(msgs ...*mail.Msg) error
	Close() error
}

// Dialer opens authenticated SMTP sessions.
type Dialer struct {
	cfg       Config
	newClient func(cfg Config) (client, error)
}

var _ notifx.Dialer = (*Dialer)(nil)

// NewDialer creates a Dialer for cfg.
func NewDialer(cfg Config) *Dialer {
	return &Dialer{cfg: cfg, newClient: newMailClient}
}

// WithCredentials returns a copy of d that authenticates as username.
func (d *Dialer) WithCredentials(username, password string) *Dialer {
	cp := *d
	cp.cfg.Username = username
	cp.cfg.Password = password
	return &cp
}

// Config returns the dialer configuration with the password blanked.
func (d *Dialer) Config() Config {
	c := d.cfg
	c.Password = ""
	return c
}

// Dial connects and authenticates. The returned session is reused for every
// message of a campaign.
func (d *Dialer) Dial(ctx context.Context) (notifx.Session, error) {
	if d.cfg.Host == "" || d.cfg.Port <= 0 {
		return nil, smtpErrors.New(ErrConfig).
			WithDetail("host", d.cfg.Host).
			WithDetail("port", d.cfg.Port)
	}
	if d.cfg.Username == "" || d.cfg.Password == "" {
		return nil, smtpErrors.New(ErrConfig).WithDetail("reason", "missing credentials")
	}

	c, err := d.newClient(d.cfg)
	if err != nil {
		return nil, smtpErrors.NewWithCause(ErrConfig, err)
	}
	if err := c.DialWithContext(ctx); err != nil {
		return nil, smtpErrors.NewWithCause(ErrConnect, err).
			WithDetail("host", d.cfg.Host).
			WithDetail("port", d.cfg.Port).
			WithDetail("username", d.cfg.Username)
	}

	logx.WithFields(logx.Fields{
		"host":     d.cfg.Host,
		"port":     d.cfg.Port,
		"username": d.cfg.Username,
	}).Info("notifx/smtp: session opened")

	return &session{client: c, host: d.cfg.Host}, nil
}

func newMailClient(cfg Config) (client, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSLPort(false))
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSOpportunistic))
	}
	return mail.NewClient(cfg.Host, opts...)
}

type session struct {
	mu     sync.Mutex
	client client
	host   string
	closed bool
}

func (s *session) Send(ctx context.Context, msg notifx.EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := notifx.ToMsg(msg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return smtpErrors.New(ErrClosed)
	}

	if err := s.client.Send(m); err != nil {
		return smtpErrors.NewWithCause(ErrSendFailed, err).
			WithDetail("to", msg.To).
			WithDetail("host", s.host)
	}
	return nil
}

func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.client.Close(); err != nil {
		logx.Warnf("notifx/smtp: closing session: %v", err)
		return err
	}
	logx.Debug("notifx/smtp: session closed")
	return nil
}
