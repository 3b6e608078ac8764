package notifx

import "context"

// Session is an open, authenticated connection to a mail provider. A
// session is used by one goroutine at a time.
type Session interface {
	Send(ctx context.Context, msg EmailMessage) error
	Close() error
}

// Dialer opens sessions. Failing to dial is fatal for a campaign since no
// recipient can be reached without a session.
type Dialer interface {
	Dial(ctx context.Context) (Session, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context) (Session, error)

// Dial calls f(ctx).
func (f DialerFunc) Dial(ctx context.Context) (Session, error) { return f(ctx) }

// Validate checks the invariants every provider relies on.
func Validate(msg EmailMessage) error {
	if msg.To == "" {
		return ErrRegistry.New(ErrInvalidMessage).WithDetail("reason", "no recipient")
	}
	if msg.From == "" {
		return ErrRegistry.New(ErrInvalidMessage).WithDetail("reason", "no sender")
	}
	if msg.Subject == "" {
		return ErrRegistry.New(ErrInvalidMessage).WithDetail("reason", "empty subject")
	}
	return nil
}
