package notifx

import (
	"bytes"

	"github.com/wneessen/go-mail"
)

// ToMsg converts msg into a go-mail message with an HTML body and every
// attachment in order.
func ToMsg(msg EmailMessage) (*mail.Msg, error) {
	if err := Validate(msg); err != nil {
		return nil, err
	}

	m := mail.NewMsg(mail.WithCharset(mail.CharsetUTF8))
	if err := m.From(msg.From); err != nil {
		return nil, ErrRegistry.NewWithCause(ErrInvalidMessage, err).WithDetail("from", msg.From)
	}
	if err := m.To(msg.To); err != nil {
		return nil, ErrRegistry.NewWithCause(ErrInvalidMessage, err).WithDetail("to", msg.To)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)

	for _, a := range msg.Attachments() {
		ct := a.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		err := m.AttachReader(a.Filename, bytes.NewReader(a.Data),
			mail.WithFileContentType(mail.ContentType(ct)))
		if err != nil {
			return nil, ErrRegistry.NewWithCause(ErrBuildMIME, err).WithDetail("attachment", a.Filename)
		}
	}

	return m, nil
}

// RawMIME renders msg as RFC 5322 bytes, as needed by raw-send APIs.
func RawMIME(msg EmailMessage) ([]byte, error) {
	m, err := ToMsg(msg)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, ErrRegistry.NewWithCause(ErrBuildMIME, err)
	}
	return buf.Bytes(), nil
}
