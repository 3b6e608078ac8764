package campaignsrv

import (
	"github.com/Abraxas-365/certmailer/pkg/campaign"
	"github.com/Abraxas-365/certmailer/pkg/fsx"
	"github.com/Abraxas-365/certmailer/pkg/notifx"
)

// Attachment converts an uploaded file into a notifx attachment under its
// original name. Unknown types are sent as application/octet-stream.
func Attachment(f campaign.UploadedFile) notifx.Attachment {
	return notifx.Attachment{
		Filename:    f.Name,
		ContentType: fsx.DetectContentType(f.Name, f.Data),
		Data:        f.Data,
	}
}

// ConstantAttachments converts the shared files once per campaign. The
// returned attachments share their byte slices and are never mutated, so
// every message may reference them.
func ConstantAttachments(files []campaign.UploadedFile) []notifx.Attachment {
	if len(files) == 0 {
		return nil
	}
	out := make([]notifx.Attachment, len(files))
	for i, f := range files {
		out[i] = Attachment(f)
	}
	return out
}

// BuildMessage composes the email for one recipient: HTML body, the matched
// certificate if any, then every constant attachment in upload order.
func BuildMessage(sender, to, subject, htmlBody string, primary *campaign.UploadedFile, constants []notifx.Attachment) notifx.EmailMessage {
	msg := notifx.EmailMessage{
		From:      sender,
		To:        to,
		Subject:   subject,
		HTMLBody:  htmlBody,
		Constants: constants,
	}
	if primary != nil {
		a := Attachment(*primary)
		msg.Primary = &a
	}
	return msg
}
