package campaignsrv

import (
	"github.com/Abraxas-365/certmailer/pkg/campaign"
	"github.com/Abraxas-365/certmailer/pkg/errx"
)

func ErrInvalidTemplate(cause error, part string) *errx.Error {
	return campaign.ErrRegistry.NewWithCause(campaign.CodeInvalidTemplate, cause).WithDetail("part", part)
}

func ErrSessionFailed(cause error) *errx.Error {
	return campaign.ErrRegistry.NewWithCause(campaign.CodeSessionFailed, cause)
}

func ErrCancelled(cause error, remaining int) *errx.Error {
	return campaign.ErrRegistry.NewWithCause(campaign.CodeCancelled, cause).WithDetail("remaining", remaining)
}

func ErrRunLog(cause error, dir string) *errx.Error {
	return campaign.ErrRegistry.NewWithCause(campaign.CodeRunLog, cause).WithDetail("dir", dir)
}
