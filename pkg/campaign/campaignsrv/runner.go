// Package campaignsrv runs a certificate campaign: it matches each
// recipient to a certificate, renders the templates, builds the message and
// sends it over one transport session with bounded retries.
package campaignsrv

import (
	"context"
	"fmt"
	"time"

	"github.com/Abraxas-365/certmailer/pkg/asyncx"
	"github.com/Abraxas-365/certmailer/pkg/campaign"
	"github.com/Abraxas-365/certmailer/pkg/errx"
	"github.com/Abraxas-365/certmailer/pkg/logx"
	"github.com/Abraxas-365/certmailer/pkg/notifx"
	"github.com/Abraxas-365/certmailer/pkg/recipients"
	"github.com/Abraxas-365/certmailer/pkg/textx"
	"github.com/google/uuid"
)

// Runner executes campaigns sequentially. A Runner holds no per-run state
// and may be shared.
type Runner struct {
	policy  campaign.Policy
	sleep   asyncx.Sleeper
	now     func() time.Time
	newID   func() string
	logDir  string
	openLog func(dir string, t time.Time, runID string) (*logx.Logger, string, error)
}

// Option configures a Runner.
type Option func(*Runner)

// WithSleeper replaces the real clock used for retry and pacing delays.
func WithSleeper(s asyncx.Sleeper) Option {
	return func(r *Runner) { r.sleep = s }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithRunLogDir writes one run log file per campaign into dir. Without it
// run events are discarded.
func WithRunLogDir(dir string) Option {
	return func(r *Runner) { r.logDir = dir }
}

// WithRunID replaces the uuid generator for run ids.
func WithRunID(gen func() string) Option {
	return func(r *Runner) { r.newID = gen }
}

// NewRunner creates a Runner with policy.
func NewRunner(policy campaign.Policy, opts ...Option) *Runner {
	r := &Runner{
		policy:  policy,
		sleep:   asyncx.Sleep,
		now:     time.Now,
		newID:   uuid.NewString,
		openLog: logx.NewRunLog,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy returns the runner's policy.
func (r *Runner) Policy() campaign.Policy { return r.policy }

// WithPolicy returns a copy of r using p.
func (r *Runner) WithPolicy(p campaign.Policy) *Runner {
	cp := *r
	cp.policy = p
	return &cp
}

// Validate checks a request before anything is dialed.
func (r *Runner) Validate(req campaign.Request) error {
	if !textx.IsValidEmail(req.Sender) {
		return campaign.ErrInvalidSender(req.Sender)
	}
	if len(req.Recipients) == 0 {
		return campaign.ErrNoRecipients()
	}
	if req.Template.Subject == "" || req.Template.Body == "" {
		return campaign.ErrEmptyTemplate()
	}
	if r.policy.RequireAttachment && len(req.Files.Primary) == 0 {
		return campaign.ErrNoCertificates()
	}
	return req.Files.Check()
}

// Run sends the campaign described by req through one session opened from
// dialer. Recipients are processed in order. Per-recipient problems become
// outcomes and never stop the run.
//
// The returned error is fatal: an invalid request, a session that cannot be
// opened, or cancellation of ctx. The summary is returned even then and
// holds every outcome produced before the run stopped.
func (r *Runner) Run(ctx context.Context, dialer notifx.Dialer, req campaign.Request, onProgress func(campaign.Progress)) (*campaign.Summary, error) {
	summary := &campaign.Summary{
		RunID:     r.newID(),
		StartedAt: r.now(),
		Outcomes:  make([]campaign.Outcome, 0, len(req.Recipients)),
		Remaining: len(req.Recipients),
	}
	finish := func() { summary.FinishedAt = r.now() }

	if err := r.Validate(req); err != nil {
		finish()
		return summary, err
	}
	renderer, err := NewRenderer(req.Template, WithRawValues(r.policy.RawValues))
	if err != nil {
		finish()
		return summary, err
	}

	runLog := logx.Discard()
	if r.logDir != "" {
		l, path, err := r.openLog(r.logDir, summary.StartedAt, summary.RunID)
		if err != nil {
			finish()
			return summary, ErrRunLog(err, r.logDir)
		}
		runLog, summary.LogFile = l, path
	}
	defer runLog.Close()

	if err := ctx.Err(); err != nil {
		finish()
		summary.Cancelled = true
		return summary, ErrCancelled(err, summary.Remaining)
	}

	session, err := dialer.Dial(ctx)
	if err != nil {
		runLog.WithError(err).Error("Failed to open mail session")
		logx.WithError(err).Error("campaign: failed to open mail session")
		finish()
		return summary, ErrSessionFailed(err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			runLog.Warnf("Closing mail session: %v", err)
		}
	}()
	runLog.Infof("Mail session established for %s", req.Sender)

	st := &run{
		Runner:    r,
		req:       req,
		session:   session,
		renderer:  renderer,
		matcher:   NewMatcher(req.Files.Primary),
		constants: ConstantAttachments(req.Files.Constant),
		log:       runLog,
	}

	total := len(req.Recipients)
	var fatal error
	for i, row := range req.Recipients {
		if err := ctx.Err(); err != nil {
			fatal = err
			break
		}

		outcome, ok := st.process(ctx, i, row)
		if !ok {
			fatal = ctx.Err()
			break
		}

		summary.Outcomes = append(summary.Outcomes, outcome)
		summary.Counts.Add(outcome.Kind)
		summary.Remaining = total - (i + 1)
		if onProgress != nil {
			onProgress(campaign.Progress{Done: i + 1, Total: total, Outcome: outcome})
		}

		if outcome.Kind == campaign.Sent && i < total-1 {
			if err := r.sleep(ctx, r.policy.PacingDelay); err != nil {
				fatal = err
				break
			}
		}
	}

	finish()
	c := summary.Counts
	runLog.Infof("Campaign finished: sent=%d skipped=%d failed=%d remaining=%d",
		c.Sent, c.Skipped(), c.Failed, summary.Remaining)
	logx.WithFields(logx.Fields{
		"run_id":    summary.RunID,
		"sent":      c.Sent,
		"skipped":   c.Skipped(),
		"failed":    c.Failed,
		"remaining": summary.Remaining,
		"duration":  summary.FinishedAt.Sub(summary.StartedAt).String(),
	}).Info("campaign: run finished")

	if fatal != nil {
		summary.Cancelled = true
		runLog.Warnf("Campaign cancelled with %d recipients remaining", summary.Remaining)
		return summary, ErrCancelled(fatal, summary.Remaining)
	}
	return summary, nil
}

type run struct {
	*Runner
	req       campaign.Request
	session   notifx.Session
	renderer  *Renderer
	matcher   *Matcher
	constants []notifx.Attachment
	log       *logx.Logger
}

// process takes one recipient through matching, rendering and sending. It
// reports false only when ctx was cancelled before the recipient reached a
// terminal state.
func (st *run) process(ctx context.Context, index int, row recipients.Row) (campaign.Outcome, bool) {
	out := campaign.Outcome{
		Index: index,
		Row:   row.Number,
		Name:  row.Name,
		Email: row.Email,
	}

	primary := st.matcher.Match(row.Name)
	if primary == nil && st.policy.RequireAttachment {
		out.Kind = campaign.SkippedNoAttachment
		out.Reason = fmt.Sprintf("no certificate matches %q", row.Name)
		st.log.Warnf("Skipped %s <%s>: %s", row.Name, row.Email, out.Reason)
		return out, true
	}
	if primary != nil {
		out.Attachment = primary.Name
	}

	subject, body, err := st.renderer.Render(row.Fields)
	if err != nil {
		out.Kind = campaign.SkippedInvalidTemplate
		out.Reason = templateReason(err)
		st.log.Warnf("Skipped %s <%s>: %s", row.Name, row.Email, out.Reason)
		return out, true
	}

	msg := BuildMessage(st.req.Sender, row.Email, subject, body, primary, st.constants)
	if err := notifx.Validate(msg); err != nil {
		out.Kind = campaign.SkippedInvalidTemplate
		out.Reason = templateReason(err)
		st.log.Warnf("Skipped %s <%s>: %s", row.Name, row.Email, out.Reason)
		return out, true
	}

	res := asyncx.Retry(ctx, asyncx.RetryPolicy{
		Attempts: st.policy.MaxAttempts,
		Delay:    st.policy.RetryDelay,
		Sleep:    st.sleep,
		OnFailure: func(attempt int, err error) {
			st.log.Warnf("Attempt %d/%d to %s failed: %v", attempt, max(st.policy.MaxAttempts, 1), row.Email, err)
		},
	}, func(ctx context.Context, _ int) error {
		return st.session.Send(ctx, msg)
	})
	out.Attempts = res.Attempts

	if res.OK() {
		out.Kind = campaign.Sent
		st.log.Infof("Email sent to %s (%s)", row.Email, row.Name)
		return out, true
	}
	if ctx.Err() != nil {
		return out, false
	}

	out.Kind = campaign.Failed
	out.Reason = res.Err.Error()
	st.log.Errorf("Failed to send to %s after %d attempts: %v", row.Email, res.Attempts, res.Err)
	return out, true
}

func templateReason(err error) string {
	var e *errx.Error
	if errx.As(err, &e) {
		if fields, ok := e.Details["fields"].([]string); ok {
			return fmt.Sprintf("template references missing fields %v", fields)
		}
		if reason, ok := e.Details["reason"].(string); ok {
			return reason
		}
		return e.Message
	}
	return err.Error()
}
