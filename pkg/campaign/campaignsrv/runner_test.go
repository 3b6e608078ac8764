package campaignsrv_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Abraxas-365/certmailer/pkg/campaign"
	"github.com/Abraxas-365/certmailer/pkg/campaign/campaignsrv"
	"github.com/Abraxas-365/certmailer/pkg/errx"
	"github.com/Abraxas-365/certmailer/pkg/notifx"
	"github.com/Abraxas-365/certmailer/pkg/recipients"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedDialer hands out one shared session whose Send results are
// scripted per recipient address.
type scriptedDialer struct {
	mu       sync.Mutex
	dialErr  error
	dials    int
	failures map[string]int
	calls    map[string]int
	sent     []notifx.EmailMessage
	closed   int
}

func newDialer() *scriptedDialer {
	return &scriptedDialer{failures: map[string]int{}, calls: map[string]int{}}
}

func (d *scriptedDialer) Dial(ctx context.Context) (notifx.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	if d.dialErr != nil {
		return nil, d.dialErr
	}
	return &scriptedSession{d: d}, nil
}

type scriptedSession struct{ d *scriptedDialer }

func (s *scriptedSession) Send(_ context.Context, msg notifx.EmailMessage) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	s.d.calls[msg.To]++
	if s.d.calls[msg.To] <= s.d.failures[msg.To] {
		return errors.New("421 service not available")
	}
	s.d.sent = append(s.d.sent, msg)
	return nil
}

func (s *scriptedSession) Close() error {
	s.d.mu.Lock()
	s.d.closed++
	s.d.mu.Unlock()
	return nil
}

type recordingSleeper struct {
	delays []time.Duration
	cancel context.CancelFunc
	after  int
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	if r.cancel != nil && len(r.delays) == r.after {
		r.cancel()
	}
	return ctx.Err()
}

func (r *recordingSleeper) count(d time.Duration) int {
	n := 0
	for _, x := range r.delays {
		if x == d {
			n++
		}
	}
	return n
}

func row(n int, name, email string) recipients.Row {
	return recipients.Row{
		Number: n,
		Name:   name,
		Email:  email,
		Fields: map[string]string{"name": name, "email": email},
	}
}

func request(rows ...recipients.Row) campaign.Request {
	return campaign.Request{
		Sender:     "sender@example.com",
		Recipients: rows,
		Files: campaign.Files{
			Primary: []campaign.UploadedFile{{Name: "Ana.pdf", Data: []byte("%PDF-1.4"), Role: campaign.RolePrimary}},
		},
		Template: campaign.Template{Subject: "Certificate for {name}", Body: "Hello {name}"},
	}
}

func newRunner(s *recordingSleeper, mutate ...func(*campaign.Policy)) *campaignsrv.Runner {
	p := campaign.DefaultPolicy()
	for _, m := range mutate {
		m(&p)
	}
	return campaignsrv.NewRunner(p, campaignsrv.WithSleeper(s.Sleep), campaignsrv.WithRunID(func() string { return "run-1" }))
}

func TestRun_SendsMatchedAndSkipsUnmatched(t *testing.T) {
	d := newDialer()
	s := &recordingSleeper{}

	sum, err := newRunner(s).Run(context.Background(), d, request(row(2, "Ana", "a@x.com"), row(3, "Bo", "b@x.com")), nil)
	require.NoError(t, err)

	require.Len(t, sum.Outcomes, 2)
	assert.Equal(t, campaign.Sent, sum.Outcomes[0].Kind)
	assert.Equal(t, "Ana.pdf", sum.Outcomes[0].Attachment)
	assert.Equal(t, campaign.SkippedNoAttachment, sum.Outcomes[1].Kind)
	assert.Equal(t, 1, sum.Counts.Sent)
	assert.Equal(t, 1, sum.Counts.SkippedNoAttachment)
	assert.Zero(t, sum.Remaining)
	assert.Equal(t, "run-1", sum.RunID)

	require.Len(t, d.sent, 1)
	require.NotNil(t, d.sent[0].Primary)
	assert.Equal(t, "Ana.pdf", d.sent[0].Primary.Filename)
	assert.Equal(t, "application/pdf", d.sent[0].Primary.ContentType)
	assert.Equal(t, "Certificate for Ana", d.sent[0].Subject)
	assert.Equal(t, 1, d.closed)
}

func TestRun_RetriesTransientFailure(t *testing.T) {
	d := newDialer()
	d.failures["a@x.com"] = 2
	s := &recordingSleeper{}

	req := request(row(2, "Ana", "a@x.com"), row(3, "Ana", "a2@x.com"))
	sum, err := newRunner(s).Run(context.Background(), d, req, nil)
	require.NoError(t, err)

	assert.Equal(t, campaign.Sent, sum.Outcomes[0].Kind)
	assert.Equal(t, 3, sum.Outcomes[0].Attempts)
	assert.Equal(t, campaign.Sent, sum.Outcomes[1].Kind)
	assert.Equal(t, 1, sum.Outcomes[1].Attempts)
	assert.Equal(t, 2, s.count(2*time.Second))
	assert.Equal(t, 1, s.count(time.Second), "pacing only between sends")
}

func TestRun_FailureAfterRetriesReusesSession(t *testing.T) {
	d := newDialer()
	d.failures["a@x.com"] = 3
	s := &recordingSleeper{}

	req := request(row(2, "Ana", "a@x.com"), row(3, "Ana", "next@x.com"))
	sum, err := newRunner(s).Run(context.Background(), d, req, nil)
	require.NoError(t, err)

	assert.Equal(t, campaign.Failed, sum.Outcomes[0].Kind)
	assert.Equal(t, 3, sum.Outcomes[0].Attempts)
	assert.Contains(t, sum.Outcomes[0].Reason, "421")
	assert.Equal(t, campaign.Sent, sum.Outcomes[1].Kind)
	assert.Equal(t, 1, d.dials)
	assert.Equal(t, 1, d.closed)
	assert.Equal(t, 3, d.calls["a@x.com"])
}

func TestRun_MissingFieldSkipsWithoutRetry(t *testing.T) {
	d := newDialer()
	s := &recordingSleeper{}
	req := request(row(2, "Ana", "a@x.com"))
	req.Template.Body = "Hello {name}, course {course}"

	sum, err := newRunner(s).Run(context.Background(), d, req, nil)
	require.NoError(t, err)

	require.Len(t, sum.Outcomes, 1)
	assert.Equal(t, campaign.SkippedInvalidTemplate, sum.Outcomes[0].Kind)
	assert.Contains(t, sum.Outcomes[0].Reason, "course")
	assert.Zero(t, sum.Outcomes[0].Attempts)
	assert.Empty(t, d.sent)
	assert.Empty(t, s.delays)
}

func TestRun_EmptyRenderedSubjectSkipsWithoutRetry(t *testing.T) {
	d := newDialer()
	s := &recordingSleeper{}
	r := row(2, "Ana", "a@x.com")
	r.Fields["course"] = ""
	req := request(r)
	req.Template.Subject = "{course}"

	sum, err := newRunner(s).Run(context.Background(), d, req, nil)
	require.NoError(t, err)

	require.Len(t, sum.Outcomes, 1)
	assert.Equal(t, campaign.SkippedInvalidTemplate, sum.Outcomes[0].Kind)
	assert.Equal(t, "empty subject", sum.Outcomes[0].Reason)
	assert.Zero(t, sum.Outcomes[0].Attempts)
	assert.Zero(t, d.calls["a@x.com"])
	assert.Empty(t, s.delays)
	assert.Equal(t, 1, sum.Counts.SkippedInvalidTemplate)
}

func TestRun_WithoutCertificatePolicy(t *testing.T) {
	d := newDialer()
	s := &recordingSleeper{}
	req := request(row(2, "Bo", "b@x.com"))
	req.Files.Constant = []campaign.UploadedFile{{Name: "guide.docx", Data: []byte("PK\x03\x04"), Role: campaign.RoleConstant}}

	sum, err := newRunner(s, func(p *campaign.Policy) { p.RequireAttachment = false }).Run(context.Background(), d, req, nil)
	require.NoError(t, err)

	assert.Equal(t, campaign.Sent, sum.Outcomes[0].Kind)
	require.Len(t, d.sent, 1)
	assert.Nil(t, d.sent[0].Primary)
	require.Len(t, d.sent[0].Constants, 1)
	assert.Equal(t, "guide.docx", d.sent[0].Constants[0].Filename)
}

func TestRun_RawValuesPolicy(t *testing.T) {
	d := newDialer()
	r := row(2, "Ana", "a@x.com")
	r.Fields["link"] = `<a href="https://x.test">here</a>`
	req := request(r)
	req.Template.Body = "Get it {link}"

	_, err := newRunner(&recordingSleeper{}, func(p *campaign.Policy) { p.RawValues = true }).Run(context.Background(), d, req, nil)
	require.NoError(t, err)

	require.Len(t, d.sent, 1)
	assert.Equal(t, `Get it <a href="https://x.test">here</a>`, d.sent[0].HTMLBody)
}

func TestRun_DialFailureIsFatal(t *testing.T) {
	d := newDialer()
	d.dialErr = errors.New("535 bad credentials")

	sum, err := newRunner(&recordingSleeper{}).Run(context.Background(), d, request(row(2, "Ana", "a@x.com")), nil)
	require.Error(t, err)
	assert.True(t, errx.HasCode(err, campaign.CodeSessionFailed))
	assert.Empty(t, sum.Outcomes)
	assert.Equal(t, 1, sum.Remaining)
	assert.Zero(t, d.closed)
}

func TestRun_RejectsInvalidRequest(t *testing.T) {
	r := newRunner(&recordingSleeper{})
	d := newDialer()

	req := request(row(2, "Ana", "a@x.com"))
	req.Sender = "nope"
	_, err := r.Run(context.Background(), d, req, nil)
	assert.True(t, errx.HasCode(err, campaign.CodeInvalidSender))

	_, err = r.Run(context.Background(), d, request(), nil)
	assert.True(t, errx.HasCode(err, campaign.CodeNoRecipients))

	req = request(row(2, "Ana", "a@x.com"))
	req.Files.Primary = nil
	_, err = r.Run(context.Background(), d, req, nil)
	assert.True(t, errx.HasCode(err, campaign.CodeNoCertificates))

	req = request(row(2, "Ana", "a@x.com"))
	req.Files.Primary[0].Name = "Ana.exe"
	_, err = r.Run(context.Background(), d, req, nil)
	assert.True(t, errx.HasCode(err, campaign.CodeDisallowedFile))

	req = request(row(2, "Ana", "a@x.com"))
	req.Template.Subject = "Hi {name"
	_, err = r.Run(context.Background(), d, req, nil)
	assert.True(t, errx.HasCode(err, campaign.CodeInvalidTemplate))

	assert.Zero(t, d.dials)
}

func TestRun_CancelBetweenRecipients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := &recordingSleeper{cancel: cancel, after: 1}
	d := newDialer()

	req := request(row(2, "Ana", "a@x.com"), row(3, "Ana", "b@x.com"), row(4, "Ana", "c@x.com"))
	sum, err := newRunner(s).Run(ctx, d, req, nil)
	require.Error(t, err)
	assert.True(t, errx.HasCode(err, campaign.CodeCancelled))
	assert.True(t, sum.Cancelled)
	assert.Len(t, sum.Outcomes, 1)
	assert.Equal(t, 2, sum.Remaining)
	assert.Equal(t, 1, d.closed)
}

func TestRun_Deterministic(t *testing.T) {
	req := request(row(2, "Ana", "a@x.com"), row(3, "Bo", "b@x.com"), row(4, "ana", "c@x.com"))
	kinds := func() []campaign.OutcomeKind {
		sum, err := newRunner(&recordingSleeper{}).Run(context.Background(), newDialer(), req, nil)
		require.NoError(t, err)
		var out []campaign.OutcomeKind
		for _, o := range sum.Outcomes {
			out = append(out, o.Kind)
		}
		return out
	}
	first := kinds()
	assert.Equal(t, first, kinds())
	assert.Equal(t, []campaign.OutcomeKind{campaign.Sent, campaign.SkippedNoAttachment, campaign.Sent}, first)
}

func TestRun_ProgressAndRunLog(t *testing.T) {
	dir := t.TempDir()
	started := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	r := campaignsrv.NewRunner(campaign.DefaultPolicy(),
		campaignsrv.WithSleeper((&recordingSleeper{}).Sleep),
		campaignsrv.WithClock(func() time.Time { return started }),
		campaignsrv.WithRunLogDir(dir),
	)

	var progress []campaign.Progress
	sum, err := r.Run(context.Background(), newDialer(), request(row(2, "Ana", "a@x.com"), row(3, "Bo", "b@x.com")), func(p campaign.Progress) {
		progress = append(progress, p)
	})
	require.NoError(t, err)

	require.Len(t, progress, 2)
	assert.Equal(t, 2, progress[1].Done)
	assert.Equal(t, 2, progress[1].Total)

	assert.Equal(t, filepath.Join(dir, "email_log_20240506_070809_run-1.txt"), sum.LogFile)
	data, err := os.ReadFile(sum.LogFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "INFO - Mail session established")
	assert.Contains(t, lines[1], "Email sent to a@x.com")
	assert.Contains(t, lines[2], "WARN - Skipped Bo <b@x.com>")
	assert.Contains(t, lines[3], "Campaign finished: sent=1 skipped=1 failed=0 remaining=0")
}
