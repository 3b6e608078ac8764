package campaign_test

import (
	"context"
	"testing"

	"github.com/Abraxas-365/certmailer/pkg/campaign"
	"github.com/Abraxas-365/certmailer/pkg/errx"
	"github.com/Abraxas-365/certmailer/pkg/fsx/fsxlocal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFiles_FiltersByRole(t *testing.T) {
	ctx := context.Background()
	fs, err := fsxlocal.NewLocalFileSystem(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.WriteFile(ctx, "certs/Ana.pdf", []byte("%PDF")))
	require.NoError(t, fs.WriteFile(ctx, "certs/Bo.png", []byte("png")))
	require.NoError(t, fs.WriteFile(ctx, "certs/readme.txt", []byte("ignore me")))
	require.NoError(t, fs.WriteFile(ctx, "certs/nested/Cy.pdf", []byte("%PDF")))

	got, err := campaign.LoadFiles(ctx, fs, "certs", campaign.RolePrimary)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Ana.pdf", got[0].Name)
	assert.Equal(t, []byte("%PDF"), got[0].Data)
	assert.Equal(t, campaign.RolePrimary, got[0].Role)
	assert.Equal(t, "Bo.png", got[1].Name)
}

func TestLoadFiles_MissingDir(t *testing.T) {
	fs, err := fsxlocal.NewLocalFileSystem(t.TempDir())
	require.NoError(t, err)

	_, err = campaign.LoadFiles(context.Background(), fs, "nope", campaign.RoleConstant)
	require.Error(t, err)
	assert.True(t, errx.HasCode(err, campaign.CodeFileRead))

	files, err := campaign.LoadFiles(context.Background(), fs, "", campaign.RoleConstant)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestRole_Accepts(t *testing.T) {
	assert.True(t, campaign.RolePrimary.Accepts("Ana.JPEG"))
	assert.False(t, campaign.RolePrimary.Accepts("guide.docx"))
	assert.True(t, campaign.RoleConstant.Accepts("guide.docx"))
	assert.False(t, campaign.RoleConstant.Accepts("script.exe"))
}

func TestFiles_Check(t *testing.T) {
	f := campaign.Files{Constant: []campaign.UploadedFile{{Name: "x.zip", Role: campaign.RoleConstant}}}
	err := f.Check()
	require.Error(t, err)
	assert.True(t, errx.HasCode(err, campaign.CodeDisallowedFile))
}

func TestSummary_Counts(t *testing.T) {
	var c campaign.Counts
	for _, k := range []campaign.OutcomeKind{campaign.Sent, campaign.Sent, campaign.SkippedNoAttachment, campaign.SkippedInvalidTemplate, campaign.Failed} {
		c.Add(k)
	}
	assert.Equal(t, 2, c.Sent)
	assert.Equal(t, 2, c.Skipped())
	assert.Equal(t, 5, c.Total())

	s := campaign.Summary{Outcomes: []campaign.Outcome{{Index: 1, Kind: campaign.Failed}, {Index: 0, Kind: campaign.Sent}}}
	assert.Len(t, s.ByKind(campaign.Failed), 1)
}
