package campaignsrv_test

import (
	"testing"

	"github.com/Abraxas-365/certmailer/pkg/campaign"
	"github.com/Abraxas-365/certmailer/pkg/campaign/campaignsrv"
	"github.com/Abraxas-365/certmailer/pkg/textx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func files(names ...string) []campaign.UploadedFile {
	out := make([]campaign.UploadedFile, len(names))
	for i, n := range names {
		out[i] = campaign.UploadedFile{Name: n, Role: campaign.RolePrimary}
	}
	return out
}

func TestMatchAttachment_NormalizedEquality(t *testing.T) {
	fs := files("Bo.png", "John_Doe.pdf", "maria-lopez.jpg")

	got := campaignsrv.MatchAttachment(fs, textx.NameKey("  JOHN   doe "))
	require.NotNil(t, got)
	assert.Equal(t, "John_Doe.pdf", got.Name)

	got = campaignsrv.MatchAttachment(fs, textx.NameKey("Maria Lopez"))
	require.NotNil(t, got)
	assert.Equal(t, "maria-lopez.jpg", got.Name)
}

func TestMatchAttachment_NoSubstringMatch(t *testing.T) {
	fs := files("Anabel.pdf", "Ana Maria.pdf")

	assert.Nil(t, campaignsrv.MatchAttachment(fs, textx.NameKey("Ana")))
	assert.Nil(t, campaignsrv.MatchAttachment(fs, textx.NameKey("Anabel Smith")))

	got := campaignsrv.MatchAttachment(fs, textx.NameKey("ana maria"))
	require.NotNil(t, got)
	assert.Equal(t, "Ana Maria.pdf", got.Name)
}

func TestMatcher_FirstFileWins(t *testing.T) {
	m := campaignsrv.NewMatcher(files("Ana.pdf", "ANA.png"))
	got := m.Match("ana")
	require.NotNil(t, got)
	assert.Equal(t, "Ana.pdf", got.Name)
}

func TestMatcher_EmptyKeyNeverMatches(t *testing.T) {
	m := campaignsrv.NewMatcher(files(".pdf", "_.png"))
	assert.Nil(t, m.Match("   "))
}
