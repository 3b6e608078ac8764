package campaignsrv

import (
	"github.com/Abraxas-365/certmailer/pkg/campaign"
	"github.com/Abraxas-365/certmailer/pkg/logx"
	"github.com/Abraxas-365/certmailer/pkg/textx"
)

// Matcher finds the certificate for a recipient by exact NameKey equality
// between the recipient name and the file stem. Keys are computed once.
type Matcher struct {
	files []campaign.UploadedFile
	keys  []string
}

// NewMatcher indexes files in upload order. When two files share a key the
// first one wins and the clash is logged.
func NewMatcher(files []campaign.UploadedFile) *Matcher {
	m := &Matcher{
		files: files,
		keys:  make([]string, len(files)),
	}
	seen := make(map[string]string, len(files))
	for i, f := range files {
		key := textx.FileKey(f.Name)
		m.keys[i] = key
		if prev, ok := seen[key]; ok {
			logx.WithFields(logx.Fields{
				"key":     key,
				"kept":    prev,
				"ignored": f.Name,
			}).Warn("campaign: two certificates share a name key")
			continue
		}
		seen[key] = f.Name
	}
	return m
}

// Match returns the certificate for the recipient named name, or nil.
func (m *Matcher) Match(name string) *campaign.UploadedFile {
	return m.MatchKey(textx.NameKey(name))
}

// MatchKey returns the first file whose key equals key, or nil. An empty
// key never matches.
func (m *Matcher) MatchKey(key string) *campaign.UploadedFile {
	if key == "" {
		return nil
	}
	for i, k := range m.keys {
		if k == key {
			return &m.files[i]
		}
	}
	return nil
}

// MatchAttachment is the one-shot form of Matcher.MatchKey.
func MatchAttachment(files []campaign.UploadedFile, recipientKey string) *campaign.UploadedFile {
	return NewMatcher(files).MatchKey(recipientKey)
}
