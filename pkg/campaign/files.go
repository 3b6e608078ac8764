package campaign

import (
	"context"

	"github.com/Abraxas-365/certmailer/pkg/fsx"
	"github.com/Abraxas-365/certmailer/pkg/logx"
)

// LoadFiles reads every file directly under dir with the given role. Files
// whose extension is not allowed for the role are skipped with a warning,
// since a shared folder often holds unrelated files. An empty dir loads
// nothing.
func LoadFiles(ctx context.Context, fs fsx.PathReader, dir string, role Role) ([]UploadedFile, error) {
	if dir == "" {
		return nil, nil
	}

	entries, err := fs.List(ctx, dir)
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeFileRead, err).WithDetail("dir", dir)
	}

	var files []UploadedFile
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		if !role.Accepts(e.Name) {
			logx.WithFields(logx.Fields{
				"file": e.Name,
				"role": role,
			}).Warn("campaign: skipping file with disallowed extension")
			continue
		}
		data, err := fs.ReadFile(ctx, fs.Join(dir, e.Name))
		if err != nil {
			return nil, ErrRegistry.NewWithCause(CodeFileRead, err).WithDetail("file", e.Name)
		}
		files = append(files, UploadedFile{Name: e.Name, Data: data, Role: role})
	}
	return files, nil
}
