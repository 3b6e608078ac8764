package recipients

import "github.com/Abraxas-365/certmailer/pkg/textx"

// Partition splits t into rows that can be mailed and rows that cannot,
// preserving sheet order in both.
func Partition(t *Table) List {
	list := List{Columns: t.Columns}
	for _, r := range t.Rows {
		switch {
		case !textx.IsValidEmail(r.Email):
			list.Invalid = append(list.Invalid, Invalid{Number: r.Number, Name: r.Name, Email: r.Email, Reason: ReasonInvalidEmail})
		case r.Name == "":
			list.Invalid = append(list.Invalid, Invalid{Number: r.Number, Email: r.Email, Reason: ReasonEmptyName})
		default:
			list.Valid = append(list.Valid, r)
		}
	}
	return list
}

// Load parses and partitions a sheet and fails when no row is mailable.
func Load(filename string, data []byte) (List, error) {
	t, err := Parse(filename, data)
	if err != nil {
		return List{}, err
	}
	list := Partition(t)
	if len(list.Valid) == 0 {
		return list, ErrNoValidEmails(len(list.Invalid)).WithDetail("file", filename)
	}
	return list, nil
}

// BuildPreview parses a sheet and returns its columns, the first valid rows
// and every invalid row.
func BuildPreview(filename string, data []byte) (*Preview, error) {
	t, err := Parse(filename, data)
	if err != nil {
		return nil, err
	}
	list := Partition(t)

	p := &Preview{
		Columns:      list.Columns,
		Sample:       make([]map[string]string, 0, PreviewRows),
		ValidCount:   len(list.Valid),
		InvalidCount: len(list.Invalid),
		Invalid:      list.Invalid,
	}
	for i, r := range list.Valid {
		if i == PreviewRows {
			break
		}
		p.Sample = append(p.Sample, r.Fields)
	}
	return p, nil
}
