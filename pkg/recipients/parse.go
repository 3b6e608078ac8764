package recipients

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/Abraxas-365/certmailer/pkg/logx"
	"github.com/Abraxas-365/certmailer/pkg/textx"
	"github.com/xuri/excelize/v2"
)

// Parse reads a .csv or .xlsx sheet. The first row is the header; headers
// are lower-cased and trimmed, blank headers are ignored and the first of
// duplicate headers wins. Cell values are sanitized. Fully blank lines are
// skipped.
func Parse(filename string, data []byte) (*Table, error) {
	var (
		records [][]string
		err     error
	)
	switch textx.Ext(filename) {
	case "csv", "txt":
		records, err = readCSV(data)
	case "xlsx", "xlsm":
		records, err = readXLSX(data)
	default:
		return nil, ErrUnsupportedFormat(filename)
	}
	if err != nil {
		return nil, ErrMalformed(filename, err)
	}
	if len(records) == 0 {
		return nil, ErrEmpty(filename)
	}

	header, index := normalizeHeader(records[0])
	var missing []string
	for _, col := range []string{ColumnName, ColumnEmail} {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, ErrMissingColumn(missing...).
			WithDetail("file", filename).
			WithDetail("found", header)
	}

	table := &Table{Columns: header}
	dropped := 0
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		fields := make(map[string]string, len(header))
		for _, col := range header {
			var raw string
			if j := index[col]; j < len(rec) {
				raw = rec[j]
			}
			v, n := textx.Sanitize(raw)
			dropped += n
			fields[col] = v
		}
		table.Rows = append(table.Rows, Row{
			Number: i + 2,
			Name:   fields[ColumnName],
			Email:  fields[ColumnEmail],
			Fields: fields,
		})
	}

	if dropped > 0 {
		logx.WithFields(logx.Fields{
			"file":    filename,
			"dropped": dropped,
		}).Warn("recipients: dropped invalid characters from cell values")
	}

	return table, nil
}

func normalizeHeader(raw []string) ([]string, map[string]int) {
	index := make(map[string]int, len(raw))
	header := make([]string, 0, len(raw))
	for i, h := range raw {
		key, _ := textx.Sanitize(h)
		key = strings.ToLower(key)
		if key == "" {
			continue
		}
		if _, dup := index[key]; dup {
			continue
		}
		index[key] = i
		header = append(header, key)
	}
	return header, index
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.Comma = sniffDelimiter(data)

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// sniffDelimiter picks ';' for sheets exported by locales that use a comma
// as the decimal separator.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	return f.GetRows(sheets[0])
}
