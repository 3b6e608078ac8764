// Package recipients reads the uploaded recipient sheet and splits it into
// rows that can be mailed and rows that cannot.
package recipients

// Required columns. Header names are matched lower-cased and trimmed.
const (
	ColumnName  = "name"
	ColumnEmail = "email"
)

// Row is one recipient. Fields holds every column of the sheet keyed by
// normalized header, including name and email, and is the placeholder map
// used for rendering.
type Row struct {
	Number int               `json:"row"`
	Name   string            `json:"name"`
	Email  string            `json:"email"`
	Fields map[string]string `json:"fields"`
}

// Invalid is a row excluded before sending, with the reason.
type Invalid struct {
	Number int    `json:"row"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

const (
	ReasonInvalidEmail = "invalid email"
	ReasonEmptyName    = "empty name"
)

// Table is a parsed sheet. Number is the 1-based line in the source file,
// counting the header as line 1.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// List is a partitioned table: only Valid rows ever reach a campaign.
type List struct {
	Columns []string  `json:"columns"`
	Valid   []Row     `json:"valid"`
	Invalid []Invalid `json:"invalid"`
}

// Preview is a sample of a sheet shown before sending.
type Preview struct {
	Columns      []string            `json:"columns"`
	Sample       []map[string]string `json:"sample"`
	ValidCount   int                 `json:"valid_count"`
	InvalidCount int                 `json:"invalid_count"`
	Invalid      []Invalid           `json:"invalid"`
}

// PreviewRows is how many valid rows a preview shows.
const PreviewRows = 5
