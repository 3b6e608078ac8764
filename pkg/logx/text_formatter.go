package logx

import "strings"

const textTimeFormat = "2006-01-02 15:04:05"

// TextFormatter writes one uncolored line per entry:
//
//	2006-01-02 15:04:05 - INFO - message key=value
//
// Field keys are sorted so identical events produce identical lines.
type TextFormatter struct {
	config *Config
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(config *Config) *TextFormatter {
	return &TextFormatter{config: config}
}

// Format formats a log entry as a single text line
func (f *TextFormatter) Format(entry *LogEntry) ([]byte, error) {
	var builder strings.Builder

	if f.config.EnableTimestamp {
		layout := f.config.TimeFormat
		if layout == "" {
			layout = textTimeFormat
		}
		builder.WriteString(formatTimestamp(entry.Timestamp, layout))
		builder.WriteString(" - ")
	}

	builder.WriteString(entry.Level.String())
	builder.WriteString(" - ")
	builder.WriteString(oneLine(entry.Message))

	for _, k := range sortedKeys(entry.Fields) {
		builder.WriteString(" ")
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(oneLine(fieldString(entry.Fields[k])))
	}

	if entry.Error != nil {
		if _, ok := entry.Fields["error"]; !ok {
			builder.WriteString(" error=")
			builder.WriteString(oneLine(entry.Error.Error()))
		}
	}

	builder.WriteString("\n")
	return []byte(builder.String()), nil
}

// oneLine keeps multi-line values from breaking the one-line-per-event layout.
func oneLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
