package logx

import "strings"

const (
	ansiReset  = "\033[0m"
	ansiGray   = "\033[90m"
	ansiCyan   = "\033[36m"
	ansiRed    = "\033[31m"
	ansiBold   = "\033[1m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
)

var levelColors = map[Level]string{
	LevelDebug: ansiCyan,
	LevelInfo:  ansiGreen,
	LevelWarn:  ansiYellow,
	LevelError: ansiRed,
	LevelFatal: ansiBold + ansiRed,
}

// ConsoleFormatter renders human-oriented lines, optionally colored:
//
//	2026-03-04T05:06:07Z [INFO ] campaign: starting from upload sender=a@x.com
type ConsoleFormatter struct {
	config *Config
}

func NewConsoleFormatter(config *Config) *ConsoleFormatter {
	return &ConsoleFormatter{config: config}
}

func (f *ConsoleFormatter) paint(b *strings.Builder, color, s string) {
	if f.config.EnableColors && color != "" {
		b.WriteString(color)
		b.WriteString(s)
		b.WriteString(ansiReset)
		return
	}
	b.WriteString(s)
}

func (f *ConsoleFormatter) Format(entry *LogEntry) ([]byte, error) {
	var b strings.Builder

	if f.config.EnableTimestamp {
		f.paint(&b, ansiGray, formatTimestamp(entry.Timestamp, f.config.TimeFormat))
		b.WriteByte(' ')
	}

	tag := entry.Level.String()
	if len(tag) < 5 {
		tag += strings.Repeat(" ", 5-len(tag))
	}
	f.paint(&b, levelColors[entry.Level], "["+tag+"]")
	b.WriteByte(' ')

	if f.config.EnableCaller && entry.Caller != "" {
		f.paint(&b, ansiGray, "<"+entry.Caller+">")
		b.WriteByte(' ')
	}

	b.WriteString(entry.Message)

	for _, k := range sortedKeys(entry.Fields) {
		b.WriteByte(' ')
		f.paint(&b, ansiCyan, k+"=")
		b.WriteString(fieldString(entry.Fields[k]))
	}

	if entry.Error != nil {
		b.WriteByte(' ')
		f.paint(&b, ansiRed, "error="+entry.Error.Error())
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}
