package logx

import "strings"

// Level is a logging severity.
type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelFatal logs and exits the process
	LevelFatal
	// LevelOff disables logging
	LevelOff
)

var levelNames = [...]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
	LevelOff:   "OFF",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "UNKNOWN"
}

// ParseLevel maps a name such as "warn" to its Level. Unknown names and
// "trace" fall back to the nearest supported level.
func ParseLevel(name string) Level {
	switch n := strings.ToUpper(strings.TrimSpace(name)); n {
	case "TRACE":
		return LevelDebug
	case "WARNING":
		return LevelWarn
	default:
		for l, s := range levelNames {
			if s == n {
				return Level(l)
			}
		}
		return LevelInfo
	}
}

// Enabled reports whether a logger set to l emits entries at target.
func (l Level) Enabled(target Level) bool {
	return l != LevelOff && l <= target
}
