package logx

import (
	"encoding/json"
	"time"
)

// JSONFormatter writes one JSON object per line. Fields that would clash
// with level, message, timestamp, caller or error are nested under "fields".
type JSONFormatter struct {
	config *Config
}

func NewJSONFormatter(config *Config) *JSONFormatter {
	return &JSONFormatter{config: config}
}

var reservedJSONKeys = map[string]bool{
	"level": true, "message": true, "timestamp": true, "caller": true, "error": true,
}

func (f *JSONFormatter) Format(entry *LogEntry) ([]byte, error) {
	data := make(map[string]interface{}, len(entry.Fields)+5)
	data["level"] = entry.Level.String()
	data["message"] = entry.Message

	if f.config.EnableTimestamp {
		switch f.config.TimeFormat {
		case "unix":
			data["timestamp"] = entry.Timestamp.Unix()
		case "unixmilli":
			data["timestamp"] = entry.Timestamp.UnixMilli()
		default:
			data["timestamp"] = entry.Timestamp.Format(time.RFC3339Nano)
		}
	}
	if f.config.EnableCaller && entry.Caller != "" {
		data["caller"] = entry.Caller
	}

	var clashing Fields
	for k, v := range entry.Fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		if reservedJSONKeys[k] {
			if clashing == nil {
				clashing = Fields{}
			}
			clashing[k] = v
			continue
		}
		data[k] = v
	}
	if clashing != nil {
		data["fields"] = clashing
	}

	if entry.Error != nil {
		data["error"] = entry.Error.Error()
	}

	out, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
