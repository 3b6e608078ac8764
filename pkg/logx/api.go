package logx

import "io"

var defaultLogger *Logger

func init() {
	defaultLogger = NewLogger(LoadFromEnv())
}

// SetDefaultLogger replaces the logger used by the package-level functions.
func SetDefaultLogger(logger *Logger) {
	defaultLogger = logger
}

func GetDefaultLogger() *Logger {
	return defaultLogger
}

func SetLevel(level Level) {
	defaultLogger.SetLevel(level)
}

func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

func Debug(msg string) { newEntry(defaultLogger).Debug(msg) }
func Info(msg string)  { newEntry(defaultLogger).Info(msg) }
func Warn(msg string)  { newEntry(defaultLogger).Warn(msg) }
func Error(msg string) { newEntry(defaultLogger).Error(msg) }
func Fatal(msg string) { newEntry(defaultLogger).Fatal(msg) }

func Debugf(format string, args ...interface{}) { newEntry(defaultLogger).Debugf(format, args...) }
func Infof(format string, args ...interface{})  { newEntry(defaultLogger).Infof(format, args...) }
func Warnf(format string, args ...interface{})  { newEntry(defaultLogger).Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { newEntry(defaultLogger).Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { newEntry(defaultLogger).Fatalf(format, args...) }

func WithField(key string, value interface{}) *Entry {
	return newEntry(defaultLogger).WithField(key, value)
}

func WithFields(fields Fields) *Entry {
	return newEntry(defaultLogger).WithFields(fields)
}

func WithError(err error) *Entry {
	return newEntry(defaultLogger).WithError(err)
}
