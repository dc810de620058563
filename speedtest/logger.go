package speedtest

// Logger is the logging surface consumed by every package in the module.
// The implementation lives in log/ so core packages never depend on a
// concrete logging library.
type Logger interface {
	Error(format string, args ...interface{})
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// NopLogger discards everything. Useful as a default in tests and for
// components constructed without a logger.
type NopLogger struct{}

func (NopLogger) Error(format string, args ...interface{}) {}
func (NopLogger) Info(format string, args ...interface{})  {}
func (NopLogger) Debug(format string, args ...interface{}) {}
