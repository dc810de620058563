// Package log provides the logrus-backed implementation of
// speedtest.Logger: human-readable output on stderr plus an optional
// JSON-lines file for the metrics exporter and offline analysis.
package log

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/adimaman22/Network-Speed-Test/speedtest"
)

type Logger struct {
	l    *logrus.Logger
	file *os.File
}

var _ speedtest.Logger = (*Logger)(nil)

// New builds the process logger. filename may be empty to log to stderr
// only; quiet suppresses the TUI-unfriendly console stream while keeping
// the file.
func New(debug, quiet bool, filename string) (*Logger, error) {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	if quiet {
		l.SetOutput(nopWriter{})
	}

	out := &Logger{l: l}
	if filename != "" {
		f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			return nil, fmt.Errorf("unable to open the log file (%s): %w", filename, err)
		}
		out.file = f
		l.AddHook(&fileHook{
			writer:    f,
			formatter: &logrus.JSONFormatter{},
		})
	}
	return out, nil
}

func (lg *Logger) Error(format string, args ...interface{}) {
	lg.l.Errorf(format, args...)
}

func (lg *Logger) Info(format string, args ...interface{}) {
	lg.l.Infof(format, args...)
}

func (lg *Logger) Debug(format string, args ...interface{}) {
	lg.l.Debugf(format, args...)
}

func (lg *Logger) Close() {
	if lg.file != nil {
		_ = lg.file.Close()
	}
}

// fileHook mirrors every entry to the log file as one JSON line,
// independent of the console formatter.
type fileHook struct {
	writer    *os.File
	formatter logrus.Formatter
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(e *logrus.Entry) error {
	line, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(line)
	return err
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
