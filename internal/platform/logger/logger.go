// Package logger provides the leveled key/value logger used across the
// service. Output format and minimum level come from the environment.
package logger

import (
	"io"
	"os"
	"sync"
)

type Logger struct {
	config    *Config
	formatter Formatter
	output    io.Writer
	mutex     sync.Mutex
}

type Formatter interface {
	Format(level, msg string, fields map[string]interface{}) (string, error)
}

func New() *Logger {
	cfg := DefaultConfig()

	var formatter Formatter = &JSONFormatter{}
	if cfg.Format == "text" {
		formatter = &TextFormatter{}
	}

	return &Logger{
		config:    cfg,
		formatter: formatter,
		output:    os.Stdout,
	}
}

// NewWithOutput is used by tests to capture log lines.
func NewWithOutput(cfg *Config, formatter Formatter, out io.Writer) *Logger {
	return &Logger{config: cfg, formatter: formatter, output: out}
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	if l.config.ShouldLog("debug") {
		l.log("DEBUG", msg, keysAndValues...)
	}
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	if l.config.ShouldLog("info") {
		l.log("INFO", msg, keysAndValues...)
	}
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	if l.config.ShouldLog("warn") {
		l.log("WARN", msg, keysAndValues...)
	}
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	if l.config.ShouldLog("error") {
		l.log("ERROR", msg, keysAndValues...)
	}
}

func (l *Logger) log(level, msg string, keysAndValues ...interface{}) {
	fields := make(map[string]interface{})
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}

	formatted, err := l.formatter.Format(level, msg, fields)
	if err != nil {
		return
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.output.Write([]byte(formatted))
}
