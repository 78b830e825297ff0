// Package log provides the colored, prefixed leveled logger shared by the services.
package log

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/beka-birhanu/vinom-pathfinder/config"
)

var ErrNilWriter = errors.New("logger writer is nil")

// Logger writes leveled lines of the form "[PREFIX] [LEVEL] message".
type Logger struct {
	inner *log.Logger
}

// New creates a Logger whose prefix is printed in color.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if w == nil {
		return nil, ErrNilWriter
	}

	p := fmt.Sprintf("%s[%s]%s ", color, prefix, config.ColorReset)
	return &Logger{inner: log.New(w, p, log.LstdFlags|log.Lmsgprefix)}, nil
}

func (l *Logger) Info(msg string) {
	l.print(config.LogInfoColor, "INFO", msg)
}

func (l *Logger) Warning(msg string) {
	l.print(config.LogWarningColor, "WARNING", msg)
}

func (l *Logger) Error(msg string) {
	l.print(config.LogErrorColor, "ERROR", msg)
}

func (l *Logger) print(color, level, msg string) {
	l.inner.Printf("%s[%s]%s %s", color, level, config.LogColorReset, msg)
}
