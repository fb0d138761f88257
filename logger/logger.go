// Package logger provides a small leveled logger with colored prefixes,
// shared by the services and the socket layer.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/charlie572/Blind-Maze-Game/config"
)

// Logger writes leveled messages with a fixed, colored subsystem prefix.
type Logger struct {
	name  string
	color string
	out   *log.Logger
}

// New creates a logger for the named subsystem. The color is one of the
// config.Color* escape codes and only affects the prefix.
func New(name, color string, w io.Writer) (*Logger, error) {
	if name == "" {
		return nil, errors.New("logger name cannot be empty")
	}
	if w == nil {
		return nil, errors.New("logger writer cannot be nil")
	}

	return &Logger{
		name:  name,
		color: color,
		out:   log.New(w, "", log.LstdFlags),
	}, nil
}

func (l *Logger) write(levelColor, level, msg string) {
	l.out.Printf("%s[%s]%s %s[%s]%s %s", l.color, l.name, config.ColorReset, levelColor, level, config.LogColorReset, msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.write(config.LogInfoColor, "INFO", msg)
}

// Warning logs a warning message.
func (l *Logger) Warning(msg string) {
	l.write(config.LogWarningColor, "WARNING", msg)
}

// Error logs an error message.
func (l *Logger) Error(msg string) {
	l.write(config.LogErrorColor, "ERROR", msg)
}

// Infof logs a formatted informational message.
func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

// Warningf logs a formatted warning message.
func (l *Logger) Warningf(format string, args ...any) {
	l.Warning(fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}
