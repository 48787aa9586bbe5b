// MIT License
//
// # Copyright (c) 2024 sphinx-core
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// go/src/log/logger.go
package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel defines the severity level of the log message.
type LogLevel int

// Log level constants starting from 0 with iota.
const (
	DEBUG LogLevel = iota // Detailed debug information.
	INFO                  // General informational messages.
	WARN                  // Warnings about potential issues.
	ERROR                 // Error messages.
)

// levelNames associates LogLevel constants with string labels.
var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

// zapLevels maps LogLevel onto zap's levels.
var zapLevels = [...]zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}

// String returns the label of the level.
func (l LogLevel) String() string {
	if l < DEBUG || l > ERROR {
		return fmt.Sprintf("LogLevel(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel converts a label such as "debug" or "WARN" to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return LogLevel(i), nil
		}
	}
	return INFO, fmt.Errorf("unknown log level %q", s)
}

// LogBuffer is a thread-safe bytes.Buffer to store logs in memory.
type LogBuffer struct {
	mu  sync.Mutex   // protects buf
	buf bytes.Buffer // underlying buffer
}

// Write implements io.Writer interface for LogBuffer.
func (l *LogBuffer) Write(p []byte) (n int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Write(p)
}

// Sync implements zapcore.WriteSyncer.
func (l *LogBuffer) Sync() error { return nil }

// String returns the current contents of the buffer as a string.
func (l *LogBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.String()
}

// Reset empties the buffer.
func (l *LogBuffer) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Reset()
}

// Global logger state.
var (
	// level is shared by every core so SetLevel takes effect immediately.
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	// buffer keeps a copy of everything written, for inspection by tests.
	buffer = &LogBuffer{}

	mu    sync.RWMutex
	base  *zap.Logger
	sugar *zap.SugaredLogger
)

func init() {
	SetOutput(os.Stderr)
}

// SetOutput rebuilds the logger so it writes to w (plus the in-memory buffer).
func SetOutput(w io.Writer) {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.NewMultiWriteSyncer(zapcore.AddSync(w), buffer),
		level,
	)

	// Skip the package wrappers so callers show up in the caller field
	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	mu.Lock()
	base = l
	sugar = l.Sugar()
	mu.Unlock()
}

// SetLevel sets the global logging level.
// Messages below this level will be ignored.
func SetLevel(lvl LogLevel) {
	if lvl < DEBUG || lvl > ERROR {
		return
	}
	level.SetLevel(zapLevels[lvl])
}

// L returns the structured logger for callers that want typed fields.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.WithOptions(zap.AddCallerSkip(-1))
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Infof logs a formatted message at INFO level.
func Infof(format string, args ...any) { current().Infof(format, args...) }

// Errorf logs a formatted message at ERROR level.
func Errorf(format string, args ...any) { current().Errorf(format, args...) }

// Fatalf logs a formatted message at ERROR level and then terminates the program.
func Fatalf(format string, args ...any) {
	current().Errorf(format, args...)
	_ = Sync()
	os.Exit(1)
}

// Debugf logs a formatted message at DEBUG level.
func Debugf(format string, args ...any) { current().Debugf(format, args...) }

// Warnf logs a formatted message at WARN level.
func Warnf(format string, args ...any) { current().Warnf(format, args...) }

// Convenience exported functions to log with simpler names:

// Debug logs a DEBUG level message.
func Debug(format string, args ...any) { current().Debugf(format, args...) }

// Info logs an INFO level message.
func Info(format string, args ...any) { current().Infof(format, args...) }

// Warn logs a WARN level message.
func Warn(format string, args ...any) { current().Warnf(format, args...) }

// Error logs an ERROR level message.
func Error(format string, args ...any) { current().Errorf(format, args...) }

// Sync flushes any buffered log entries.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return base.Sync()
}

// GetLogs returns the full log content accumulated in the in-memory buffer.
func GetLogs() string {
	return buffer.String()
}

// ResetLogs clears the in-memory buffer.
func ResetLogs() {
	buffer.Reset()
}
