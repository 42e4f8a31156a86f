// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🎨 Display configuration
const (
	sourceIndent = 4  // spaces to indent source entries
	nameWidth    = 30 // Base width for source name
	kindWidth    = 12 // Width for source kind
	statusWidth  = 15 // Width for status text
)

// 🧰 Setup builds the process logger. format is "console" or "json".
func Setup(w io.Writer, format string, level zerolog.Level) zerolog.Logger {
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(level)
}

// 🎯 SourceResult is the outcome of probing one data source
type SourceResult struct {
	Name     string        // Source name
	Kind     string        // public or authorized
	Projects int           // Number of projects listed
	Skipped  bool          // Whether the probe was not attempted
	Err      error         // Probe failure, if any
	Took     time.Duration // Probe latency
}

func (r SourceResult) status() string {
	switch {
	case r.Err != nil:
		return "failed"
	case r.Skipped:
		return "skipped"
	case r.Projects == 1:
		return "1 project"
	default:
		return fmt.Sprintf("%d projects", r.Projects)
	}
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	results []SourceResult
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatSourceResult formats a probe result for display
func (l *Logger) formatSourceResult(r SourceResult) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case r.Err != nil:
		symbol = '✗'
		symbolColor = color.FgRed
	case r.Skipped:
		symbol = '-'
		symbolColor = color.FgYellow
	default:
		symbol = '✓'
		symbolColor = color.FgGreen
	}

	var kindColor color.Attribute
	switch r.Kind {
	case "authorized":
		kindColor = color.FgMagenta
	default:
		kindColor = color.FgCyan
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", sourceIndent),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, r.Name),
		color.New(kindColor).Sprint(fmt.Sprintf("%-*s", kindWidth, r.Kind)),
		fmt.Sprintf("%-*s", statusWidth, r.status()))

	if r.Err != nil {
		line += color.New(color.Faint).Sprint(rootCause(r.Err))
	}
	return line
}

// rootCause is the innermost message, which is what a user can act on
func rootCause(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// 📝 LogSourceResult prints a probe result and records it for Summary
func (l *Logger) LogSourceResult(ctx context.Context, r SourceResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.results = append(l.results, r)

	fmt.Fprintln(l.console, l.formatSourceResult(r))

	ev := l.zlog.Info()
	if r.Err != nil {
		ev = l.zlog.Warn().Err(r.Err)
	}
	ev.Str("source", r.Name).
		Str("kind", r.Kind).
		Int("projects", r.Projects).
		Bool("skipped", r.Skipped).
		Dur("took", r.Took).
		Msg("source probed")
}

// 📊 Summary returns how many recorded probes succeeded, failed and were skipped
func (l *Logger) Summary() (ok, failed, skipped int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range l.results {
		switch {
		case r.Err != nil:
			failed++
		case r.Skipped:
			skipped++
		default:
			ok++
		}
	}
	return ok, failed, skipped
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("projhub")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...any) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...any) {
	l.Success(fmt.Sprintf(format, args...))
}
