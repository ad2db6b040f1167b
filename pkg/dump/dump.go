// Package dump provides the debug-dump collaborators the create preview page
// calls before rendering. Dumpers must not mutate the dumped value.
package dump

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/sirupsen/logrus"
)

// Dumper inspects a value and optionally returns markup to show with the page.
type Dumper interface {
	Dump(ctx context.Context, label string, value any) (string, error)
}

// DumperFunc adapts a function to Dumper.
type DumperFunc func(ctx context.Context, label string, value any) (string, error)

func (f DumperFunc) Dump(ctx context.Context, label string, value any) (string, error) {
	return f(ctx, label, value)
}

// Nop discards the value.
type Nop struct{}

func (Nop) Dump(context.Context, string, any) (string, error) {
	return "", nil
}

// LogDumper writes the value as indented JSON to a logrus logger at debug
// level. It never returns markup.
type LogDumper struct {
	Logger logrus.FieldLogger
}

// NewLogDumper returns a LogDumper using logger, or the logrus standard logger
// when nil.
func NewLogDumper(logger logrus.FieldLogger) *LogDumper {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogDumper{Logger: logger}
}

func (d *LogDumper) Dump(ctx context.Context, label string, value any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	logger := d.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if !debugEnabled(logger) {
		return "", nil
	}
	payload, err := Encode(value)
	if err != nil {
		return "", err
	}
	logger.WithField("label", label).Debug(payload)
	return "", nil
}

// debugEnabled reports whether logger would emit debug entries. Loggers
// whose level cannot be inspected are assumed enabled.
func debugEnabled(logger logrus.FieldLogger) bool {
	switch l := logger.(type) {
	case *logrus.Logger:
		return l.IsLevelEnabled(logrus.DebugLevel)
	case *logrus.Entry:
		if l.Logger != nil {
			return l.Logger.IsLevelEnabled(logrus.DebugLevel)
		}
	}
	return true
}

// HTMLDumper renders the value as escaped JSON inside a pre element.
type HTMLDumper struct{}

func (HTMLDumper) Dump(ctx context.Context, label string, value any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	payload, err := Encode(value)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(`<pre class="tugboat-dump"`)
	if label = strings.TrimSpace(label); label != "" {
		b.WriteString(` data-label="`)
		b.WriteString(html.EscapeString(label))
		b.WriteString(`"`)
	}
	b.WriteString(`>`)
	b.WriteString(html.EscapeString(payload))
	b.WriteString(`</pre>`)
	return b.String(), nil
}

// Multi fans a dump out to every dumper in order and concatenates the markup.
// The first error stops the fan-out.
type Multi []Dumper

func (m Multi) Dump(ctx context.Context, label string, value any) (string, error) {
	var out strings.Builder
	for _, dumper := range m {
		if dumper == nil {
			continue
		}
		markup, err := dumper.Dump(ctx, label, value)
		if err != nil {
			return "", err
		}
		out.WriteString(markup)
	}
	return out.String(), nil
}

// Encode renders value as two-space indented JSON without HTML escaping.
func Encode(value any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return "", fmt.Errorf("dump: encode value: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
