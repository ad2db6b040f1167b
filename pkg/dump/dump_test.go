package dump_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/goliatone/go-tugboat/pkg/dump"
	"github.com/goliatone/go-tugboat/pkg/testsupport"
)

func TestLogDumper_LogsAtDebugWithLabel(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	form := testsupport.SampleCreateForm()
	before := testsupport.SampleCreateForm()

	markup, err := dump.NewLogDumper(logger).Dump(context.Background(), "form", form)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if markup != "" {
		t.Fatalf("expected no markup, got %q", markup)
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatalf("expected a log entry")
	}
	if entry.Level != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", entry.Level)
	}
	if entry.Data["label"] != "form" {
		t.Fatalf("expected label field, got %v", entry.Data)
	}
	if !strings.Contains(entry.Message, `"operationId": "createPreview"`) {
		t.Fatalf("expected JSON payload, got %q", entry.Message)
	}
	if diff := cmp.Diff(before, form); diff != "" {
		t.Fatalf("dump mutated the form (-want +got):\n%s", diff)
	}
}

func TestLogDumper_SkipsEncodingBelowDebug(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.InfoLevel)

	cases := map[string]logrus.FieldLogger{
		"logger": logger,
		"entry":  logger.WithField("request_id", "r1"),
	}
	for name, fl := range cases {
		t.Run(name, func(t *testing.T) {
			// Channels cannot be encoded, so a nil error shows encoding was skipped.
			markup, err := dump.NewLogDumper(fl).Dump(context.Background(), "form", make(chan int))
			if err != nil || markup != "" {
				t.Fatalf("got %q, %v", markup, err)
			}
		})
	}
	if len(hook.AllEntries()) != 0 {
		t.Fatalf("expected no entries, got %d", len(hook.AllEntries()))
	}
}

func TestHTMLDumper_EscapesPayload(t *testing.T) {
	markup, err := dump.HTMLDumper{}.Dump(context.Background(), "form", map[string]string{"name": "<b>x</b>"})
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	want := "<pre class=\"tugboat-dump\" data-label=\"form\">{\n  &#34;name&#34;: &#34;&lt;b&gt;x&lt;/b&gt;&#34;\n}</pre>"
	if diff := cmp.Diff(want, markup); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
}

func TestMulti_ConcatenatesAndStopsOnError(t *testing.T) {
	first := dump.DumperFunc(func(context.Context, string, any) (string, error) { return "a", nil })
	second := dump.DumperFunc(func(context.Context, string, any) (string, error) { return "b", nil })

	out, err := dump.Multi{first, nil, dump.Nop{}, second}.Dump(context.Background(), "x", 1)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if out != "ab" {
		t.Fatalf("expected concatenated markup, got %q", out)
	}

	boom := errors.New("boom")
	failing := dump.DumperFunc(func(context.Context, string, any) (string, error) { return "", boom })
	if _, err := (dump.Multi{first, failing, second}).Dump(context.Background(), "x", 1); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestEncode_RejectsUnsupportedValues(t *testing.T) {
	if _, err := dump.Encode(make(chan int)); err == nil {
		t.Fatalf("expected encode error")
	}
}

func TestHTMLDumper_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (dump.HTMLDumper{}).Dump(ctx, "form", 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
