package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	tugboatroot "github.com/goliatone/go-tugboat"
	"github.com/goliatone/go-tugboat/internal/app"
	"github.com/goliatone/go-tugboat/internal/config"
	"github.com/goliatone/go-tugboat/internal/extlint"
	"github.com/goliatone/go-tugboat/internal/logging"
	"github.com/goliatone/go-tugboat/internal/prompt"
	pkgopenapi "github.com/goliatone/go-tugboat/pkg/openapi"
	"github.com/goliatone/go-tugboat/pkg/preview"
	"github.com/goliatone/go-tugboat/pkg/tugboat"
)

const usage = `Usage: tugboat-cli [-config file] <command> [flags]

Commands:
  render   write the create preview page HTML
  create   prompt for a ref and create a preview
  sweep    delete expired previews
  lint     check OpenAPI documents for unsupported x-formgen extensions
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, prompt.NewSurveyDriver()); err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "tugboat-cli: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, driver prompt.Driver) error {
	global := flag.NewFlagSet("tugboat-cli", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	configPath := global.String("config", "", "YAML configuration file (optional)")
	if err := global.Parse(args); err != nil {
		return fmt.Errorf("%w\n%s", err, usage)
	}
	rest := global.Args()
	if len(rest) == 0 {
		return errors.New(strings.TrimSpace(usage))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	deps := cliDeps{cfg: cfg, logger: logger, stdout: stdout, driver: driver}
	switch rest[0] {
	case "render":
		return deps.render(ctx, rest[1:])
	case "create":
		return deps.create(ctx, rest[1:])
	case "sweep":
		return deps.sweep(ctx, rest[1:])
	case "lint":
		return deps.lint(ctx, rest[1:])
	default:
		return fmt.Errorf("unknown command %q\n%s", rest[0], usage)
	}
}

type cliDeps struct {
	cfg    config.Config
	logger logrus.FieldLogger
	stdout io.Writer
	driver prompt.Driver
	// client replaces the Tugboat API client in tests.
	client preview.Client
}

func (d cliDeps) app(offline bool) (*app.App, error) {
	var opts []app.Option
	switch {
	case d.client != nil:
		opts = append(opts, app.WithClient(d.client))
	case offline:
		opts = append(opts, app.WithClient(offlineClient{}))
	default:
		if err := d.cfg.Validate(); err != nil {
			return nil, err
		}
	}
	cfg := d.cfg
	if offline && cfg.Preview.Repo == "" {
		cfg.Preview.Repo = "offline"
	}
	return app.New(cfg, d.logger, opts...)
}

func (d cliDeps) render(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	output := fs.String("output", "", "output file (stdout if empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := d.app(true)
	if err != nil {
		return err
	}
	data, err := a.Service.CreateForm(ctx, preview.FormRequest{
		ThemeName:    d.cfg.Theme.Name,
		ThemeVariant: d.cfg.Theme.Variant,
	})
	if err != nil {
		return err
	}
	html, err := a.Page.Render(ctx, data)
	if err != nil {
		return err
	}

	if *output == "" {
		_, err := d.stdout.Write(html)
		return err
	}
	if err := os.WriteFile(*output, html, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, err = fmt.Fprintf(d.stdout, "Page written to %s\n", *output)
	return err
}

func (d cliDeps) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := d.app(false)
	if err != nil {
		return err
	}
	data, err := a.Service.CreateForm(ctx, preview.FormRequest{})
	if err != nil {
		return err
	}

	sub, ok, err := prompt.AskSubmission(ctx, d.driver, data.Form)
	if err != nil {
		return err
	}
	if !ok {
		return d.driver.Info(ctx, "Cancelled.")
	}

	result, err := a.Service.Submit(ctx, sub)
	var verr *preview.ValidationError
	if errors.As(err, &verr) {
		for field, messages := range verr.Fields {
			for _, message := range messages {
				_ = d.driver.Info(ctx, fmt.Sprintf("%s: %s", field, message))
			}
		}
		return err
	}
	if err != nil {
		return err
	}

	line := result.Preview.URL
	if line == "" {
		line = result.Preview.ID
	}
	return d.driver.Info(ctx, "Preview created: "+line)
}

func (d cliDeps) sweep(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	olderThan := fs.Duration("older-than", 0, "override the configured delete age")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *olderThan > 0 {
		d.cfg.Preview.DeleteAge = *olderThan
	}
	if d.cfg.Preview.DeleteAge == 0 {
		_, err := fmt.Fprintln(d.stdout, "Sweeping is disabled; set preview.deleteAge or -older-than.")
		return err
	}

	a, err := d.app(false)
	if err != nil {
		return err
	}
	deleted, err := a.Service.Sweep(ctx, time.Now())
	for _, id := range deleted {
		fmt.Fprintf(d.stdout, "deleted %s\n", id)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(d.stdout, "%d preview(s) deleted\n", len(deleted))
	return err
}

func (d cliDeps) lint(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("lint", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return err
	}

	var docs []pkgopenapi.Document
	if fs.NArg() == 0 {
		raw, err := iofs.ReadFile(preview.SchemaFS(), preview.SchemaFile)
		if err != nil {
			return err
		}
		docs = append(docs, pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFS(preview.SchemaFile), raw))
	}
	for _, path := range fs.Args() {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("lint %s: %w", path, err)
		}
		doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile(path), raw)
		if err != nil {
			return fmt.Errorf("lint %s: %w", path, err)
		}
		docs = append(docs, doc)
	}

	parser := tugboatroot.NewParser(
		pkgopenapi.WithPartialDocuments(true),
		pkgopenapi.WithReferenceResolution(false),
	)
	var count int
	for _, doc := range docs {
		violations, err := extlint.Lint(ctx, parser, doc)
		if err != nil {
			return fmt.Errorf("lint %s: %w", doc.Location(), err)
		}
		for _, v := range violations {
			fmt.Fprintln(d.stdout, v.String())
		}
		count += len(violations)
	}
	if count > 0 {
		return fmt.Errorf("%d unsupported extension(s)", count)
	}
	return nil
}

// offlineClient backs commands that never reach the API.
type offlineClient struct{}

var errOffline = errors.New("tugboat api is not configured for this command")

func (offlineClient) CreatePreview(context.Context, tugboat.CreatePreviewRequest) (tugboat.Preview, error) {
	return tugboat.Preview{}, errOffline
}

func (offlineClient) ListPreviews(context.Context, string) ([]tugboat.Preview, error) {
	return nil, errOffline
}

func (offlineClient) DeletePreview(context.Context, string) error {
	return errOffline
}
