// Package app wires configuration into the Tugboat client, the preview
// service, the create page and the HTTP router.
package app

import (
	"fmt"
	"net/http"

	theme "github.com/goliatone/go-theme"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-tugboat/internal/config"
	"github.com/goliatone/go-tugboat/internal/httpapi"
	"github.com/goliatone/go-tugboat/pkg/dump"
	"github.com/goliatone/go-tugboat/pkg/orchestrator"
	"github.com/goliatone/go-tugboat/pkg/page"
	"github.com/goliatone/go-tugboat/pkg/preview"
	"github.com/goliatone/go-tugboat/pkg/renderers/vanilla"
	"github.com/goliatone/go-tugboat/pkg/tugboat"
)

// DefaultStylesheet is the href of the bundled stylesheet served by the router.
const DefaultStylesheet = "/assets/" + vanilla.StylesheetName

// App holds the wired components.
type App struct {
	Config  config.Config
	Logger  logrus.FieldLogger
	Service *preview.Service
	Page    *page.Page
}

// Option configures New.
type Option func(*options)

type options struct {
	client     preview.Client
	httpClient *http.Client
}

// WithClient replaces the Tugboat API client.
func WithClient(client preview.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithHTTPClient sets the transport of the default Tugboat client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// New builds the application from cfg.
func New(cfg config.Config, logger logrus.FieldLogger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	client := o.client
	if client == nil {
		tc, err := tugboat.NewClient(
			tugboat.WithBaseURL(cfg.Tugboat.BaseURL),
			tugboat.WithToken(cfg.Tugboat.Token),
			tugboat.WithTimeout(cfg.Tugboat.Timeout),
			tugboat.WithHTTPClient(o.httpClient),
			tugboat.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("app: tugboat client: %w", err)
		}
		client = tc
	}

	svc, err := preview.NewService(client, preview.Config{
		Repo:      cfg.Preview.Repo,
		BaseRef:   cfg.Preview.BaseRef,
		DeleteAge: cfg.Preview.DeleteAge,
		Endpoint:  cfg.Preview.Endpoint,
	},
		preview.WithLogger(logger),
		preview.WithOrchestratorOptions(
			orchestrator.WithThemeManifest(ThemeManifest(cfg.Theme), cfg.Theme.Variant),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("app: preview service: %w", err)
	}

	stylesheet := cfg.Page.Stylesheet
	if stylesheet == "" {
		stylesheet = DefaultStylesheet
	}
	renderer, err := vanilla.New(vanilla.WithStylesheet(stylesheet))
	if err != nil {
		return nil, fmt.Errorf("app: form renderer: %w", err)
	}

	var dumper dump.Dumper = dump.NewLogDumper(logger)
	if cfg.Page.Debug {
		dumper = dump.Multi{dumper, dump.HTMLDumper{}}
	}
	pg, err := page.New(renderer,
		page.WithDumper(dumper),
		page.WithCaption(cfg.Page.Caption),
		page.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("app: page: %w", err)
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Service: svc,
		Page:    pg,
	}, nil
}

// Router returns the HTTP handler serving the application.
func (a *App) Router(opts ...httpapi.Option) http.Handler {
	base := []httpapi.Option{
		httpapi.WithLogger(a.Logger),
		httpapi.WithTheme(a.Config.Theme.Name, a.Config.Theme.Variant),
		httpapi.WithSecureCookies(a.Config.Server.SecureCookies),
	}
	if a.Config.Server.CSRFKey != "" {
		base = append(base, httpapi.WithCSRFKey([]byte(a.Config.Server.CSRFKey)))
	}
	return httpapi.NewRouter(a.Service, a.Page, append(base, opts...)...)
}

// ThemeManifest builds the single configured theme. The configured variant
// always exists so selection cannot fail on defaults.
func ThemeManifest(cfg config.ThemeConfig) *theme.Manifest {
	name := cfg.Name
	if name == "" {
		name = "default"
	}
	manifest := &theme.Manifest{
		Name:     name,
		Version:  "1.0.0",
		Tokens:   map[string]string{},
		Variants: map[string]theme.Variant{},
	}
	for key, value := range cfg.Tokens {
		manifest.Tokens[key] = value
	}
	if cfg.Variant != "" {
		manifest.Variants[cfg.Variant] = theme.Variant{}
	}
	return manifest
}
