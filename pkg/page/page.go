// Package page renders the Create Preview page: it debug-dumps the supplied
// form, renders it through a render.Renderer and wraps the markup in the
// tugboat-create-page container followed by the fixed caption.
package page

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-tugboat/pkg/dump"
	"github.com/goliatone/go-tugboat/pkg/model"
	"github.com/goliatone/go-tugboat/pkg/render"
	rendertemplate "github.com/goliatone/go-tugboat/pkg/render/template"
	"github.com/goliatone/go-tugboat/pkg/render/template/gotemplate"
)

const (
	// ContainerClass is the class of the element wrapping the page.
	ContainerClass = "tugboat-create-page"
	// Caption is shown below the form.
	Caption = "Creating a new preview site may take a moment."
	// PartialKey names the theme partial that replaces the page template.
	PartialKey = "tugboat.create-page"
	// DumpLabel labels the form in debug dumps.
	DumpLabel = "form"

	defaultTemplate = "templates/create_page.tmpl"
)

// Data is the page input. Form is required; Options are passed through to the
// form renderer.
type Data struct {
	Form     model.FormModel
	Options  render.RenderOptions
	Messages []Message
}

// Page renders the Create Preview page. It holds no per-request state and is
// safe for concurrent use when its collaborators are.
type Page struct {
	renderer  render.Renderer
	dumper    dump.Dumper
	templates rendertemplate.TemplateRenderer
	caption   string
	logger    logrus.FieldLogger
}

// Option configures a Page.
type Option func(*Page)

// WithDumper replaces the default LogDumper.
func WithDumper(d dump.Dumper) Option {
	return func(p *Page) {
		if d != nil {
			p.dumper = d
		}
	}
}

// WithTemplateRenderer replaces the embedded page template engine.
func WithTemplateRenderer(r rendertemplate.TemplateRenderer) Option {
	return func(p *Page) {
		if r != nil {
			p.templates = r
		}
	}
}

// WithCaption overrides the caption. Markup is stripped; an empty result keeps
// the default caption.
func WithCaption(caption string) Option {
	return func(p *Page) {
		if cleaned := sanitizeCaption(caption); cleaned != "" {
			p.caption = cleaned
		}
	}
}

// WithLogger sets the logger used for page diagnostics and the default dumper.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Page) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New builds a Page around the form renderer.
func New(renderer render.Renderer, opts ...Option) (*Page, error) {
	if renderer == nil {
		return nil, fmt.Errorf("page: renderer is required")
	}
	p := &Page{
		renderer: renderer,
		caption:  Caption,
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.dumper == nil {
		p.dumper = dump.NewLogDumper(p.logger)
	}
	if p.templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(TemplatesFS()),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("page: configure template renderer: %w", err)
		}
		p.templates = engine
	}
	return p, nil
}

// ContentType reports the media type of Render output.
func (p *Page) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render dumps and renders data.Form and returns the complete page markup.
// Collaborator failures are returned wrapped; no partial markup is produced.
func (p *Page) Render(ctx context.Context, data Data) ([]byte, error) {
	debugMarkup, err := p.dumper.Dump(ctx, DumpLabel, data.Form)
	if err != nil {
		return nil, fmt.Errorf("page: dump form: %w", err)
	}

	rendered, err := p.renderer.Render(ctx, data.Form, data.Options)
	if err != nil {
		return nil, fmt.Errorf("page: render form with %q: %w", p.renderer.Name(), err)
	}

	themeCfg := data.Options.Theme
	payload := map[string]any{
		"rendered": strings.TrimRight(string(rendered), "\n"),
		"caption":  p.caption,
		"debug":    strings.TrimSpace(debugMarkup),
		"messages": messagePayload(data.Messages),
		"style":    cssVarStyle(themeCfg),
		"theme":    themeName(themeCfg),
	}

	out, err := p.templates.RenderTemplate(themeCfg.Partial(PartialKey, defaultTemplate), payload)
	if err != nil {
		return nil, fmt.Errorf("page: render page template: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"operation": data.Form.OperationID,
		"renderer":  p.renderer.Name(),
		"fields":    len(data.Form.Fields),
	}).Debug("create preview page rendered")

	return []byte(out), nil
}

func messagePayload(messages []Message) []map[string]string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]map[string]string, 0, len(messages))
	for _, message := range messages {
		cleaned := sanitizeMessage(message.Text)
		if cleaned == "" {
			continue
		}
		out = append(out, map[string]string{
			"kind": message.kind(),
			"role": message.role(),
			"html": cleaned,
		})
	}
	return out
}

// cssVarStyle turns theme CSS variables into a style attribute value, sorted
// by name. Names without the leading "--" get it added.
func cssVarStyle(cfg *render.ThemeConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	names := make([]string, 0, len(cfg.CSSVars))
	for name := range cfg.CSSVars {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		value := strings.TrimSpace(cfg.CSSVars[name])
		if value == "" {
			continue
		}
		key := strings.TrimSpace(name)
		if !strings.HasPrefix(key, "--") {
			key = "--" + key
		}
		parts = append(parts, key+": "+value)
	}
	return strings.Join(parts, "; ")
}

func themeName(cfg *render.ThemeConfig) string {
	if cfg == nil {
		return ""
	}
	if cfg.Variant != "" {
		return cfg.Theme + "-" + cfg.Variant
	}
	return cfg.Theme
}
