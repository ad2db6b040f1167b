// Package vanilla renders a FormModel as plain HTML with embedded pongo2
// templates and a per-field component registry.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-tugboat/pkg/model"
	"github.com/goliatone/go-tugboat/pkg/render"
	rendertemplate "github.com/goliatone/go-tugboat/pkg/render/template"
	gotemplate "github.com/goliatone/go-tugboat/pkg/render/template/gotemplate"
	"github.com/goliatone/go-tugboat/pkg/renderers/vanilla/components"
)

// MethodOverrideField is the hidden input carrying verbs HTML forms cannot send.
const MethodOverrideField = "_method"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	overrides        map[string]string
	stylesheets      []string
	classes          ChromeClasses
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithComponentOverride forces the component used for a field path.
func WithComponentOverride(fieldPath, component string) Option {
	return func(cfg *config) {
		fieldPath = strings.TrimSpace(fieldPath)
		component = strings.TrimSpace(component)
		if fieldPath == "" || component == "" {
			return
		}
		if cfg.overrides == nil {
			cfg.overrides = make(map[string]string)
		}
		cfg.overrides[fieldPath] = component
	}
}

// WithStylesheet links an external stylesheet before the form.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if href = strings.TrimSpace(href); href != "" {
			cfg.stylesheets = append(cfg.stylesheets, href)
		}
	}
}

// WithChromeClasses overrides the form chrome classes.
func WithChromeClasses(classes ChromeClasses) Option {
	return func(cfg *config) {
		cfg.classes = classes
	}
}

type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	registry    *components.Registry
	overrides   map[string]string
	stylesheets []string
	classes     map[string]string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:   renderer,
		registry:    cfg.registry,
		overrides:   cfg.overrides,
		stylesheets: cfg.stylesheets,
		classes:     cfg.classes.resolve(),
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the form markup. Values prefill controls, Errors render
// inline next to the matching field and form-level messages above the fields.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}

	fieldRenderer := newComponentRenderer(r.templates, r.registry, r.overrides, opts)
	fields := make([]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		markup, err := fieldRenderer.render(field, field.Name)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		fields = append(fields, markup)
	}

	method, override := resolveMethod(form.Method, opts.Method)
	hidden := opts.HiddenFields
	if override != "" {
		hidden = render.MergeHiddenFields(hidden, render.Hidden(MethodOverrideField, override))
	}

	stylesheets := append([]string(nil), r.stylesheets...)
	stylesheets = append(stylesheets, r.registry.Stylesheets(fieldRenderer.used())...)

	templateName := opts.Theme.Partial("forms.form", "templates/form.tmpl")
	result, err := r.templates.RenderTemplate(templateName, map[string]any{
		"form":         form,
		"title":        formTitle(form),
		"method":       method,
		"fields":       fields,
		"hiddenFields": hiddenFieldData(render.SortedHiddenFields(hidden)),
		"formErrors":   opts.Errors[""],
		"actions":      form.Actions,
		"classes":      r.classes,
		"stylesheets":  stylesheets,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func resolveMethod(declared, override string) (method string, spoofed string) {
	verb := strings.ToUpper(strings.TrimSpace(override))
	if verb == "" {
		verb = strings.ToUpper(strings.TrimSpace(declared))
	}
	switch verb {
	case "", "POST":
		return "post", ""
	case "GET":
		return "get", ""
	default:
		return "post", verb
	}
}

func formTitle(form model.FormModel) string {
	if title := strings.TrimSpace(form.UIHints["title"]); title != "" {
		return title
	}
	return strings.TrimSpace(form.Summary)
}

func hiddenFieldData(fields []render.HiddenField) []map[string]string {
	if len(fields) == 0 {
		return nil
	}
	out := make([]map[string]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, map[string]string{"name": field.Name, "value": field.Value})
	}
	return out
}
