package orchestrator

import (
	"fmt"
	"maps"
	"path"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-tugboat/pkg/render"
)

// WithThemeSelector resolves a theme for every request through selector.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeManifest selects from a single manifest, using defaultVariant when
// a request names none.
func WithThemeManifest(manifest *theme.Manifest, defaultVariant string) Option {
	return func(o *Orchestrator) {
		if manifest == nil {
			return
		}
		o.themeSelector = NewManifestSelector(manifest.Name, defaultVariant, manifest)
	}
}

// WithThemeFallbacks replaces the partials used when a theme does not
// override a template.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = maps.Clone(fallbacks)
	}
}

// defaultThemeFallbacks maps partial keys to the built-in template names.
func defaultThemeFallbacks() map[string]string {
	return map[string]string{
		"forms.form":          "templates/form.tmpl",
		"forms.input":         "templates/components/input.tmpl",
		"forms.textarea":      "templates/components/textarea.tmpl",
		"forms.select":        "templates/components/select.tmpl",
		"forms.checkbox":      "templates/components/boolean.tmpl",
		"forms.hidden":        "templates/components/hidden.tmpl",
		"tugboat.create-page": "templates/create_page.tmpl",
	}
}

// ManifestSelector is a theme.ThemeSelector over an in-memory set of
// manifests, typically built from configuration.
type ManifestSelector struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector indexes manifests by name. Nil manifests are skipped.
func NewManifestSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) *ManifestSelector {
	s := &ManifestSelector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		s.manifests[manifest.Name] = manifest
	}
	return s
}

// Select resolves name and variant, falling back to the selector defaults.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("orchestrator: theme %q not registered", name)
	}

	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = s.defaultVariant
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("orchestrator: theme %q has no variant %q", name, variant)
		}
	}

	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

func (o *Orchestrator) resolveTheme(name, variant string) (*render.ThemeConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	if selection == nil {
		return nil, nil
	}
	fallbacks := o.themeFallbacks
	if fallbacks == nil {
		fallbacks = defaultThemeFallbacks()
	}
	return themeConfigFromSelection(selection, fallbacks), nil
}

// themeConfigFromSelection layers fallbacks, manifest and variant templates
// and tokens, later layers winning. Tokens also become "--name" CSS variables.
func themeConfigFromSelection(selection *theme.Selection, fallbacks map[string]string) *render.ThemeConfig {
	cfg := &render.ThemeConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: maps.Clone(fallbacks),
		Tokens:   map[string]string{},
	}
	if cfg.Partials == nil {
		cfg.Partials = map[string]string{}
	}

	manifest := selection.Manifest
	if manifest == nil {
		return cfg
	}

	maps.Copy(cfg.Partials, manifest.Templates)
	maps.Copy(cfg.Tokens, manifest.Tokens)

	prefix := manifest.Assets.Prefix
	files := maps.Clone(manifest.Assets.Files)
	if files == nil {
		files = map[string]string{}
	}

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		maps.Copy(cfg.Partials, variant.Templates)
		maps.Copy(cfg.Tokens, variant.Tokens)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
		maps.Copy(files, variant.Assets.Files)
	}

	cfg.CSSVars = make(map[string]string, len(cfg.Tokens))
	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.HasPrefix(file, "/") || strings.Contains(file, "://") || prefix == "" {
			return file
		}
		if strings.Contains(prefix, "://") {
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		}
		return path.Join(prefix, file)
	}
	return cfg
}
