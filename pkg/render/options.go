package render

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the form model.
type RenderOptions struct {
	// Method overrides the HTTP method declared by the form model. Verbs other
	// than GET and POST are sent as POST plus a hidden _method input.
	Method string
	// Values pre-populates rendered controls keyed by field name.
	Values map[string]any
	// Errors surfaces server-side validation feedback keyed by field path.
	// Form-level messages use the empty key.
	Errors map[string][]string
	// HiddenFields are emitted as hidden inputs, sorted by name.
	HiddenFields map[string]string
	// Theme carries the resolved theme selection, if any.
	Theme *ThemeConfig
}

// ThemeConfig is the renderer-facing view of a go-theme selection.
type ThemeConfig struct {
	Theme    string
	Variant  string
	Partials map[string]string
	Tokens   map[string]string
	CSSVars  map[string]string
	AssetURL func(key string) string
}

// Partial returns the template override for key, or fallback.
func (c *ThemeConfig) Partial(key, fallback string) string {
	if c == nil {
		return fallback
	}
	if value := c.Partials[key]; value != "" {
		return value
	}
	return fallback
}
