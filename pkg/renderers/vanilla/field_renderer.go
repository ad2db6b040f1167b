package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/goliatone/go-tugboat/pkg/model"
	"github.com/goliatone/go-tugboat/pkg/render"
	"github.com/goliatone/go-tugboat/pkg/render/template"
	"github.com/goliatone/go-tugboat/pkg/renderers/vanilla/components"
)

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	overrides map[string]string
	partials  map[string]string
	values    map[string]any
	errors    map[string][]string

	usedComponents map[string]struct{}
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, overrides map[string]string, opts render.RenderOptions) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	var partials map[string]string
	if opts.Theme != nil {
		partials = opts.Theme.Partials
	}
	return &componentRenderer{
		templates:      templates,
		registry:       registry,
		overrides:      overrides,
		partials:       partials,
		values:         opts.Values,
		errors:         opts.Errors,
		usedComponents: make(map[string]struct{}),
	}
}

func (r *componentRenderer) render(field model.Field, path string) (string, error) {
	if field.Type == model.FieldTypeObject && len(field.Nested) > 0 && !hintEnabled(field.UIHints, "hidden") {
		return r.renderFieldset(field, path)
	}

	componentName, err := r.resolveComponent(field, path)
	if err != nil {
		return "", err
	}
	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, path)
	}

	value, hasValue := r.valueFor(path)
	fieldErrors := r.errors[path]

	named := field
	named.Name = path

	data := components.ComponentData{
		Template:      r.templates,
		ControlID:     componentControlID(strings.ReplaceAll(path, ".", "-")),
		Value:         value,
		HasValue:      hasValue,
		Errors:        fieldErrors,
		ThemePartials: r.partials,
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, named, data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, path, err)
	}
	r.usedComponents[componentName] = struct{}{}

	if componentName == components.NameHidden {
		return "  " + strings.TrimSpace(control.String()) + "\n", nil
	}
	return buildFieldMarkup(named, data.ControlID, componentName, control.String(), fieldErrors), nil
}

func (r *componentRenderer) renderFieldset(field model.Field, path string) (string, error) {
	var builder strings.Builder
	builder.WriteString(`  <fieldset class="tugboat-fieldset" data-field="`)
	builder.WriteString(html.EscapeString(path))
	builder.WriteString("\">\n")
	if label := strings.TrimSpace(field.Label); label != "" {
		builder.WriteString("    <legend>")
		builder.WriteString(html.EscapeString(label))
		builder.WriteString("</legend>\n")
	}
	for _, nested := range field.Nested {
		child, err := r.render(nested, joinPath(path, nested.Name))
		if err != nil {
			return "", err
		}
		builder.WriteString(child)
	}
	builder.WriteString("  </fieldset>\n")
	return builder.String(), nil
}

func (r *componentRenderer) resolveComponent(field model.Field, path string) (string, error) {
	if name := r.overrides[path]; name != "" {
		return name, nil
	}
	if name := r.overrides[field.Name]; name != "" {
		return name, nil
	}
	if hintEnabled(field.UIHints, "hidden") {
		return components.NameHidden, nil
	}
	if widget := strings.TrimSpace(field.UIHints["widget"]); widget != "" {
		if r.registry.Has(widget) {
			return widget, nil
		}
	}
	if len(field.Enum) > 0 {
		return components.NameSelect, nil
	}
	if field.Type == model.FieldTypeBoolean {
		return components.NameBoolean, nil
	}
	return components.NameInput, nil
}

func (r *componentRenderer) valueFor(path string) (string, bool) {
	raw, ok := r.values[path]
	if !ok || raw == nil {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, true
	case []string:
		if len(v) == 0 {
			return "", false
		}
		return v[0], true
	default:
		return fmt.Sprint(v), true
	}
}

func (r *componentRenderer) used() []string {
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func buildFieldMarkup(field model.Field, controlID, componentName, control string, fieldErrors []string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`  <div class="`)
	builder.WriteString(string(ClassField))
	if extra := sanitizeClassList(field.UIHints["cssClass"]); extra != "" {
		builder.WriteByte(' ')
		builder.WriteString(html.EscapeString(extra))
	}
	if len(fieldErrors) > 0 {
		builder.WriteString(" tugboat-field--invalid")
	}
	builder.WriteString(`" data-component="`)
	builder.WriteString(html.EscapeString(componentName))
	builder.WriteString("\">\n")

	if shouldRenderLabel(field) {
		builder.WriteString(`    <label for="`)
		builder.WriteString(html.EscapeString(controlID))
		builder.WriteString(`">`)
		builder.WriteString(html.EscapeString(field.Label))
		if field.Required {
			builder.WriteString(` *`)
		}
		builder.WriteString("</label>\n")
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("    ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	if desc := strings.TrimSpace(field.Description); desc != "" {
		builder.WriteString("    <small>")
		builder.WriteString(html.EscapeString(desc))
		builder.WriteString("</small>\n")
	}

	for _, message := range fieldErrors {
		builder.WriteString(`    <p class="tugboat-field-error">`)
		builder.WriteString(html.EscapeString(message))
		builder.WriteString("</p>\n")
	}

	builder.WriteString("  </div>\n")
	return builder.String()
}

func shouldRenderLabel(field model.Field) bool {
	if strings.TrimSpace(field.Label) == "" {
		return false
	}
	return !hintEnabled(field.UIHints, "hideLabel")
}

func joinPath(parent, child string) string {
	parent = strings.TrimSpace(parent)
	child = strings.TrimSpace(child)
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}
