package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-tugboat/pkg/model"
)

const templatePrefix = "templates/components/"

// NewDefaultRegistry constructs a registry pre-populated with the built-in
// components used by the vanilla renderer.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameInput, Descriptor{
		Renderer: templateComponentRenderer("forms.input", templatePrefix+"input.tmpl"),
	})
	registry.MustRegister(NameTextarea, Descriptor{
		Renderer: templateComponentRenderer("forms.textarea", templatePrefix+"textarea.tmpl"),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: templateComponentRenderer("forms.select", templatePrefix+"select.tmpl"),
	})
	registry.MustRegister(NameBoolean, Descriptor{
		Renderer: templateComponentRenderer("forms.checkbox", templatePrefix+"boolean.tmpl"),
	})
	registry.MustRegister(NameHidden, Descriptor{
		Renderer: templateComponentRenderer("forms.hidden", templatePrefix+"hidden.tmpl"),
	})

	return registry
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field model.Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
			resolvedTemplate = candidate
		}

		value := data.Value
		if !data.HasValue && field.Default != nil {
			value = fmt.Sprint(field.Default)
		}

		payload := map[string]any{
			"field":     field,
			"config":    data.Config,
			"controlId": data.ControlID,
			"value":     value,
			"invalid":   len(data.Errors) > 0,
			"inputType": InputType(field),
			"attrs":     ValidationAttributes(field),
			"options":   SelectOptions(field, value),
			"checked":   isChecked(value),
			"rows":      rows(field),
		}
		rendered, err := data.Template.RenderTemplate(resolvedTemplate, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

// Attribute is a single HTML attribute derived from field metadata.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Option is a single entry of a select control.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// InputType resolves the HTML input type for a field. An explicit inputType UI
// hint wins over the field type.
func InputType(field model.Field) string {
	if hint := strings.TrimSpace(field.UIHints["inputType"]); hint != "" {
		return hint
	}
	switch field.Type {
	case model.FieldTypeInteger, model.FieldTypeNumber:
		return "number"
	default:
		return "text"
	}
}

// ValidationAttributes maps validation rules to native HTML constraint
// attributes in rule order.
func ValidationAttributes(field model.Field) []Attribute {
	var attrs []Attribute
	for _, rule := range field.Validations {
		switch rule.Kind {
		case model.ValidationRuleMinLength:
			attrs = append(attrs, Attribute{Name: "minlength", Value: rule.Params["value"]})
		case model.ValidationRuleMaxLength:
			attrs = append(attrs, Attribute{Name: "maxlength", Value: rule.Params["value"]})
		case model.ValidationRuleMin:
			attrs = append(attrs, Attribute{Name: "min", Value: rule.Params["value"]})
		case model.ValidationRuleMax:
			attrs = append(attrs, Attribute{Name: "max", Value: rule.Params["value"]})
		case model.ValidationRulePattern:
			attrs = append(attrs, Attribute{Name: "pattern", Value: rule.Params["pattern"]})
		}
	}
	return attrs
}

// SelectOptions turns the field enum into select options, marking the entry
// equal to value as selected.
func SelectOptions(field model.Field, value string) []Option {
	if len(field.Enum) == 0 {
		return nil
	}
	options := make([]Option, 0, len(field.Enum))
	for _, raw := range field.Enum {
		optionValue := fmt.Sprint(raw)
		options = append(options, Option{
			Value:    optionValue,
			Label:    optionValue,
			Selected: optionValue == value,
		})
	}
	return options
}

func isChecked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "on", "1", "yes":
		return true
	default:
		return false
	}
}

func rows(field model.Field) string {
	if value := strings.TrimSpace(field.UIHints["rows"]); value != "" {
		return value
	}
	return "4"
}
