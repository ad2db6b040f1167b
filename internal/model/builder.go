package model

import (
	"sort"
	"strconv"
	"strings"

	pkgopenapi "github.com/goliatone/go-tugboat/pkg/openapi"
)

// Builder converts OpenAPI operations into form models.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	if strings.TrimSpace(options.SubmitLabel) != "" {
		opts.SubmitLabel = strings.TrimSpace(options.SubmitLabel)
	}
	return &Builder{opts: opts}
}

// Build transforms an OpenAPI operation into a FormModel. Request body
// properties become fields sorted by name; a submit action is always present.
func (b *Builder) Build(op pkgopenapi.Operation) (FormModel, error) {
	if err := validateOperation(op); err != nil {
		return FormModel{}, err
	}

	form := FormModel{
		OperationID: op.ID,
		Endpoint:    op.Path,
		Method:      strings.ToUpper(op.Method),
		Summary:     op.Summary,
		Description: op.Description,
		Metadata:    metadataFromExtensions(op.Extensions),
	}
	form.UIHints = filterUIHints(form.Metadata)

	form.Fields = b.fieldsFromObject(op.RequestBody)

	submitLabel := b.opts.SubmitLabel
	if label := strings.TrimSpace(form.UIHints["submitLabel"]); label != "" {
		submitLabel = label
	}
	form.EnsureSubmitAction(submitLabel)

	if len(form.Metadata) == 0 {
		form.Metadata = nil
	}
	if len(form.UIHints) == 0 {
		form.UIHints = nil
	}
	return form, nil
}

func (b *Builder) fieldsFromObject(schema pkgopenapi.Schema) []Field {
	if len(schema.Properties) == 0 {
		return nil
	}

	requiredSet := make(map[string]struct{}, len(schema.Required))
	for _, item := range schema.Required {
		requiredSet[item] = struct{}{}
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		_, required := requiredSet[name]
		fields = append(fields, b.field(name, schema.Properties[name], required))
	}
	return fields
}

func (b *Builder) field(name string, schema pkgopenapi.Schema, required bool) Field {
	field := Field{
		Name:        name,
		Type:        mapType(schema.Type),
		Format:      schema.Format,
		Label:       b.opts.Labeler(name),
		Description: schema.Description,
		Required:    required,
		Default:     schema.Default,
	}
	if len(schema.Enum) > 0 {
		field.Enum = append([]any(nil), schema.Enum...)
	}

	switch field.Type {
	case FieldTypeObject:
		field.Nested = b.fieldsFromObject(schema)
	case FieldTypeArray:
		if schema.Items != nil {
			item := b.field(name+"Item", *schema.Items, false)
			field.Items = &item
		}
	}

	applyValidations(&field, schema)

	if ext := metadataFromExtensions(schema.Extensions); len(ext) > 0 {
		metadata := field.ensureMetadata()
		for key, value := range ext {
			metadata[key] = value
		}
		field.UIHints = mergeUIHints(field.UIHints, filterUIHints(ext))
	}
	applyFormatHints(&field)
	field.applyUIHintAttributes()
	field.normalize()
	return field
}

func mapType(schemaType string) FieldType {
	switch schemaType {
	case "integer":
		return FieldTypeInteger
	case "number":
		return FieldTypeNumber
	case "boolean":
		return FieldTypeBoolean
	case "array":
		return FieldTypeArray
	case "object":
		return FieldTypeObject
	default:
		return FieldTypeString
	}
}

func applyValidations(field *Field, schema pkgopenapi.Schema) {
	if schema.Minimum != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMin,
			Params: map[string]string{"value": formatFloat(*schema.Minimum)},
		})
	}
	if schema.Maximum != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMax,
			Params: map[string]string{"value": formatFloat(*schema.Maximum)},
		})
	}
	if schema.MinLength != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMinLength,
			Params: map[string]string{"value": strconv.Itoa(*schema.MinLength)},
		})
	}
	if schema.MaxLength != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMaxLength,
			Params: map[string]string{"value": strconv.Itoa(*schema.MaxLength)},
		})
	}
	if schema.Pattern != "" {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRulePattern,
			Params: map[string]string{"pattern": schema.Pattern},
		})
	}
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func applyFormatHints(field *Field) {
	format := strings.TrimSpace(strings.ToLower(field.Format))
	if format == "" {
		return
	}
	if field.UIHints != nil && strings.TrimSpace(field.UIHints["inputType"]) != "" {
		return
	}

	var inputType string
	switch format {
	case "date":
		inputType = "date"
	case "date-time", "datetime":
		inputType = "datetime-local"
	case "email":
		inputType = "email"
	case "uri", "url":
		inputType = "url"
	case "password":
		inputType = "password"
	default:
		return
	}
	field.UIHints = mergeUIHints(field.UIHints, map[string]string{"inputType": inputType})
}

// applyUIHintAttributes copies label and placeholder hints onto the field so
// renderers do not need to consult the hint map for them.
func (f *Field) applyUIHintAttributes() {
	if len(f.UIHints) == 0 {
		return
	}
	if label := strings.TrimSpace(f.UIHints["label"]); label != "" {
		f.Label = label
	}
	if placeholder := strings.TrimSpace(f.UIHints["placeholder"]); placeholder != "" {
		f.Placeholder = placeholder
	}
	if help := strings.TrimSpace(f.UIHints["helpText"]); help != "" && f.Description == "" {
		f.Description = help
	}
}
