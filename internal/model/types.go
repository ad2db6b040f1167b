package model

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

const (
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// ActionKind distinguishes submit buttons from plain links or resets.
type ActionKind string

const (
	ActionKindSubmit ActionKind = "submit"
	ActionKindReset  ActionKind = "reset"
	ActionKindLink   ActionKind = "link"
)

// DefaultSubmitLabel is the caption of the button added to forms that do not
// declare any action.
const DefaultSubmitLabel = "Create"

// ValidationRule represents a single validation constraint applied to a field.
// Numeric bounds and length limits encode their threshold in Params["value"]
// while pattern rules keep the expression in Params["pattern"].
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Field models an individual input inside a form.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type"`
	Format      string            `json:"format,omitempty"`
	Required    bool              `json:"required"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Description string            `json:"description,omitempty"`
	Default     any               `json:"default,omitempty"`
	Enum        []any             `json:"enum,omitempty"`
	Nested      []Field           `json:"nested,omitempty"`
	Items       *Field            `json:"items,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	UIHints     map[string]string `json:"uiHints,omitempty"`
}

// Action is a button or link rendered in the form footer. The create page
// form carries a single submit action.
type Action struct {
	Name  string     `json:"name"`
	Label string     `json:"label"`
	Kind  ActionKind `json:"kind"`
	Value string     `json:"value,omitempty"`
	Href  string     `json:"href,omitempty"`
}

// FormModel is the top-level form structure renderers consume.
type FormModel struct {
	OperationID string            `json:"operationId"`
	Endpoint    string            `json:"endpoint"`
	Method      string            `json:"method"`
	Summary     string            `json:"summary,omitempty"`
	Description string            `json:"description,omitempty"`
	Fields      []Field           `json:"fields"`
	Actions     []Action          `json:"actions,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	UIHints     map[string]string `json:"uiHints,omitempty"`
}

// FieldByName returns a pointer to the top-level field with the given name so
// decorators can update it in place.
func (f *FormModel) FieldByName(name string) (*Field, bool) {
	if f == nil {
		return nil, false
	}
	for idx := range f.Fields {
		if f.Fields[idx].Name == name {
			return &f.Fields[idx], true
		}
	}
	return nil, false
}

// EnsureSubmitAction appends the default submit action when the form has no
// actions. The label falls back to DefaultSubmitLabel.
func (f *FormModel) EnsureSubmitAction(label string) {
	if f == nil || len(f.Actions) > 0 {
		return
	}
	if label == "" {
		label = DefaultSubmitLabel
	}
	f.Actions = append(f.Actions, Action{
		Name:  "op",
		Label: label,
		Kind:  ActionKindSubmit,
		Value: label,
	})
}

func (f *Field) ensureMetadata() map[string]string {
	if f.Metadata == nil {
		f.Metadata = make(map[string]string)
	}
	return f.Metadata
}

func (f *Field) normalize() {
	if len(f.Metadata) == 0 {
		f.Metadata = nil
	}
	if len(f.UIHints) == 0 {
		f.UIHints = nil
	}
	if len(f.Validations) == 0 {
		f.Validations = nil
	}
}
