package uischema

// Store keeps the parsed operations from UI schema documents. It is safe for
// concurrent readers when treated as immutable after construction.
type Store struct {
	operations map[string]Operation
}

// Operation describes the overlay for a single OpenAPI operation.
type Operation struct {
	ID     string
	Source string
	Form   FormConfig
	Fields map[string]FieldConfig
}

// FormConfig captures form-level overrides plus extra action buttons.
type FormConfig struct {
	Title       string            `json:"title" yaml:"title"`
	Subtitle    string            `json:"subtitle" yaml:"subtitle"`
	SubmitLabel string            `json:"submitLabel" yaml:"submitLabel"`
	Actions     []ActionConfig    `json:"actions" yaml:"actions"`
	UIHints     map[string]string `json:"uiHints" yaml:"uiHints"`
}

// ActionConfig describes an additional button or link.
type ActionConfig struct {
	Kind  string `json:"kind" yaml:"kind"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Label string `json:"label" yaml:"label"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	Href  string `json:"href,omitempty" yaml:"href,omitempty"`
}

// FieldConfig customises how a single top-level field renders.
type FieldConfig struct {
	Order       *int              `json:"order,omitempty" yaml:"order,omitempty"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	HelpText    string            `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Hidden      *bool             `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Widget      string            `json:"widget,omitempty" yaml:"widget,omitempty"`
	CSSClass    string            `json:"cssClass,omitempty" yaml:"cssClass,omitempty"`
	UIHints     map[string]string `json:"uiHints,omitempty" yaml:"uiHints,omitempty"`
}
