package vanilla

// ChromeClass is a typed identifier for the CSS classes of form chrome.
type ChromeClass string

const (
	ClassForm    ChromeClass = "tugboat-form"
	ClassHeader  ChromeClass = "tugboat-header"
	ClassField   ChromeClass = "tugboat-field"
	ClassActions ChromeClass = "tugboat-actions"
	ClassErrors  ChromeClass = "tugboat-errors"
)

// ChromeClasses overrides the class of each chrome element. Empty entries keep
// the defaults.
type ChromeClasses struct {
	Form    string
	Header  string
	Actions string
	Errors  string
}

func (c ChromeClasses) resolve() map[string]string {
	return map[string]string{
		"form":    fallback(c.Form, string(ClassForm)),
		"header":  fallback(c.Header, string(ClassHeader)),
		"actions": fallback(c.Actions, string(ClassActions)),
		"errors":  fallback(c.Errors, string(ClassErrors)),
	}
}

func fallback(value, def string) string {
	if value = sanitizeClassList(value); value != "" {
		return value
	}
	return def
}
