package preview

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-tugboat/pkg/tugboat"
)

const (
	maxRefLength  = 255
	maxNameLength = 128
)

// Submission is the create form input.
type Submission struct {
	Ref  string
	Name string
	Type string
}

// SubmissionFromValues reads a submission from posted form values.
func SubmissionFromValues(values url.Values) Submission {
	return Submission{
		Ref:  values.Get("ref"),
		Name: values.Get("name"),
		Type: values.Get("type"),
	}
}

// Values returns the submission as render values for re-displaying the form.
func (s Submission) Values() map[string]any {
	return map[string]any{
		"ref":  s.Ref,
		"name": s.Name,
		"type": s.Type,
	}
}

// ValidationError lists the messages of every invalid field.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("preview: invalid submission: %s", strings.Join(names, ", "))
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// normalise trims the submission, applies defaults and validates it.
func (s Submission) normalise() (tugboat.CreatePreviewRequest, error) {
	verr := &ValidationError{}

	ref := strings.TrimSpace(s.Ref)
	switch {
	case ref == "":
		verr.add("ref", "Ref is required.")
	case utf8.RuneCountInString(ref) > maxRefLength:
		verr.add("ref", fmt.Sprintf("Ref must be at most %d characters.", maxRefLength))
	}

	refType := tugboat.RefType(strings.ToLower(strings.TrimSpace(s.Type)))
	if refType == "" {
		refType = tugboat.RefBranch
	}
	if !refType.Valid() {
		verr.add("type", "Type must be one of branch, tag, pullrequest.")
	}

	name := strings.TrimSpace(s.Name)
	switch {
	case name == "" && ref != "":
		name = truncateRunes(ref+" preview", maxNameLength)
	case utf8.RuneCountInString(name) > maxNameLength:
		verr.add("name", fmt.Sprintf("Name must be at most %d characters.", maxNameLength))
	}

	if len(verr.Fields) > 0 {
		return tugboat.CreatePreviewRequest{}, verr
	}
	return tugboat.CreatePreviewRequest{Ref: ref, Name: name, Type: refType}, nil
}

// truncateRunes cuts s to at most max runes.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max]))
}
