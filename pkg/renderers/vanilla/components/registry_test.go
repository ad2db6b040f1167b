package components

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tugboat/pkg/model"
)

func TestRegistryDescriptorClone(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, field model.Field, data ComponentData) error { return nil }

	if err := reg.Register("test", Descriptor{Renderer: renderer, Stylesheets: []string{"/a.css"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	desc, ok := reg.Descriptor("TEST")
	if !ok {
		t.Fatalf("descriptor not found")
	}
	desc.Stylesheets = append(desc.Stylesheets, "/mutated.css")

	original, _ := reg.Descriptor("test")
	if diff := cmp.Diff([]string{"/a.css"}, original.Stylesheets); diff != "" {
		t.Fatalf("registry descriptor mutated (-want +got):\n%s", diff)
	}
}

func TestRegistryRejectsInvalidDescriptors(t *testing.T) {
	reg := New()
	if err := reg.Register(" ", Descriptor{Renderer: func(*bytes.Buffer, model.Field, ComponentData) error { return nil }}); err == nil {
		t.Fatalf("expected empty name error")
	}
	if err := reg.Register("input", Descriptor{}); err == nil {
		t.Fatalf("expected nil renderer error")
	}
}

func TestRegistryStylesheetsDeduplicates(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, field model.Field, data ComponentData) error { return nil }

	reg.MustRegister("input", Descriptor{Renderer: renderer, Stylesheets: []string{"/shared.css", "/input.css"}})
	reg.MustRegister("select", Descriptor{Renderer: renderer, Stylesheets: []string{"/shared.css", "/select.css"}})

	got := reg.Stylesheets([]string{"input", "select", "missing"})
	want := []string{"/shared.css", "/input.css", "/select.css"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stylesheets mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultRegistryNames(t *testing.T) {
	want := []string{NameBoolean, NameHidden, NameInput, NameSelect, NameTextarea}
	if diff := cmp.Diff(want, NewDefaultRegistry().Names()); diff != "" {
		t.Fatalf("default components mismatch (-want +got):\n%s", diff)
	}
}

func TestValidationAttributes(t *testing.T) {
	field := model.Field{
		Validations: []model.ValidationRule{
			{Kind: model.ValidationRuleMinLength, Params: map[string]string{"value": "1"}},
			{Kind: model.ValidationRuleMaxLength, Params: map[string]string{"value": "255"}},
			{Kind: model.ValidationRulePattern, Params: map[string]string{"pattern": "^[a-z]+$"}},
		},
	}
	want := []Attribute{
		{Name: "minlength", Value: "1"},
		{Name: "maxlength", Value: "255"},
		{Name: "pattern", Value: "^[a-z]+$"},
	}
	if diff := cmp.Diff(want, ValidationAttributes(field)); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestInputType(t *testing.T) {
	cases := map[string]struct {
		field model.Field
		want  string
	}{
		"string":  {field: model.Field{Type: model.FieldTypeString}, want: "text"},
		"integer": {field: model.Field{Type: model.FieldTypeInteger}, want: "number"},
		"hint":    {field: model.Field{Type: model.FieldTypeString, UIHints: map[string]string{"inputType": "url"}}, want: "url"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := InputType(tc.field); got != tc.want {
				t.Fatalf("InputType() = %q, want %q", got, tc.want)
			}
		})
	}
}
