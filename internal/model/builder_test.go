package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/goliatone/go-tugboat/pkg/openapi"
)

func intPtr(v int) *int { return &v }

func createPreviewOperation() pkgopenapi.Operation {
	op := pkgopenapi.MustNewOperation("createPreview", "post", "/previews/create", pkgopenapi.Schema{
		Type:     "object",
		Required: []string{"ref"},
		Properties: map[string]pkgopenapi.Schema{
			"ref": {
				Type:        "string",
				Description: "Branch to build.",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(255),
				Extensions: map[string]any{
					"x-formgen": map[string]any{"placeholder": "main"},
				},
			},
			"type": {
				Type:    "string",
				Enum:    []any{"branch", "tag"},
				Default: "branch",
				Extensions: map[string]any{
					"x-formgen-widget": "select",
				},
			},
			"preview_url": {
				Type:   "string",
				Format: "uri",
			},
		},
	}, nil)
	op.Summary = "Create preview"
	op.Extensions = map[string]any{
		"x-formgen": map[string]any{"submitLabel": "Build"},
	}
	return op
}

func TestBuilder_Build(t *testing.T) {
	form, err := New(Options{}).Build(createPreviewOperation())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := FormModel{
		OperationID: "createPreview",
		Endpoint:    "/previews/create",
		Method:      "POST",
		Summary:     "Create preview",
		Metadata:    map[string]string{"submitLabel": "Build"},
		UIHints:     map[string]string{"submitLabel": "Build"},
		Fields: []Field{
			{
				Name:    "preview_url",
				Type:    FieldTypeString,
				Format:  "uri",
				Label:   "Preview URL",
				UIHints: map[string]string{"inputType": "url"},
			},
			{
				Name:        "ref",
				Type:        FieldTypeString,
				Required:    true,
				Label:       "Ref",
				Placeholder: "main",
				Description: "Branch to build.",
				Validations: []ValidationRule{
					{Kind: ValidationRuleMinLength, Params: map[string]string{"value": "1"}},
					{Kind: ValidationRuleMaxLength, Params: map[string]string{"value": "255"}},
				},
				Metadata: map[string]string{"placeholder": "main"},
				UIHints:  map[string]string{"placeholder": "main"},
			},
			{
				Name:     "type",
				Type:     FieldTypeString,
				Label:    "Type",
				Default:  "branch",
				Enum:     []any{"branch", "tag"},
				Metadata: map[string]string{"widget": "select"},
				UIHints:  map[string]string{"widget": "select"},
			},
		},
		Actions: []Action{
			{Name: "op", Label: "Build", Kind: ActionKindSubmit, Value: "Build"},
		},
	}

	if diff := cmp.Diff(want, form); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_DefaultSubmitAction(t *testing.T) {
	op := pkgopenapi.MustNewOperation("noop", "POST", "/noop", pkgopenapi.Schema{}, nil)

	form, err := New(Options{}).Build(op)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(form.Fields) != 0 {
		t.Fatalf("expected no fields, got %d", len(form.Fields))
	}
	want := []Action{{Name: "op", Label: DefaultSubmitLabel, Kind: ActionKindSubmit, Value: DefaultSubmitLabel}}
	if diff := cmp.Diff(want, form.Actions); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_CustomLabelerAndSubmitLabel(t *testing.T) {
	op := pkgopenapi.MustNewOperation("noop", "POST", "/noop", pkgopenapi.Schema{
		Properties: map[string]pkgopenapi.Schema{"ref": {Type: "string"}},
	}, nil)

	builder := New(Options{
		Labeler:     func(name string) string { return "<" + name + ">" },
		SubmitLabel: "Go",
	})
	form, err := builder.Build(op)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := form.Fields[0].Label; got != "<ref>" {
		t.Fatalf("expected custom label, got %q", got)
	}
	if got := form.Actions[0].Label; got != "Go" {
		t.Fatalf("expected custom submit label, got %q", got)
	}
}

func TestBuilder_RejectsInvalidOperations(t *testing.T) {
	cases := map[string]pkgopenapi.Operation{
		"missing id":     {Method: "POST", Path: "/x"},
		"missing path":   {ID: "x", Method: "POST"},
		"missing method": {ID: "x", Path: "/x"},
		"array without items": {ID: "x", Method: "POST", Path: "/x", RequestBody: pkgopenapi.Schema{
			Properties: map[string]pkgopenapi.Schema{"tags": {Type: "array"}},
		}},
	}
	for name, op := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := New(Options{}).Build(op); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"ref":          "Ref",
		"preview_name": "Preview Name",
		"previewURL":   "Preview URL",
		"repo-id":      "Repo ID",
		"":             "",
	}
	for input, want := range cases {
		if got := DefaultLabeler(input); got != want {
			t.Errorf("DefaultLabeler(%q) = %q, want %q", input, got, want)
		}
	}
}
