package uischema_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	pkgmodel "github.com/goliatone/go-tugboat/pkg/model"
	"github.com/goliatone/go-tugboat/pkg/uischema"
)

func TestDecorator_AppliesOverlay(t *testing.T) {
	store := mustStore(t, `operations:
  createPreview:
    form:
      title: Create preview
      subtitle: Spin up a site for a branch.
      submitLabel: Build it
      actions:
        - kind: link
          label: Cancel
          href: /admin/tugboat
    fields:
      name:
        order: 1
        label: Preview name
        placeholder: my preview
        helpText: Optional.
        widget: textarea
        cssClass: wide
      ref:
        order: 2
      type:
        hidden: true
`)

	form := baseForm()
	if err := uischema.NewDecorator(store).Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}

	want := pkgmodel.FormModel{
		OperationID: "createPreview",
		Endpoint:    "/previews/create",
		Method:      "POST",
		Description: "Spin up a site for a branch.",
		UIHints:     map[string]string{"title": "Create preview"},
		Fields: []pkgmodel.Field{
			{
				Name:        "name",
				Type:        pkgmodel.FieldTypeString,
				Label:       "Preview name",
				Placeholder: "my preview",
				Description: "Optional.",
				UIHints:     map[string]string{"helpText": "Optional.", "widget": "textarea", "cssClass": "wide"},
			},
			{Name: "ref", Type: pkgmodel.FieldTypeString, Label: "Ref", Required: true},
			{Name: "type", Type: pkgmodel.FieldTypeString, Label: "Type", UIHints: map[string]string{"hidden": "true"}},
		},
		Actions: []pkgmodel.Action{
			{Name: "op", Label: "Build it", Kind: pkgmodel.ActionKindSubmit, Value: "Build it"},
			{Label: "Cancel", Kind: pkgmodel.ActionKindLink, Href: "/admin/tugboat"},
		},
	}
	if diff := cmp.Diff(want, form); diff != "" {
		t.Fatalf("decorated form mismatch (-want +got):\n%s", diff)
	}
}

func TestDecorator_SubmitLabelAddsActionWhenMissing(t *testing.T) {
	store := mustStore(t, "operations:\n  createPreview:\n    form:\n      submitLabel: Go\n")

	form := baseForm()
	form.Actions = nil
	if err := uischema.NewDecorator(store).Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	want := []pkgmodel.Action{{Name: "op", Label: "Go", Kind: pkgmodel.ActionKindSubmit, Value: "Go"}}
	if diff := cmp.Diff(want, form.Actions); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
}

func TestDecorator_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown field":  "operations:\n  createPreview:\n    fields:\n      missing:\n        label: X\n",
		"unknown hint":   "operations:\n  createPreview:\n    fields:\n      ref:\n        uiHints:\n          onclick: x\n",
		"link sans href": "operations:\n  createPreview:\n    form:\n      actions:\n        - kind: link\n          label: Cancel\n",
		"bad kind":       "operations:\n  createPreview:\n    form:\n      actions:\n        - kind: explode\n          label: Boom\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			form := baseForm()
			err := uischema.NewDecorator(mustStore(t, doc)).Decorate(&form)
			if err == nil || !strings.HasPrefix(err.Error(), "uischema:") {
				t.Fatalf("expected uischema error, got %v", err)
			}
		})
	}
}

func TestDecorator_NoMatchingOperationIsNoop(t *testing.T) {
	store := mustStore(t, "operations:\n  other:\n    form:\n      title: X\n")
	form := baseForm()
	if err := uischema.NewDecorator(store).Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if diff := cmp.Diff(baseForm(), form); diff != "" {
		t.Fatalf("form changed (-want +got):\n%s", diff)
	}

	if err := uischema.NewDecorator(nil).Decorate(&form); err != nil {
		t.Fatalf("nil store decorate: %v", err)
	}
}

func baseForm() pkgmodel.FormModel {
	return pkgmodel.FormModel{
		OperationID: "createPreview",
		Endpoint:    "/previews/create",
		Method:      "POST",
		Fields: []pkgmodel.Field{
			{Name: "name", Type: pkgmodel.FieldTypeString, Label: "Name"},
			{Name: "ref", Type: pkgmodel.FieldTypeString, Label: "Ref", Required: true},
			{Name: "type", Type: pkgmodel.FieldTypeString, Label: "Type"},
		},
		Actions: []pkgmodel.Action{
			{Name: "op", Label: "Create", Kind: pkgmodel.ActionKindSubmit, Value: "Create"},
		},
	}
}

func mustStore(t *testing.T, doc string) *uischema.Store {
	t.Helper()
	store, err := uischema.LoadFS(fstest.MapFS{"overlay.yaml": {Data: []byte(doc)}})
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	return store
}
