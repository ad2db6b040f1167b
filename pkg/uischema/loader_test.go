package uischema_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-tugboat/pkg/uischema"
)

func TestLoadFS_JSONAndYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"create.json": {Data: []byte(`{
  "operations": {
    "createPreview": {
      "form": {"title": "Create preview", "submitLabel": "Build"},
      "fields": {"ref": {"label": "Branch", "order": 1}}
    }
  }
}`)},
		"nested/sweep.yaml": {Data: []byte(`operations:
  sweepPreviews:
    form:
      title: Sweep
`)},
		"README.md": {Data: []byte("ignored")},
	}

	store, err := uischema.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	op, ok := store.Operation("createPreview")
	if !ok {
		t.Fatalf("operation createPreview not found")
	}
	if op.Form.SubmitLabel != "Build" || op.Source != "create.json" {
		t.Fatalf("unexpected operation: %#v", op)
	}
	ref := op.Fields["ref"]
	if ref.Label != "Branch" || ref.Order == nil || *ref.Order != 1 {
		t.Fatalf("unexpected ref config: %#v", ref)
	}

	sweep, ok := store.Operation("sweepPreviews")
	if !ok || sweep.Form.Title != "Sweep" {
		t.Fatalf("yaml operation not loaded: %#v", sweep)
	}
}

func TestLoadFS_DuplicateOperation(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("operations:\n  createPreview:\n    form:\n      title: A\n")},
		"b.json": {Data: []byte(`{"operations": {"createPreview": {"form": {"title": "B"}}}}`)},
	}

	_, err := uischema.LoadFS(fsys)
	if err == nil || !strings.Contains(err.Error(), `duplicate operation "createPreview"`) {
		t.Fatalf("expected duplicate operation error, got %v", err)
	}
}

func TestLoadFS_InvalidDocuments(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"empty":       {"a.yaml": {Data: []byte("  \n")}},
		"garbage":     {"a.yaml": {Data: []byte("operations: [unclosed")}},
		"unlabelled":  {"a.yaml": {Data: []byte("operations:\n  x:\n    form:\n      actions:\n        - kind: link\n")}},
		"empty-field": {"a.json": {Data: []byte(`{"operations": {"x": {"fields": {" ": {}}}}}`)}},
		"empty-op":    {"a.json": {Data: []byte(`{"operations": {" ": {}}}`)}},
	}
	for name, fsys := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := uischema.LoadFS(fsys); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadFS_NilFSIsEmpty(t *testing.T) {
	store, err := uischema.LoadFS(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !store.Empty() {
		t.Fatalf("expected empty store")
	}
}

func TestEmbeddedFS_DefinesCreatePreview(t *testing.T) {
	store, err := uischema.LoadFS(uischema.EmbeddedFS())
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	op, ok := store.Operation("createPreview")
	if !ok {
		t.Fatalf("embedded overlay missing createPreview")
	}
	if op.Form.SubmitLabel != "Create" {
		t.Fatalf("unexpected submit label %q", op.Form.SubmitLabel)
	}
}
