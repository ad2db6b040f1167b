package extlint_test

import (
	"context"
	"io/fs"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tugboat/internal/extlint"
	internalParser "github.com/goliatone/go-tugboat/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-tugboat/pkg/openapi"
	"github.com/goliatone/go-tugboat/pkg/preview"
)

func TestLint_EmbeddedSchemaIsClean(t *testing.T) {
	raw, err := fs.ReadFile(preview.SchemaFS(), preview.SchemaFile)
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFS(preview.SchemaFile), raw)

	violations, err := extlint.Lint(context.Background(), newParser(), doc)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}
}

func TestLint_ReportsUnsupportedHints(t *testing.T) {
	const spec = `
openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /previews:
    post:
      operationId: createPreview
      x-formgen:
        colour: blue
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                ref:
                  type: string
                  x-formgen-placeholder: main
                  x-formgen-tooltip: nope
                tags:
                  type: array
                  items:
                    type: string
                    x-formgen:
                      rows: []
      responses:
        "204":
          description: ok
`
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile("previews.yaml"), []byte(spec))

	violations, err := extlint.Lint(context.Background(), newParser(), doc)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}

	var got []string
	for _, v := range violations {
		got = append(got, v.Location)
	}
	want := []string{
		"operation > createPreview > colour",
		"operation > createPreview > requestBody > properties.ref",
		"operation > createPreview > requestBody > properties.tags > items > rows",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("locations mismatch (-want +got):\n%s", diff)
	}
	if violations[0].File != "previews.yaml" {
		t.Fatalf("file: got %q", violations[0].File)
	}
}

func TestLint_ParseError(t *testing.T) {
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile("broken.yaml"), []byte("openapi: [\n"))
	if _, err := extlint.Lint(context.Background(), newParser(), doc); err == nil {
		t.Fatal("expected parse error")
	}
}

func newParser() pkgopenapi.Parser {
	return internalParser.New(pkgopenapi.NewParserOptions())
}
