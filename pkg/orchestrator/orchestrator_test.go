package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tugboat/pkg/model"
	pkgopenapi "github.com/goliatone/go-tugboat/pkg/openapi"
	"github.com/goliatone/go-tugboat/pkg/orchestrator"
	"github.com/goliatone/go-tugboat/pkg/render"
)

func TestOrchestrator_GenerateAppliesTransformerThenDecorators(t *testing.T) {
	var order []string
	transformer := orchestrator.TransformerFunc(func(_ context.Context, form *model.FormModel) error {
		order = append(order, "transform")
		form.Fields[0].Default = "main"
		return nil
	})
	decorator := model.DecoratorFunc(func(form *model.FormModel) error {
		order = append(order, "decorate")
		form.Metadata = map[string]string{"decorated": "true"}
		return nil
	})

	renderer := &captureRenderer{}
	orch := newOrchestrator(renderer,
		orchestrator.WithSchemaTransformer(transformer),
		orchestrator.WithUIDecorators(decorator),
	)

	output, err := orch.Generate(context.Background(), request())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(output) != "createPreview" {
		t.Fatalf("unexpected output %q", output)
	}
	if diff := cmp.Diff([]string{"transform", "decorate"}, order); diff != "" {
		t.Fatalf("pipeline order mismatch (-want +got):\n%s", diff)
	}
	if renderer.form.Fields[0].Default != "main" || renderer.form.Metadata["decorated"] != "true" {
		t.Fatalf("renderer did not receive the transformed form: %#v", renderer.form)
	}
}

func TestOrchestrator_BuildFormSkipsRendering(t *testing.T) {
	renderer := &captureRenderer{}
	orch := newOrchestrator(renderer, orchestrator.WithEndpointOverrides(orchestrator.EndpointOverride{
		OperationID: "createPreview",
		Endpoint:    "/admin/tugboat/create",
		Method:      "put",
	}))

	req := request()
	req.RenderOptions.Values = map[string]any{"ref": "main"}

	form, opts, err := orch.BuildForm(context.Background(), req)
	if err != nil {
		t.Fatalf("build form: %v", err)
	}
	if renderer.calls != 0 {
		t.Fatalf("expected no render call, got %d", renderer.calls)
	}
	if form.Endpoint != "/admin/tugboat/create" || form.Method != "PUT" {
		t.Fatalf("endpoint override not applied: %s %s", form.Method, form.Endpoint)
	}
	if opts.Values["ref"] != "main" {
		t.Fatalf("render options not carried through: %#v", opts)
	}
}

func TestOrchestrator_Errors(t *testing.T) {
	boom := errors.New("boom")
	cases := map[string]struct {
		opts []orchestrator.Option
		req  func() orchestrator.Request
		want string
	}{
		"missing operation id": {
			req:  func() orchestrator.Request { r := request(); r.OperationID = ""; return r },
			want: "operation id is required",
		},
		"unknown operation": {
			req:  func() orchestrator.Request { r := request(); r.OperationID = "nope"; return r },
			want: `operation "nope" not found`,
		},
		"missing source": {
			req:  func() orchestrator.Request { r := request(); r.Document = nil; return r },
			want: "source or document is required",
		},
		"unknown renderer": {
			req:  func() orchestrator.Request { r := request(); r.Renderer = "pdf"; return r },
			want: `renderer "pdf"`,
		},
		"transformer failure": {
			opts: []orchestrator.Option{orchestrator.WithSchemaTransformer(orchestrator.TransformerFunc(
				func(context.Context, *model.FormModel) error { return boom },
			))},
			req:  request,
			want: "transform form: boom",
		},
		"bad endpoint override": {
			opts: []orchestrator.Option{orchestrator.WithEndpointOverrides(orchestrator.EndpointOverride{OperationID: "x"})},
			req:  request,
			want: "endpoint override requires",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			orch := newOrchestrator(&captureRenderer{}, tc.opts...)
			_, err := orch.Generate(context.Background(), tc.req())
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestOrchestrator_RendererFallsBackToFirstRegistered(t *testing.T) {
	renderer := &captureRenderer{}
	orch := newOrchestrator(renderer, orchestrator.WithDefaultRenderer("missing"))

	got, err := orch.Renderer("")
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	if got.Name() != renderer.Name() {
		t.Fatalf("expected fallback renderer, got %s", got.Name())
	}
}

func newOrchestrator(renderer *captureRenderer, extra ...orchestrator.Option) *orchestrator.Orchestrator {
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	opts := []orchestrator.Option{
		orchestrator.WithParser(stubParser{operations: map[string]pkgopenapi.Operation{
			"createPreview": pkgopenapi.MustNewOperation("createPreview", "POST", "/previews/create", pkgopenapi.Schema{}, nil),
		}}),
		orchestrator.WithModelBuilder(stubBuilder{form: model.FormModel{
			OperationID: "createPreview",
			Endpoint:    "/previews/create",
			Method:      "POST",
			Fields:      []model.Field{{Name: "ref", Type: model.FieldTypeString}},
		}}),
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(renderer.Name()),
		orchestrator.WithUISchemaFS(nil),
	}
	return orchestrator.New(append(opts, extra...)...)
}

func request() orchestrator.Request {
	doc := pkgopenapi.MustNewDocument(stubSource{}, []byte("{}"))
	return orchestrator.Request{Document: &doc, OperationID: "createPreview"}
}

type stubSource struct{}

func (stubSource) Kind() pkgopenapi.SourceKind { return pkgopenapi.SourceKindFile }
func (stubSource) Location() string            { return "stub" }

type stubParser struct {
	operations map[string]pkgopenapi.Operation
	err        error
}

func (s stubParser) Operations(context.Context, pkgopenapi.Document) (map[string]pkgopenapi.Operation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.operations, nil
}

type stubBuilder struct {
	form model.FormModel
	err  error
}

// Build returns a fresh copy so tests can mutate the result.
func (s stubBuilder) Build(pkgopenapi.Operation) (model.FormModel, error) {
	if s.err != nil {
		return model.FormModel{}, s.err
	}
	form := s.form
	form.Fields = append([]model.Field(nil), s.form.Fields...)
	return form, nil
}

type captureRenderer struct {
	form    model.FormModel
	options render.RenderOptions
	calls   int
}

func (r *captureRenderer) Name() string        { return "capture" }
func (r *captureRenderer) ContentType() string { return "text/plain" }

func (r *captureRenderer) Render(_ context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	r.calls++
	r.form = form
	r.options = opts
	return []byte(form.OperationID), nil
}
