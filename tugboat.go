// Package tugboat is the top-level entry point of the create preview page:
// constructors for the OpenAPI loader and parser, the form orchestrator and a
// one-call page renderer.
package tugboat

import (
	"context"
	"fmt"
	"io/fs"

	internalLoader "github.com/goliatone/go-tugboat/internal/openapi/loader"
	internalParser "github.com/goliatone/go-tugboat/internal/openapi/parser"
	"github.com/goliatone/go-tugboat/pkg/model"
	pkgopenapi "github.com/goliatone/go-tugboat/pkg/openapi"
	"github.com/goliatone/go-tugboat/pkg/orchestrator"
	"github.com/goliatone/go-tugboat/pkg/page"
	"github.com/goliatone/go-tugboat/pkg/render"
	"github.com/goliatone/go-tugboat/pkg/renderers/vanilla"
)

// RenderOptions describes per-request values, errors and hidden fields.
type RenderOptions = render.RenderOptions

// EndpointOverride rewrites the action URL of an operation's form.
type EndpointOverride = orchestrator.EndpointOverride

// PageData is the input of the create page.
type PageData = page.Data

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	return internalLoader.New(pkgopenapi.NewLoaderOptions(options...))
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	return internalParser.New(pkgopenapi.NewParserOptions(options...))
}

// WithLoaderFS makes the orchestrator read fs sources from files.
func WithLoaderFS(files fs.FS) orchestrator.Option {
	return orchestrator.WithLoader(NewLoader(pkgopenapi.WithFileSystem(files)))
}

// NewOrchestrator exposes the orchestrator constructor.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads source, builds the form for operationID and renders it
// with the named renderer, without the page wrapper.
func GenerateHTML(ctx context.Context, source pkgopenapi.Source, operationID, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:      source,
		OperationID: operationID,
		Renderer:    rendererName,
	})
}

// RenderCreatePage renders form inside the create preview page using the
// vanilla renderer.
func RenderCreatePage(ctx context.Context, form model.FormModel, opts RenderOptions, pageOptions ...page.Option) ([]byte, error) {
	renderer, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("tugboat: form renderer: %w", err)
	}
	p, err := page.New(renderer, pageOptions...)
	if err != nil {
		return nil, err
	}
	return p.Render(ctx, page.Data{Form: form, Options: opts})
}
