package render

import (
	"context"

	"github.com/goliatone/go-tugboat/pkg/model"
)

// Renderer converts a FormModel into a byte representation (HTML for the
// vanilla renderer).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
