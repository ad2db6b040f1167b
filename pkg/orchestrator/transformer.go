package orchestrator

import (
	"context"

	"github.com/goliatone/go-tugboat/pkg/model"
)

// Transformer mutates a FormModel before UI schema decorators run.
type Transformer interface {
	Transform(ctx context.Context, form *model.FormModel) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *model.FormModel) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *model.FormModel) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}

// ChainTransformers runs transformers in order, stopping at the first error.
func ChainTransformers(transformers ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, form *model.FormModel) error {
		for _, t := range transformers {
			if t == nil {
				continue
			}
			if err := t.Transform(ctx, form); err != nil {
				return err
			}
		}
		return nil
	})
}
