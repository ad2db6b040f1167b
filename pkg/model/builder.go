package model

import (
	"github.com/goliatone/go-tugboat/internal/model"
	pkgopenapi "github.com/goliatone/go-tugboat/pkg/openapi"
)

// Builder converts OpenAPI operations into form models.
type Builder interface {
	Build(op pkgopenapi.Operation) (FormModel, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*model.Options)

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *model.Options) {
		opts.Labeler = labeler
	}
}

// WithSubmitLabel sets the caption of the default submit action.
func WithSubmitLabel(label string) BuilderOption {
	return func(opts *model.Options) {
		opts.SubmitLabel = label
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := model.Options{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return model.New(cfg)
}
