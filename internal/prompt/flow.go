package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-tugboat/pkg/model"
	"github.com/goliatone/go-tugboat/pkg/preview"
)

// AskSubmission prompts for every visible field of form, using labels,
// descriptions, defaults and enum options from the model, then asks for
// confirmation. ok is false when the user declines.
func AskSubmission(ctx context.Context, d Driver, form model.FormModel) (sub preview.Submission, ok bool, err error) {
	if d == nil {
		return preview.Submission{}, false, errors.New("prompt: driver is required")
	}

	values := make(map[string]string, len(form.Fields))
	for _, field := range form.Fields {
		if field.UIHints["hidden"] == "true" {
			continue
		}
		value, err := askField(ctx, d, field)
		if err != nil {
			return preview.Submission{}, false, fmt.Errorf("prompt: %s: %w", field.Name, err)
		}
		values[field.Name] = value
	}

	sub = preview.Submission{
		Ref:  values["ref"],
		Name: values["name"],
		Type: values["type"],
	}

	title := form.UIHints["title"]
	if title == "" {
		title = form.Summary
	}
	confirmed, err := d.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("%s from %q?", title, strings.TrimSpace(sub.Ref)),
		Default: true,
	})
	if err != nil {
		return preview.Submission{}, false, fmt.Errorf("prompt: confirm: %w", err)
	}
	return sub, confirmed, nil
}

func askField(ctx context.Context, d Driver, field model.Field) (string, error) {
	message := field.Label
	if message == "" {
		message = field.Name
	}
	def := ""
	if field.Default != nil {
		def = fmt.Sprint(field.Default)
	}

	if len(field.Enum) > 0 {
		options := make([]string, len(field.Enum))
		defaultIndex := 0
		for i, option := range field.Enum {
			options[i] = fmt.Sprint(option)
			if options[i] == def {
				defaultIndex = i
			}
		}
		idx, err := d.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: defaultIndex,
			Help:         field.Description,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(options) {
			return "", fmt.Errorf("selection %d out of range", idx)
		}
		return options[idx], nil
	}

	cfg := InputConfig{
		Message: message,
		Default: def,
		Help:    field.Description,
	}
	if field.Required {
		label := message
		cfg.Validator = func(value string) error {
			if strings.TrimSpace(value) == "" {
				return fmt.Errorf("%s is required", label)
			}
			return nil
		}
	}
	return d.Input(ctx, cfg)
}
