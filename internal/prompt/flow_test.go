package prompt_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tugboat/internal/prompt"
	"github.com/goliatone/go-tugboat/pkg/model"
	"github.com/goliatone/go-tugboat/pkg/preview"
)

func TestAskSubmission_WalksFields(t *testing.T) {
	driver := &stubDriver{
		inputs:  map[string]string{"Branch or tag": "feature/x", "Preview name": ""},
		selects: map[string]int{"Ref type": 1},
		confirm: true,
	}

	sub, ok, err := prompt.AskSubmission(context.Background(), driver, createForm())
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if !ok {
		t.Fatal("expected confirmation")
	}
	if diff := cmp.Diff(preview.Submission{Ref: "feature/x", Type: "tag"}, sub); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}

	ref := driver.inputConfigs["Branch or tag"]
	if ref.Default != "main" || ref.Validator == nil {
		t.Fatalf("ref prompt: %+v", ref)
	}
	if err := ref.Validator("  "); err == nil {
		t.Fatal("expected blank ref to be rejected")
	}
	if driver.inputConfigs["Preview name"].Validator != nil {
		t.Fatal("optional field should not be validated")
	}
	if got := driver.selectConfigs["Ref type"].DefaultIndex; got != 0 {
		t.Fatalf("select default index: got %d", got)
	}
	if _, asked := driver.inputConfigs["secret"]; asked {
		t.Fatal("hidden field should be skipped")
	}
	if driver.confirmMessage != `Create preview from "feature/x"?` {
		t.Fatalf("confirm message: %q", driver.confirmMessage)
	}
}

func TestAskSubmission_Declined(t *testing.T) {
	driver := &stubDriver{inputs: map[string]string{"Branch or tag": "main"}}

	_, ok, err := prompt.AskSubmission(context.Background(), driver, createForm())
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if ok {
		t.Fatal("expected decline")
	}
}

func TestAskSubmission_Aborted(t *testing.T) {
	driver := &stubDriver{err: prompt.ErrAborted}

	_, _, err := prompt.AskSubmission(context.Background(), driver, createForm())
	if !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected abort, got %v", err)
	}
}

func createForm() model.FormModel {
	return model.FormModel{
		OperationID: "createPreview",
		Summary:     "Create preview",
		Fields: []model.Field{
			{Name: "ref", Type: model.FieldTypeString, Required: true, Label: "Branch or tag", Default: "main"},
			{Name: "type", Type: model.FieldTypeString, Label: "Ref type", Default: "branch", Enum: []any{"branch", "tag", "pullrequest"}},
			{Name: "name", Type: model.FieldTypeString, Label: "Preview name"},
			{Name: "secret", Type: model.FieldTypeString, UIHints: map[string]string{"hidden": "true"}},
		},
	}
}

type stubDriver struct {
	inputs  map[string]string
	selects map[string]int
	confirm bool
	err     error

	inputConfigs   map[string]prompt.InputConfig
	selectConfigs  map[string]prompt.SelectConfig
	confirmMessage string
}

func (s *stubDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.inputConfigs == nil {
		s.inputConfigs = map[string]prompt.InputConfig{}
	}
	s.inputConfigs[cfg.Message] = cfg
	return s.inputs[cfg.Message], nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg prompt.ConfirmConfig) (bool, error) {
	s.confirmMessage = cfg.Message
	return s.confirm, s.err
}

func (s *stubDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.selectConfigs == nil {
		s.selectConfigs = map[string]prompt.SelectConfig{}
	}
	s.selectConfigs[cfg.Message] = cfg
	return s.selects[cfg.Message], nil
}

func (s *stubDriver) Info(context.Context, string) error {
	return s.err
}
