package model

import internalmodel "github.com/goliatone/go-tugboat/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeString  = internalmodel.FieldTypeString
	FieldTypeInteger = internalmodel.FieldTypeInteger
	FieldTypeNumber  = internalmodel.FieldTypeNumber
	FieldTypeBoolean = internalmodel.FieldTypeBoolean
	FieldTypeArray   = internalmodel.FieldTypeArray
	FieldTypeObject  = internalmodel.FieldTypeObject
)

// ActionKind re-exports the internal action kinds.
type ActionKind = internalmodel.ActionKind

const (
	ActionKindSubmit = internalmodel.ActionKindSubmit
	ActionKindReset  = internalmodel.ActionKindReset
	ActionKindLink   = internalmodel.ActionKindLink
)

const (
	ValidationRuleMin       = internalmodel.ValidationRuleMin
	ValidationRuleMax       = internalmodel.ValidationRuleMax
	ValidationRuleMinLength = internalmodel.ValidationRuleMinLength
	ValidationRuleMaxLength = internalmodel.ValidationRuleMaxLength
	ValidationRulePattern   = internalmodel.ValidationRulePattern
)

// DefaultSubmitLabel is the caption used when a form declares no action.
const DefaultSubmitLabel = internalmodel.DefaultSubmitLabel

type ValidationRule = internalmodel.ValidationRule
type Field = internalmodel.Field
type Action = internalmodel.Action
type FormModel = internalmodel.FormModel
