// Package model defines the form structure handed to renderers and to the
// create preview page. Builders live in internal/model but return the types
// defined here. Schema extensions under the `x-formgen` namespace flow into
// FormModel and Field metadata, while the curated UIHints map carries
// renderer-facing directives (`placeholder`, `helpText`, `cssClass`,
// `inputType`, `widget`, `hidden`, `hideLabel`, `submitLabel`).
package model
