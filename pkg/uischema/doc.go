// Package uischema loads JSON or YAML overlays that adjust generated forms
// without touching the OpenAPI document: titles, submit labels, field labels,
// placeholders, help text, visibility, order and widgets.
package uischema
