// Package template defines the renderer-agnostic template seam. Renderers and
// the create preview page depend on TemplateRenderer; gotemplate provides the
// pongo2-backed implementation.
package template
