// Package orchestrator wires the loader, parser, model builder, decorators,
// theme selection and renderer into a single entry point. BuildForm stops
// before rendering for callers that wrap the form themselves.
package orchestrator
