// Package openapi exposes the public contracts for the loader and parser
// stages that turn an OpenAPI description into operations. Implementations
// live under internal/openapi to keep kin-openapi out of the public API.
package openapi
