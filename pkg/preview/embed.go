package preview

import (
	"embed"
	"io/fs"
)

//go:embed schema/*.yaml
var embeddedSchema embed.FS

// SchemaFile is the name of the create preview OpenAPI description inside
// SchemaFS.
const SchemaFile = "preview.yaml"

// SchemaFS exposes the embedded OpenAPI description of the preview endpoints.
func SchemaFS() fs.FS {
	sub, err := fs.Sub(embeddedSchema, "schema")
	if err != nil {
		panic(err)
	}
	return sub
}
