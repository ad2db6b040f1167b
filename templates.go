package tugboat

import (
	"io/fs"

	"github.com/goliatone/go-tugboat/pkg/page"
	"github.com/goliatone/go-tugboat/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in form templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// PageTemplates exposes the create page template.
func PageTemplates() fs.FS {
	return page.TemplatesFS()
}

// AssetsFS exposes the bundled stylesheet. Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(tugboat.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
