package summary

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded receipt bundle for callers that want the
// default text output as a starting point for their own templates.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
