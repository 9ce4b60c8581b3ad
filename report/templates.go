package report

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded index and report templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// This should never happen because the directory is embedded at build time.
		panic(fmt.Errorf("report: failed to prepare embedded templates: %w", err))
	}
	return sub
}

// DocumentTypes lists the document types offered by the submission form.
var DocumentTypes = []string{
	DefaultDocumentType,
	"Technical Report",
	"Project Proposal",
	"Meeting Minutes",
	"White Paper",
}
