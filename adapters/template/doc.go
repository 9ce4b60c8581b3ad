// Package reporttemplate renders go-report pages with pongo2 (Django-style)
// templates.
//
// Engine implements report.TemplateExecutor. Templates are resolved by name
// with DefaultExtension appended, from a directory (WithBaseDir), an fs.FS
// (WithFS) or both. The embedded defaults are available via
// report.TemplatesFS. Parsed templates are cached unless WithReload is set.
package reporttemplate
