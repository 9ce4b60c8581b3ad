package report

import (
	"context"
	"io"
	"time"
)

const (
	// PreviewGenerationDate is the generation date shown on HTML previews.
	PreviewGenerationDate = "Preview Mode"
	// GenerationDateLayout formats the generation timestamp of PDF output.
	GenerationDateLayout = "2006-01-02 15:04"
	// DefaultDocumentType is used by PDF generation when no document type is submitted.
	DefaultDocumentType = "Business Report"
	// DefaultPDFFilename is the attachment name of generated PDFs.
	DefaultPDFFilename = "report.pdf"
	// ContentTypePDF is the media type of generated PDFs.
	ContentTypePDF = "application/pdf"
	// ContentTypeHTML is the media type of rendered pages.
	ContentTypeHTML = "text/html; charset=utf-8"

	// TemplateIndex renders the submission form.
	TemplateIndex = "index"
	// TemplateReport renders a document for preview and PDF conversion.
	TemplateReport = "report"
)

// Form field names.
const (
	FieldTitle            = "title"
	FieldAuthor           = "author"
	FieldDate             = "date"
	FieldDocumentType     = "document_type"
	FieldExecutiveSummary = "executive_summary"
	FieldSectionCount     = "section_count"
	FieldSectionTitle     = "section_title_"
	FieldSectionContent   = "section_content_"
)

// FieldSource looks up submitted form values by name.
// url.Values satisfies it.
type FieldSource interface {
	Get(key string) string
}

// Fields is a map based FieldSource.
type Fields map[string]string

// Get returns the value stored under key.
func (f Fields) Get(key string) string {
	if f == nil {
		return ""
	}
	return f[key]
}

// Has reports whether key was submitted, even with an empty value.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Mode selects the form rules applied while decoding.
type Mode string

const (
	ModePreview Mode = "preview"
	ModePDF     Mode = "pdf"
)

// Section is a titled block of multi-line content.
type Section struct {
	Index   int
	Title   string
	Content string
}

// Header holds the statically named document fields.
type Header struct {
	Title            string
	Author           string
	Date             string
	DocumentType     string
	ExecutiveSummary string
}

// Form is a decoded document submission.
type Form struct {
	Header
	SectionCount int
	Fields       FieldSource
}

// DocumentData is the flat record handed to the report template.
type DocumentData struct {
	Title            string `json:"title" yaml:"title"`
	Author           string `json:"author" yaml:"author"`
	Date             string `json:"date" yaml:"date"`
	DocumentType     string `json:"document_type" yaml:"document_type"`
	ExecutiveSummary string `json:"executive_summary" yaml:"executive_summary"`
	Content          string `json:"content" yaml:"content"`
	GenerationDate   string `json:"generation_date" yaml:"generation_date"`
}

// Document is a rendered HTML preview.
type Document struct {
	Data DocumentData
	HTML []byte
}

// PDFDocument is a generated PDF ready for download.
type PDFDocument struct {
	Filename    string
	ContentType string
	Bytes       []byte
	GeneratedAt time.Time
}

// TemplateExecutor executes a named template with data.
type TemplateExecutor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

// PDFOptions configures PDF output for headless engines.
type PDFOptions struct {
	PageSize             string                  `yaml:"page_size"`
	Landscape            *bool                   `yaml:"landscape"`
	PrintBackground      *bool                   `yaml:"print_background"`
	Scale                float64                 `yaml:"scale"`
	MarginTop            string                  `yaml:"margin_top"`
	MarginBottom         string                  `yaml:"margin_bottom"`
	MarginLeft           string                  `yaml:"margin_left"`
	MarginRight          string                  `yaml:"margin_right"`
	PreferCSSPageSize    *bool                   `yaml:"prefer_css_page_size"`
	BaseURL              string                  `yaml:"base_url"`
	ExternalAssetsPolicy PDFExternalAssetsPolicy `yaml:"external_assets_policy"`
}

// PDFExternalAssetsPolicy controls how external assets are handled in PDF rendering.
type PDFExternalAssetsPolicy string

const (
	PDFExternalAssetsUnspecified PDFExternalAssetsPolicy = ""
	PDFExternalAssetsAllow       PDFExternalAssetsPolicy = "allow"
	PDFExternalAssetsBlock       PDFExternalAssetsPolicy = "block"
)

// Converter turns rendered HTML into PDF bytes.
type Converter interface {
	Convert(ctx context.Context, html []byte, opts PDFOptions) ([]byte, error)
}

// ConverterFunc adapts a function to a Converter.
type ConverterFunc func(ctx context.Context, html []byte, opts PDFOptions) ([]byte, error)

func (f ConverterFunc) Convert(ctx context.Context, html []byte, opts PDFOptions) ([]byte, error) {
	if f == nil {
		return nil, NewError(KindInternal, "converter func is nil", nil)
	}
	return f(ctx, html, opts)
}

// Logger provides logging hooks.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger is a no-op logger.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
