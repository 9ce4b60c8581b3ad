package report

import (
	"bytes"
	"context"
	"time"
)

// Service renders submitted documents as HTML previews and PDFs.
type Service interface {
	Index(ctx context.Context) ([]byte, error)
	Preview(ctx context.Context, form Form) (Document, error)
	GeneratePDF(ctx context.Context, form Form) (PDFDocument, error)
}

// ServiceConfig supplies dependencies for Service.
type ServiceConfig struct {
	Templates TemplateExecutor
	Converter Converter
	Policy    ContentPolicy
	PDF       PDFOptions
	Now       func() time.Time
	Location  *time.Location
	Logger    Logger
	// IndexData is merged into the index template context.
	IndexData   map[string]any
	MaxSections int
}

type service struct {
	templates   TemplateExecutor
	converter   Converter
	policy      ContentPolicy
	pdf         PDFOptions
	now         func() time.Time
	location    *time.Location
	logger      Logger
	indexData   map[string]any
	maxSections int
}

// NewService creates a Service with the provided configuration.
func NewService(cfg ServiceConfig) Service {
	policy := cfg.Policy
	if policy == "" {
		policy = DefaultContentPolicy
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	location := cfg.Location
	if location == nil {
		location = time.Local
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	indexData := make(map[string]any, len(cfg.IndexData))
	for key, value := range cfg.IndexData {
		indexData[key] = value
	}

	return &service{
		templates:   cfg.Templates,
		converter:   cfg.Converter,
		policy:      policy,
		pdf:         cfg.PDF,
		now:         nowFn,
		location:    location,
		logger:      logger,
		indexData:   indexData,
		maxSections: cfg.MaxSections,
	}
}

func (s *service) Index(ctx context.Context) ([]byte, error) {
	data := map[string]any{
		"document_types":        DocumentTypes,
		"default_document_type": DefaultDocumentType,
		"max_sections":          s.maxSections,
	}
	for key, value := range s.indexData {
		data[key] = value
	}
	return s.render(ctx, TemplateIndex, data)
}

func (s *service) Preview(ctx context.Context, form Form) (Document, error) {
	data := s.documentData(form, PreviewGenerationDate)
	html, err := s.render(ctx, TemplateReport, reportContext(data, true))
	if err != nil {
		return Document{}, err
	}
	s.logger.Debugf("report preview rendered: title=%q sections=%d bytes=%d", data.Title, form.SectionCount, len(html))
	return Document{Data: data, HTML: html}, nil
}

func (s *service) GeneratePDF(ctx context.Context, form Form) (PDFDocument, error) {
	if s.converter == nil {
		return PDFDocument{}, NewError(KindNotImpl, "pdf converter is not configured", nil)
	}

	generatedAt := s.now().In(s.location)
	data := s.documentData(form, generatedAt.Format(GenerationDateLayout))
	html, err := s.render(ctx, TemplateReport, reportContext(data, false))
	if err != nil {
		return PDFDocument{}, err
	}

	start := time.Now()
	pdf, err := s.converter.Convert(ctx, html, s.pdf)
	if err == nil && len(pdf) == 0 {
		err = NewError(KindConversion, "converter returned empty output", nil)
	}
	if err != nil {
		s.logger.Errorf("report pdf conversion failed: title=%q: %v", data.Title, err)
		switch KindFromError(err) {
		case KindConversion, KindInternal:
			return PDFDocument{}, NewError(KindConversion, MsgPDFGenerationFailed, err)
		default:
			return PDFDocument{}, err
		}
	}
	s.logger.Infof("report pdf generated: title=%q bytes=%d duration=%s", data.Title, len(pdf), time.Since(start))

	return PDFDocument{
		Filename:    DefaultPDFFilename,
		ContentType: ContentTypePDF,
		Bytes:       pdf,
		GeneratedAt: generatedAt,
	}, nil
}

func (s *service) documentData(form Form, generationDate string) DocumentData {
	content := AssembleSections(form.Fields, form.SectionCount, s.policy)
	return BuildDocumentData(form.Header, content, generationDate)
}

func (s *service) render(ctx context.Context, name string, data map[string]any) ([]byte, error) {
	if s.templates == nil {
		return nil, NewError(KindInternal, "templates are not configured", nil)
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, NewError(KindRender, "template "+name+" failed to render", err)
	}
	return buf.Bytes(), nil
}

func reportContext(data DocumentData, preview bool) map[string]any {
	return map[string]any{
		"data":    data.Context(),
		"preview": preview,
	}
}
