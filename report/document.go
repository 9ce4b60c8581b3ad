package report

// BuildDocumentData assembles the record rendered by the report template.
// Values are copied as given.
func BuildDocumentData(header Header, content, generationDate string) DocumentData {
	return DocumentData{
		Title:            header.Title,
		Author:           header.Author,
		Date:             header.Date,
		DocumentType:     header.DocumentType,
		ExecutiveSummary: header.ExecutiveSummary,
		Content:          content,
		GenerationDate:   generationDate,
	}
}

// Context exposes the record under the snake_case keys used by templates.
func (d DocumentData) Context() map[string]any {
	return map[string]any{
		"title":             d.Title,
		"author":            d.Author,
		"date":              d.Date,
		"document_type":     d.DocumentType,
		"executive_summary": d.ExecutiveSummary,
		"content":           d.Content,
		"generation_date":   d.GenerationDate,
	}
}
