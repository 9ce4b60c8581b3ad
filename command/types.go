package command

import (
	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-report/report"
)

// PreviewReport renders a submitted document as an HTML preview.
type PreviewReport struct {
	Form   report.Form
	Result *report.Document
}

func (PreviewReport) Type() string { return "report:preview" }

func (msg PreviewReport) Validate() error {
	return validateForm(msg.Form)
}

// GenerateReport renders a submitted document and converts it to PDF.
type GenerateReport struct {
	Form   report.Form
	Result *report.PDFDocument
}

func (GenerateReport) Type() string { return "report:generate" }

func (msg GenerateReport) Validate() error {
	return validateForm(msg.Form)
}

func validateForm(form report.Form) error {
	if form.Title == "" {
		return errors.New("title is required", errors.CategoryValidation).
			WithTextCode("TITLE_REQUIRED")
	}
	if form.Author == "" {
		return errors.New("author is required", errors.CategoryValidation).
			WithTextCode("AUTHOR_REQUIRED")
	}
	if form.SectionCount > 0 && form.Fields == nil {
		return errors.New("section fields are required", errors.CategoryValidation).
			WithTextCode("SECTION_FIELDS_REQUIRED")
	}
	return nil
}
