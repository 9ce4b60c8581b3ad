package command

import (
	"os"
	"strconv"

	"github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-report/report"
)

// DocumentFile describes a report outside of a form submission.
type DocumentFile struct {
	Title            string            `yaml:"title"`
	Author           string            `yaml:"author"`
	Date             string            `yaml:"date"`
	DocumentType     string            `yaml:"document_type"`
	ExecutiveSummary string            `yaml:"executive_summary"`
	Sections         []DocumentSection `yaml:"sections"`
}

// DocumentSection is one titled block of a DocumentFile.
type DocumentSection struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// Fields flattens the document into the field names used by form submissions.
func (d DocumentFile) Fields() report.Fields {
	fields := report.Fields{
		report.FieldTitle:            d.Title,
		report.FieldAuthor:           d.Author,
		report.FieldDate:             d.Date,
		report.FieldExecutiveSummary: d.ExecutiveSummary,
		report.FieldSectionCount:     strconv.Itoa(len(d.Sections)),
	}
	if d.DocumentType != "" {
		fields[report.FieldDocumentType] = d.DocumentType
	}
	for i, section := range d.Sections {
		idx := strconv.Itoa(i)
		fields[report.FieldSectionTitle+idx] = section.Title
		fields[report.FieldSectionContent+idx] = section.Content
	}
	return fields
}

// Form decodes the document with the same rules as a submitted form.
func (d DocumentFile) Form(mode report.Mode, opts ...report.FormOptions) (report.Form, error) {
	return report.DecodeForm(d.Fields(), mode, opts...)
}

// LoadDocumentFile reads a YAML document description from path.
func LoadDocumentFile(path string) (DocumentFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return DocumentFile{}, errors.Wrap(err, errors.CategoryExternal, "read document file failed").
			WithTextCode("DOCUMENT_FILE_READ")
	}
	return ParseDocumentFile(content)
}

// ParseDocumentFile decodes a YAML document description.
func ParseDocumentFile(content []byte) (DocumentFile, error) {
	var doc DocumentFile
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return DocumentFile{}, errors.Wrap(err, errors.CategoryValidation, "document file invalid YAML").
			WithTextCode("DOCUMENT_FILE_INVALID")
	}
	return doc, nil
}
