package report

import (
	"fmt"
	"strconv"
	"strings"
)

const msgFieldRequired = "field required"

// FormOptions tunes DecodeForm.
type FormOptions struct {
	// MaxSections rejects larger section counts. Zero disables the limit.
	MaxSections int
}

// DecodeForm validates submitted values and extracts the document header.
//
// title, author, date and section_count are required in both modes.
// document_type is required for previews and falls back to
// DefaultDocumentType for PDF generation.
func DecodeForm(values FieldSource, mode Mode, opts ...FormOptions) (Form, error) {
	if values == nil {
		values = Fields{}
	}
	var options FormOptions
	if len(opts) > 0 {
		options = opts[0]
	}

	var problems []FieldError
	required := func(name string) string {
		value := values.Get(name)
		if value == "" {
			problems = append(problems, FieldError{Field: name, Message: msgFieldRequired})
		}
		return value
	}

	form := Form{Fields: values}
	form.Title = required(FieldTitle)
	form.Author = required(FieldAuthor)
	form.Date = required(FieldDate)

	switch mode {
	case ModePDF:
		// The default applies only to an absent field; a submitted empty
		// value is kept.
		form.DocumentType = values.Get(FieldDocumentType)
		if form.DocumentType == "" && !submitted(values, FieldDocumentType) {
			form.DocumentType = DefaultDocumentType
		}
	default:
		form.DocumentType = required(FieldDocumentType)
	}
	form.ExecutiveSummary = values.Get(FieldExecutiveSummary)

	if raw := required(FieldSectionCount); raw != "" {
		count, err := strconv.Atoi(strings.TrimSpace(raw))
		switch {
		case err != nil:
			problems = append(problems, FieldError{Field: FieldSectionCount, Message: "value is not a valid integer"})
		case options.MaxSections > 0 && count > options.MaxSections:
			problems = append(problems, FieldError{
				Field:   FieldSectionCount,
				Message: fmt.Sprintf("value must not exceed %d", options.MaxSections),
			})
		default:
			form.SectionCount = count
		}
	}

	if len(problems) > 0 {
		return Form{}, NewValidationError("invalid form submission", problems...)
	}
	return form, nil
}

// submitted reports whether name is present in values. Sources that cannot
// tell absent from empty are treated as absent.
func submitted(values FieldSource, name string) bool {
	if src, ok := values.(interface{ Has(string) bool }); ok {
		return src.Has(name)
	}
	return false
}
