package report

import (
	"strconv"
	"strings"
)

// SectionTitleField returns the form field holding the title of section i.
func SectionTitleField(i int) string {
	return FieldSectionTitle + strconv.Itoa(i)
}

// SectionContentField returns the form field holding the content of section i.
func SectionContentField(i int) string {
	return FieldSectionContent + strconv.Itoa(i)
}

// CollectSections reads sections 0..count-1 from fields in index order.
// Indices with an empty title or empty content are skipped.
func CollectSections(fields FieldSource, count int) []Section {
	if fields == nil || count <= 0 {
		return nil
	}
	sections := make([]Section, 0, min(count, 32))
	for i := 0; i < count; i++ {
		title := fields.Get(SectionTitleField(i))
		content := fields.Get(SectionContentField(i))
		if title == "" || content == "" {
			continue
		}
		sections = append(sections, Section{Index: i, Title: title, Content: content})
	}
	return sections
}

// SectionLines splits content into its non-blank lines.
func SectionLines(content string) []string {
	raw := strings.Split(content, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// RenderSections writes each section as a heading followed by one
// paragraph per non-blank content line.
func RenderSections(sections []Section, policy ContentPolicy) string {
	var b strings.Builder
	for _, section := range sections {
		b.WriteString(`<h3 class="report-section-title">`)
		b.WriteString(policy.Apply(section.Title))
		b.WriteString("</h3>\n")
		for _, line := range SectionLines(section.Content) {
			b.WriteString("<p>")
			b.WriteString(policy.Apply(line))
			b.WriteString("</p>\n")
		}
	}
	return b.String()
}

// AssembleSections builds the HTML body of a document from indexed form fields.
func AssembleSections(fields FieldSource, count int, policy ContentPolicy) string {
	return RenderSections(CollectSections(fields, count), policy)
}
