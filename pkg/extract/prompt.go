package extract

import (
	"fmt"
	"strings"

	"github.com/adrianliechti/docstofields/pkg/field"
)

const (
	PlaceholderDocuments = "{input_documents}"
	PlaceholderFields    = "{fields}"
	PlaceholderLabels    = "{labels}"
)

// DefaultFieldDescription stands in for fields declared without one.
const DefaultFieldDescription = "Extract this field"

// renderPrompt substitutes the first occurrence of each placeholder token.
// Unmatched placeholders are left verbatim.
func renderPrompt(prompt string, files []FilePayload, fields, labels []field.Field) string {
	prompt = strings.Replace(prompt, PlaceholderDocuments, renderDocuments(files), 1)

	if len(fields) > 0 {
		prompt = strings.Replace(prompt, PlaceholderFields, renderFields(fields), 1)
	}

	if len(labels) > 0 {
		prompt = strings.Replace(prompt, PlaceholderLabels, renderLabels(labels), 1)
	}

	return prompt
}

func renderDocuments(files []FilePayload) string {
	sections := make([]string, 0, len(files))

	for i, f := range files {
		sections = append(sections, fmt.Sprintf("Document %d (%s):\n%s", i+1, f.Name, f.Text))
	}

	return strings.Join(sections, "\n\n")
}

func renderFields(fields []field.Field) string {
	lines := make([]string, 0, len(fields))

	for _, f := range fields {
		description := f.Description

		if description == "" {
			description = DefaultFieldDescription
		}

		lines = append(lines, "- "+f.Name+": "+description)
	}

	return strings.Join(lines, "\n")
}

func renderLabels(labels []field.Field) string {
	lines := make([]string, 0, len(labels))

	for _, l := range labels {
		lines = append(lines, "- "+l.Name+": "+l.Description)
	}

	return strings.Join(lines, "\n")
}
