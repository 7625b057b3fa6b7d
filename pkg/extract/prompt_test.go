package extract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adrianliechti/docstofields/pkg/field"
)

func TestRenderPrompt(t *testing.T) {
	files := []FilePayload{
		{Name: "a.pdf", Text: "hi"},
	}

	fields := []field.Field{
		{Name: "x", Description: "y"},
	}

	result := renderPrompt("Docs:{input_documents} Fields:{fields}", files, fields, nil)

	require.Contains(t, result, "Document 1 (a.pdf):\nhi")
	require.Contains(t, result, "- x: y")
	require.NotContains(t, result, "{fields}")
	require.NotContains(t, result, "{input_documents}")
}

func TestRenderPromptMultipleDocuments(t *testing.T) {
	files := []FilePayload{
		{Name: "a.pdf", Text: "alpha"},
		{Name: "b.pdf", Text: "beta"},
	}

	result := renderPrompt("{input_documents}", files, nil, nil)

	require.Equal(t, "Document 1 (a.pdf):\nalpha\n\nDocument 2 (b.pdf):\nbeta", result)
}

func TestRenderPromptFirstOccurrenceOnly(t *testing.T) {
	fields := []field.Field{
		{Name: "x", Description: "y"},
	}

	result := renderPrompt("{fields} and again {fields}", nil, fields, nil)

	require.Equal(t, "- x: y and again {fields}", result)
}

func TestRenderPromptUnmatchedTokensVerbatim(t *testing.T) {
	// no labels supplied, so the token stays untouched
	result := renderPrompt("Labels:{labels}", nil, nil, nil)
	require.Equal(t, "Labels:{labels}", result)

	// unknown tokens never error
	result = renderPrompt("{whatever}", nil, nil, nil)
	require.Equal(t, "{whatever}", result)
}

func TestRenderPromptLabels(t *testing.T) {
	labels := []field.Field{
		{Name: "Invoice", Description: "A billing document"},
		{Name: "Receipt", Description: ""},
	}

	result := renderPrompt("{labels}", nil, nil, labels)

	require.Equal(t, "- Invoice: A billing document\n- Receipt: ", result)
}

func TestRenderFieldsDefaultDescription(t *testing.T) {
	fields := []field.Field{
		{Name: "amount"},
	}

	result := renderPrompt("{fields}", nil, fields, nil)

	require.Equal(t, "- amount: Extract this field", result)
}
