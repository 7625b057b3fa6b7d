package field_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adrianliechti/docstofields/pkg/field"
)

func TestModelFields(t *testing.T) {
	m := field.NewModel()

	m.Add(field.Field{Name: "total", Description: "Invoice total"})
	m.Add(field.Field{Name: "date"})

	require.Equal(t, 2, m.Len())

	fields := m.Fields()
	require.Equal(t, "total", fields[0].Name)
	require.Equal(t, "date", fields[1].Name)

	m.Clear()
	require.Equal(t, 0, m.Len())
}

func TestModelLabels(t *testing.T) {
	m := field.NewModel()

	m.SetClassifiers(map[string]field.Classifier{
		"Receipt": {Description: "A purchase receipt"},
		"Invoice": {Description: "A billing document"},
	})

	labels := m.Labels()
	require.Len(t, labels, 2)

	// label order is deterministic regardless of map iteration
	require.Equal(t, "Invoice", labels[0].Name)
	require.Equal(t, "A billing document", labels[0].Description)
	require.Equal(t, "Receipt", labels[1].Name)
}

func TestLookupClassifier(t *testing.T) {
	m := field.NewModel()

	m.SetClassifiers(map[string]field.Classifier{
		"Invoice": {Description: "A billing document"},
		"Receipt": {Description: "A purchase receipt"},
	})

	tests := []struct {
		label string
		found bool
	}{
		{"Invoice", true},
		{"invoice", true},
		{"INVOICE-TYPE", true},
		{"receipt", true},
		{"contract", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			classifier, ok := m.LookupClassifier(tt.label)
			require.Equal(t, tt.found, ok)

			if tt.found && tt.label != "receipt" {
				require.Equal(t, "A billing document", classifier.Description)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	match := field.NotFound()

	require.Equal(t, "Not found", match.Label)
	require.NotNil(t, match.Fields)
	require.Empty(t, match.Fields)
}
