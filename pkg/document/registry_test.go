package document_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adrianliechti/docstofields/pkg/codec"
	"github.com/adrianliechti/docstofields/pkg/document"
	"github.com/adrianliechti/docstofields/pkg/extractor"
)

func TestRegistryOrder(t *testing.T) {
	r := document.NewRegistry()

	r.Add(codec.File{Name: "a.pdf"}, "alpha", nil)
	r.Add(codec.File{Name: "b.pdf"}, "", nil)
	r.Add(codec.File{Name: "a.pdf"}, "duplicate", nil)

	records := r.All()
	require.Len(t, records, 3)

	require.Equal(t, "a.pdf", records[0].File.Name)
	require.Equal(t, "b.pdf", records[1].File.Name)
	require.Equal(t, "a.pdf", records[2].File.Name)

	first, ok := r.First()
	require.True(t, ok)
	require.Equal(t, "alpha", first.Text)
}

func TestRegistryFindByName(t *testing.T) {
	r := document.NewRegistry()

	r.Add(codec.File{Name: "a.pdf"}, "alpha", nil)
	r.Add(codec.File{Name: "b.pdf"}, "beta", nil)

	record, index, ok := r.FindByName("b.pdf")
	require.True(t, ok)
	require.Equal(t, 1, index)
	require.Equal(t, "beta", record.Text)

	_, _, ok = r.FindByName("c.pdf")
	require.False(t, ok)

	require.True(t, r.ContainsName("a.pdf"))
	require.False(t, r.ContainsName("c.pdf"))
}

func TestRegistryReplaceTextAt(t *testing.T) {
	r := document.NewRegistry()

	blocks := []extractor.Block{{Page: 1, Text: "header"}}

	r.Add(codec.File{Name: "a.pdf"}, "old", blocks)

	r.ReplaceTextAt(0, "new", nil)

	record, _, _ := r.FindByName("a.pdf")
	require.Equal(t, "new", record.Text)
	require.Equal(t, blocks, record.Blocks)

	r.ReplaceTextAt(0, "newer", []extractor.Block{{Page: 2, Text: "footer"}})

	record, _, _ = r.FindByName("a.pdf")
	require.Equal(t, "newer", record.Text)
	require.Equal(t, 2, record.Blocks[0].Page)
}

func TestRegistryReplaceTextAtOutOfRange(t *testing.T) {
	r := document.NewRegistry()
	r.Add(codec.File{Name: "a.pdf"}, "alpha", nil)

	require.Panics(t, func() {
		r.ReplaceTextAt(1, "beta", nil)
	})

	require.Panics(t, func() {
		r.ReplaceTextAt(-1, "beta", nil)
	})
}

func TestRegistryClear(t *testing.T) {
	r := document.NewRegistry()

	r.Add(codec.File{Name: "a.pdf"}, "alpha", nil)
	r.Clear()

	require.Equal(t, 0, r.Len())

	_, ok := r.First()
	require.False(t, ok)
}
