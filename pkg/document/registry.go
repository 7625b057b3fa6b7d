package document

import (
	"fmt"
	"sync"

	"github.com/adrianliechti/docstofields/pkg/codec"
	"github.com/adrianliechti/docstofields/pkg/extractor"
)

// Record ties a file handle to its extracted text and layout blocks. Text and
// Blocks stay empty until extraction completes and may be overwritten by a
// later pipeline run.
type Record struct {
	File codec.File

	Text   string
	Blocks []extractor.Block
}

// Registry is an ordered collection of document records. Order is stable and
// is the join key used to correlate backend results back to local records.
type Registry struct {
	mu sync.Mutex

	records []Record
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends a record. Records are never reordered or deduplicated.
func (r *Registry) Add(file codec.File, text string, blocks []extractor.Block) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, Record{
		File: file,

		Text:   text,
		Blocks: blocks,
	})
}

func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = nil
}

// All returns the ordered records.
func (r *Registry) All() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]Record, len(r.records))
	copy(records, r.records)

	return records
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.records)
}

func (r *Registry) First() (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.records) == 0 {
		return Record{}, false
	}

	return r.records[0], true
}

// FindByName returns the first record whose file carries the given name.
func (r *Registry) FindByName(name string) (Record, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, record := range r.records {
		if record.File.Name == name {
			return record, i, true
		}
	}

	return Record{}, -1, false
}

func (r *Registry) ContainsName(name string) bool {
	_, _, ok := r.FindByName(name)
	return ok
}

// ReplaceTextAt updates one record's text and blocks while preserving its
// file handle. Passing nil blocks keeps the existing ones. An index beyond
// the current length signals an unrecoverable desynchronization between
// local and backend document ordering and panics.
func (r *Registry) ReplaceTextAt(index int, text string, blocks []extractor.Block) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.records) {
		panic(fmt.Sprintf("document: record index %d out of range (%d records)", index, len(r.records)))
	}

	r.records[index].Text = text

	if blocks != nil {
		r.records[index].Blocks = blocks
	}
}
