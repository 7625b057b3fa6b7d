package field

import (
	"sort"
	"strings"
	"sync"
)

// Field is a named, described piece of information to extract from a
// document set. Duplicates by name are permitted; insertion order controls
// instruction ordering.
type Field struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Classifier is a named category with a description plus arbitrary extra
// attributes, used to bind a free-text model output to caller metadata.
type Classifier struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`

	Fields []Field `json:"fields,omitempty"`

	Attributes map[string]any `json:"attributes,omitempty"`
}

// Match is the result of a classification lookup. A lookup never fails; when
// nothing matches it degrades to the not-found marker.
type Match struct {
	Classifier

	Label string `json:"label"`
}

const NotFoundLabel = "Not found"

// NotFound returns the marker result for an unmatched classification.
func NotFound() Match {
	return Match{
		Classifier: Classifier{
			Fields: []Field{},
		},

		Label: NotFoundLabel,
	}
}

// Model holds the declared extraction fields and the classifier
// configuration with its derived label view.
type Model struct {
	mu sync.Mutex

	fields []Field

	classifiers map[string]Classifier
	keys        []string
	labels      []Field
}

func NewModel() *Model {
	return &Model{}
}

func (m *Model) Add(field Field) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fields = append(m.fields, field)
}

func (m *Model) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fields = nil
}

func (m *Model) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.fields)
}

func (m *Model) Fields() []Field {
	m.mu.Lock()
	defer m.mu.Unlock()

	fields := make([]Field, len(m.fields))
	copy(fields, m.fields)

	return fields
}

// SetClassifiers stores the classifier configuration and derives the label
// view used for instruction building. Keys are ordered deterministically.
func (m *Model) SetClassifiers(classifiers map[string]Classifier) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(classifiers))

	for key := range classifiers {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	labels := make([]Field, 0, len(keys))

	for _, key := range keys {
		labels = append(labels, Field{
			Name:        key,
			Description: classifiers[key].Description,
		})
	}

	m.classifiers = classifiers
	m.keys = keys
	m.labels = labels
}

func (m *Model) Classifiers() map[string]Classifier {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.classifiers
}

func (m *Model) Labels() []Field {
	m.mu.Lock()
	defer m.mu.Unlock()

	labels := make([]Field, len(m.labels))
	copy(labels, m.labels)

	return labels
}

// LookupClassifier finds the classifier for a returned label. The match is a
// case-insensitive substring comparison in either direction, first match
// wins in key order.
func (m *Model) LookupClassifier(label string) (Classifier, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(label)

	for _, key := range m.keys {
		candidate := strings.ToLower(key)

		if strings.Contains(needle, candidate) || strings.Contains(candidate, needle) {
			return m.classifiers[key], true
		}
	}

	return Classifier{}, false
}
