package viewer

import (
	"github.com/adrianliechti/docstofields/pkg/codec"
	"github.com/adrianliechti/docstofields/pkg/extractor"
	"github.com/adrianliechti/docstofields/pkg/field"
)

// Source tags identify the sender side of an envelope so either side can
// ignore messages not addressed to it.
const (
	SourceHost   = "docstofields"
	SourceViewer = "doc2fields-viewer"
)

type MessageType string

const (
	// inbound from the viewer
	MessageInit            MessageType = "init"
	MessageExtractedFields MessageType = "extractedFields"
	MessageLocation        MessageType = "location"
	MessageSize            MessageType = "size"

	// outbound to the viewer
	MessageShowFields  MessageType = "showFields"
	MessageFields      MessageType = "fields"
	MessageKey         MessageType = "key"
	MessageSettings    MessageType = "settings"
	MessageFieldValues MessageType = "fieldValues"

	// both directions
	MessageFile MessageType = "file"
)

// Envelope is the cross-window wire format: a type discriminator, a source
// tag and the union of type-specific payload fields.
type Envelope struct {
	Type   MessageType `json:"type"`
	Source string      `json:"source"`

	ShowFields *bool         `json:"showFields,omitempty"`
	Fields     []field.Field `json:"fields,omitempty"`

	Key string `json:"key,omitempty"`

	Settings *Settings `json:"settings,omitempty"`

	File *codec.Encoded `json:"file,omitempty"`
	Text string         `json:"text,omitempty"`

	FieldValues map[string]any    `json:"fieldValues,omitempty"`
	Blocks      []extractor.Block `json:"blocks,omitempty"`

	ExtractedFields map[string]any `json:"extractedFields,omitempty"`

	Location *Point `json:"location,omitempty"`
	Size     *Size  `json:"size,omitempty"`
}

// Settings is the configuration bundle shared with the viewer during the
// handshake.
type Settings struct {
	Model string `json:"model,omitempty"`

	EnableTextract bool `json:"enableTextract"`

	Prompt           string `json:"prompt,omitempty"`
	SystemPrompt     string `json:"systemPrompt,omitempty"`
	ClassifierPrompt string `json:"classifierPrompt,omitempty"`

	Classifiers map[string]field.Classifier `json:"classifiers,omitempty"`
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Geometry is the viewer window placement, persisted across sessions.
type Geometry struct {
	X int `json:"x"`
	Y int `json:"y"`

	Width  int `json:"width"`
	Height int `json:"height"`
}
