package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/adrianliechti/docstofields/pkg/codec"
	"github.com/adrianliechti/docstofields/pkg/document"
	"github.com/adrianliechti/docstofields/pkg/extract"
	"github.com/adrianliechti/docstofields/pkg/extractor"
	"github.com/adrianliechti/docstofields/pkg/field"
	"github.com/adrianliechti/docstofields/pkg/viewer"
)

// Backend resolves document text and runs completion passes. Implemented by
// extract.Service in-process and by client.Client over HTTP.
type Backend interface {
	ExtractText(ctx context.Context, req extract.ExtractTextRequest) (*extract.ExtractTextResponse, error)
	Extract(ctx context.Context, req extract.Request) (*extract.Response, error)
}

const (
	DefaultPrompt = "Documents:\n{input_documents}\n\nExtract the following fields from the document:\n{fields}\n\nResults in JSON only"

	DefaultClassifierPrompt = "Documents:\n{input_documents}\n\nClassify the document with one of the following labels:\n{labels}\n\nResult as document_label in JSON."

	DefaultSystemPrompt = "You are a helpful assistant that extracts fields from documents.\nYou only output results in JSON only."
)

// Settings parameterize extraction passes. Prompts left empty fall back to
// the defaults above; custom prompts must preserve the placeholder tokens.
type Settings struct {
	Key   string
	Model string

	Prompt           string
	SystemPrompt     string
	ClassifierPrompt string

	EnableTextract bool

	AIConfig *extract.AIConfig
}

// FileEvent is the lifecycle notification fired around text extraction.
type FileEvent string

const (
	FileEventStart FileEvent = "start"
	FileEventDone  FileEvent = "done"
	FileEventError FileEvent = "error"
)

// FileHook observes extraction lifecycle events. Hooks are best-effort and
// independent of the error result.
type FileHook func(event FileEvent, file *codec.File)

// Pipeline orchestrates field extraction and classification over a mutable
// document set: it collects documents whose text may arrive asynchronously,
// sends them with the declared fields or labels to a backend, and reconciles
// the structured result back onto the document collection.
type Pipeline struct {
	mu sync.Mutex

	backend Backend

	settings Settings

	documents *document.Registry
	fields    *field.Model

	viewer *viewer.Channel

	hook   FileHook
	logger *slog.Logger
}

type Option func(*Pipeline)

func WithSettings(settings Settings) Option {
	return func(p *Pipeline) {
		p.settings = settings
	}
}

func WithFileHook(hook FileHook) Option {
	return func(p *Pipeline) {
		p.hook = hook
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

func New(backend Backend, opts ...Option) *Pipeline {
	p := &Pipeline{
		backend: backend,

		documents: document.NewRegistry(),
		fields:    field.NewModel(),

		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *Pipeline) Documents() *document.Registry {
	return p.documents
}

func (p *Pipeline) FieldModel() *field.Model {
	return p.fields
}

// AttachViewer binds a viewer channel so extraction results are mirrored to
// the viewer window.
func (p *Pipeline) AttachViewer(channel *viewer.Channel) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.viewer = channel
}

func (p *Pipeline) Settings() Settings {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.settings
}

func (p *Pipeline) SetKey(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.settings.Key = key
}

func (p *Pipeline) SetModel(model string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.settings.Model = model
}

func (p *Pipeline) SetPrompt(prompt string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.settings.Prompt = prompt
}

func (p *Pipeline) SetSystemPrompt(prompt string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.settings.SystemPrompt = prompt
}

func (p *Pipeline) SetClassifierPrompt(prompt string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.settings.ClassifierPrompt = prompt
}

func (p *Pipeline) SetEnableTextract(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.settings.EnableTextract = enabled
}

func (p *Pipeline) SetAIConfig(config *extract.AIConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.settings.AIConfig = config
}

func (p *Pipeline) AddField(f field.Field) {
	p.fields.Add(f)
}

func (p *Pipeline) ClearFields() {
	p.fields.Clear()
}

func (p *Pipeline) SetClassifiers(classifiers map[string]field.Classifier) {
	p.fields.SetClassifiers(classifiers)
}

func (p *Pipeline) AddFile(file codec.File, text string, blocks []extractor.Block) {
	p.documents.Add(file, text, blocks)
}

func (p *Pipeline) ClearFiles() {
	p.documents.Clear()
}

func (p *Pipeline) Files() []document.Record {
	return p.documents.All()
}

// Handshake supplies the settings bundle and credential the viewer channel
// sends during its init exchange.
func (p *Pipeline) Handshake() (viewer.Settings, string) {
	settings := p.Settings()

	return viewer.Settings{
		Model: settings.Model,

		EnableTextract: settings.EnableTextract,

		Prompt:           settings.Prompt,
		SystemPrompt:     settings.SystemPrompt,
		ClassifierPrompt: settings.ClassifierPrompt,

		Classifiers: p.fields.Classifiers(),
	}, settings.Key
}

// ExtractText resolves the text of a single file through the backend and
// registers the document. A file already registered with text is returned
// from the registry without another backend call.
func (p *Pipeline) ExtractText(ctx context.Context, file codec.File) (string, error) {
	p.fire(FileEventStart, &file)

	if record, _, ok := p.documents.FindByName(file.Name); ok && record.Text != "" {
		p.fire(FileEventDone, &file)
		return record.Text, nil
	}

	encoded, err := codec.Encode(file)

	if err != nil {
		p.fire(FileEventError, &file)
		return "", err
	}

	settings := p.Settings()

	resp, err := p.backend.ExtractText(ctx, extract.ExtractTextRequest{
		File: *encoded,

		EnableTextract: settings.EnableTextract,
	})

	if err != nil {
		p.fire(FileEventError, &file)
		return "", fmt.Errorf("%w: %v", ErrExtractionBackend, err)
	}

	p.documents.Add(file, resp.Text, resp.Blocks)
	p.fire(FileEventDone, &file)

	// the record stays registered so a later pass can retry with more context
	if strings.TrimSpace(resp.Text) == "" {
		return resp.Text, ErrEmptyText
	}

	return resp.Text, nil
}

// Process runs one extraction or classification pass: resolves per-document
// payloads, sends them with the instruction template to the backend and
// parses the structured result. Revised document text returned by the
// backend is reconciled positionally onto the registry.
func (p *Pipeline) Process(ctx context.Context, prompt string, classify bool) (map[string]any, error) {
	if !classify && p.fields.Len() == 0 {
		return nil, ErrNoFields
	}

	records := p.documents.All()
	payloads := make([]extract.FilePayload, len(records))

	g, ctx := errgroup.WithContext(ctx)

	for i, record := range records {
		// documents with resolved text pass through, the rest travel encoded
		if record.Text != "" {
			payloads[i] = extract.FilePayload{
				Name: record.File.Name,

				Text:   record.Text,
				Blocks: record.Blocks,
			}

			continue
		}

		g.Go(func() error {
			encoded, err := codec.Encode(record.File)

			if err != nil {
				return err
			}

			payloads[i] = extract.FilePayload{
				Name:   encoded.Name,
				Base64: encoded.Base64,
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	settings := p.Settings()

	systemPrompt := settings.SystemPrompt

	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	fields := []field.Field{}
	labels := []field.Field{}

	if classify {
		labels = p.fields.Labels()
	} else {
		fields = p.fields.Fields()
	}

	resp, err := p.backend.Extract(ctx, extract.Request{
		Prompt:       prompt,
		SystemPrompt: systemPrompt,

		Fields: fields,
		Labels: labels,

		Files: payloads,

		Model: settings.Model,

		EnableTextract: settings.EnableTextract,

		AIConfig: settings.AIConfig,

		Key: settings.Key,
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompletionBackend, err)
	}

	if len(resp.Files) > 0 {
		if len(resp.Files) != len(records) {
			return nil, fmt.Errorf("%w: sent %d, received %d", ErrFileCountMismatch, len(records), len(resp.Files))
		}

		for i, f := range resp.Files {
			p.documents.ReplaceTextAt(i, f.Text, f.Blocks)
		}
	}

	var result map[string]any

	if err := json.Unmarshal([]byte(resp.Text), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return result, nil
}

// GetFields extracts the declared fields from the registered documents and
// mirrors the result to the viewer channel when one is attached.
func (p *Pipeline) GetFields(ctx context.Context) (map[string]any, error) {
	settings := p.Settings()

	prompt := settings.Prompt

	if prompt == "" {
		prompt = DefaultPrompt
	}

	result, err := p.Process(ctx, prompt, false)

	if err != nil {
		return nil, err
	}

	if channel := p.channel(); channel != nil {
		if err := channel.Broadcast(ctx, result); err != nil {
			p.logger.WarnContext(ctx, "error broadcasting result to viewer", "error", err)
		}
	}

	return result, nil
}

// Classify labels the registered documents with one of the configured
// classifier labels. Lookup never fails; an unmatched or missing label
// degrades to the not-found marker.
func (p *Pipeline) Classify(ctx context.Context) (field.Match, error) {
	settings := p.Settings()

	prompt := settings.ClassifierPrompt

	if prompt == "" {
		prompt = DefaultClassifierPrompt
	}

	result, err := p.Process(ctx, prompt, true)

	if err != nil {
		return field.Match{}, err
	}

	label, ok := result["document_label"].(string)

	if !ok {
		return field.NotFound(), nil
	}

	classifier, ok := p.fields.LookupClassifier(label)

	if !ok {
		return field.NotFound(), nil
	}

	return field.Match{
		Classifier: classifier,

		Label: label,
	}, nil
}

func (p *Pipeline) channel() *viewer.Channel {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.viewer
}

func (p *Pipeline) fire(event FileEvent, file *codec.File) {
	p.mu.Lock()
	hook := p.hook
	p.mu.Unlock()

	if hook != nil {
		hook(event, file)
	}
}
