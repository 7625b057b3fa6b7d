package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/adrianliechti/docstofields/pkg/codec"
	"github.com/adrianliechti/docstofields/pkg/document"
	"github.com/adrianliechti/docstofields/pkg/extractor"
	"github.com/adrianliechti/docstofields/pkg/field"
)

// Window is one end of the cross-window message channel.
type Window interface {
	Post(ctx context.Context, env Envelope) error
	Close() error
}

// Opener creates a viewer window at the given address and placement.
type Opener func(ctx context.Context, url string, geometry Geometry) (Window, error)

type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
)

// Event is delivered to the session callback for viewer-initiated messages.
type Event struct {
	Fields map[string]any
	File   *codec.File
}

type Callback func(event Event)

type OpenOptions struct {
	// ShowFields defaults to true
	ShowFields *bool

	SendFile bool

	Callback Callback
}

type Config struct {
	// URL is the viewer address
	URL string

	// Display is the available screen size used for default placement
	Display Size

	// AutoOpen opens a session when a result arrives with no viewer live
	AutoOpen bool

	Opener Opener
	Store  Store

	// Handshake supplies the settings bundle and auth credential sent on init
	Handshake func() (Settings, string)

	Logger *slog.Logger
}

// Channel manages a single viewer session: handshake, bidirectional state
// broadcast and persisted window geometry. At most one session is live at a
// time; opening a new one tears down the previous one first.
type Channel struct {
	mu sync.Mutex

	config Config

	documents *document.Registry
	fields    *field.Model

	state  State
	window Window

	showFields bool
	sendFile   bool
	callback   Callback

	// pending holds a result produced before the viewer finished its
	// handshake, for exactly one deferred delivery
	pending map[string]any
}

func NewChannel(config Config, documents *document.Registry, fields *field.Model) *Channel {
	if config.URL == "" {
		config.URL = "/viewer"
	}

	if config.Display.Width == 0 || config.Display.Height == 0 {
		config.Display = Size{Width: 1920, Height: 1080}
	}

	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Channel{
		config: config,

		documents: documents,
		fields:    fields,

		showFields: true,
	}
}

func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Open starts a new viewer session. A live session is torn down first, so at
// most one session exists afterwards. The inbound dispatcher is part of the
// channel itself and is reused across session cycles.
func (c *Channel) Open(ctx context.Context, opts OpenOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.open(ctx, opts)
}

func (c *Channel) open(ctx context.Context, opts OpenOptions) error {
	if c.config.Opener == nil {
		return errors.New("no window opener configured")
	}

	c.teardown()
	c.apply(opts)

	c.state = StateOpening

	window, err := c.config.Opener(ctx, c.config.URL, c.geometry())

	if err != nil {
		c.state = StateClosed
		return err
	}

	c.window = window

	return nil
}

// AttachWindow adopts a window whose peer initiated the connection (e.g. a
// websocket viewer). The session still waits for the init handshake.
func (c *Channel) AttachWindow(window Window, opts OpenOptions) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.teardown()
	c.apply(opts)

	c.window = window
	c.state = StateOpening
}

func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.teardown()

	return nil
}

func (c *Channel) apply(opts OpenOptions) {
	c.showFields = true

	if opts.ShowFields != nil {
		c.showFields = *opts.ShowFields
	}

	c.sendFile = opts.SendFile

	if opts.Callback != nil {
		c.callback = opts.Callback
	}
}

func (c *Channel) teardown() {
	if c.window != nil {
		if err := c.window.Close(); err != nil {
			c.config.Logger.Warn("error closing viewer window", "error", err)
		}

		c.window = nil
	}

	c.state = StateClosed
}

// geometry computes the session placement: persisted values when present,
// otherwise a right-anchored window covering most of the display.
func (c *Channel) geometry() Geometry {
	display := c.config.Display

	width := display.Width * 3 / 4
	height := display.Height

	result := Geometry{
		X: display.Width - width,
		Y: 0,

		Width:  width,
		Height: height,
	}

	if c.config.Store == nil {
		return result
	}

	if raw, ok := c.config.Store.Get(KeyLocation); ok {
		var location Point

		if err := json.Unmarshal([]byte(raw), &location); err == nil {
			result.X = location.X
			result.Y = location.Y
		}
	}

	if raw, ok := c.config.Store.Get(KeySize); ok {
		var size Size

		if err := json.Unmarshal([]byte(raw), &size); err == nil {
			result.Width = size.Width
			result.Height = size.Height
		}
	}

	return result
}

// Handle dispatches one inbound envelope. Messages not tagged with the
// viewer source are ignored.
func (c *Channel) Handle(ctx context.Context, env Envelope) error {
	if env.Source != SourceViewer {
		return nil
	}

	switch env.Type {
	case MessageInit:
		c.mu.Lock()
		defer c.mu.Unlock()

		return c.handshake(ctx)

	case MessageExtractedFields:
		if cb := c.sessionCallback(); cb != nil {
			cb(Event{Fields: env.ExtractedFields})
		}

		return nil

	case MessageFile:
		return c.handleFile(env)

	case MessageLocation, MessageSize:
		c.persistGeometry(env)
		return nil
	}

	return nil
}

// handshake replies to the viewer's init message with, in order: the
// show-fields flag, the field list, the auth credential, the settings
// bundle, optionally the first document, and finally any pending result.
func (c *Channel) handshake(ctx context.Context) error {
	if c.window == nil {
		return nil
	}

	if err := c.post(ctx, Envelope{Type: MessageShowFields, ShowFields: &c.showFields}); err != nil {
		return err
	}

	if err := c.post(ctx, Envelope{Type: MessageFields, Fields: c.fields.Fields()}); err != nil {
		return err
	}

	var settings Settings
	var key string

	if c.config.Handshake != nil {
		settings, key = c.config.Handshake()
	}

	if err := c.post(ctx, Envelope{Type: MessageKey, Key: key}); err != nil {
		return err
	}

	if err := c.post(ctx, Envelope{Type: MessageSettings, Settings: &settings}); err != nil {
		return err
	}

	if first, ok := c.documents.First(); ok && c.sendFile {
		encoded, err := codec.Encode(first.File)

		if err != nil {
			return err
		}

		if err := c.post(ctx, Envelope{Type: MessageFile, File: encoded}); err != nil {
			return err
		}
	}

	if c.pending != nil {
		if err := c.post(ctx, Envelope{Type: MessageFieldValues, FieldValues: c.pending, Blocks: c.firstBlocks()}); err != nil {
			return err
		}

		c.pending = nil
	}

	c.state = StateOpen

	return nil
}

func (c *Channel) handleFile(env Envelope) error {
	if env.File == nil {
		return nil
	}

	file, err := codec.Decode(*env.File)

	if err != nil {
		return err
	}

	// duplicate deliveries of the same file name are ignored
	if c.documents.ContainsName(file.Name) {
		return nil
	}

	c.documents.Add(*file, env.Text, nil)

	if cb := c.sessionCallback(); cb != nil {
		cb(Event{File: file})
	}

	return nil
}

func (c *Channel) persistGeometry(env Envelope) {
	if c.config.Store == nil {
		return
	}

	if env.Location != nil {
		if data, err := json.Marshal(env.Location); err == nil {
			if err := c.config.Store.Set(KeyLocation, string(data)); err != nil {
				c.config.Logger.Warn("error persisting viewer location", "error", err)
			}
		}
	}

	if env.Size != nil {
		if data, err := json.Marshal(env.Size); err == nil {
			if err := c.config.Store.Set(KeySize, string(data)); err != nil {
				c.config.Logger.Warn("error persisting viewer size", "error", err)
			}
		}
	}
}

// Broadcast delivers an extraction result to the viewer. A live session gets
// it immediately; a session still handshaking gets it queued; with no
// session at all, auto-open queues it and starts a new session.
func (c *Channel) Broadcast(ctx context.Context, result map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.state == StateOpen && c.window != nil:
		return c.post(ctx, Envelope{Type: MessageFieldValues, FieldValues: result, Blocks: c.firstBlocks()})

	case c.state == StateOpening:
		c.pending = result

	case c.config.AutoOpen && c.documents.Len() > 0:
		c.pending = result

		return c.open(ctx, OpenOptions{SendFile: true, Callback: c.callback})
	}

	return nil
}

func (c *Channel) post(ctx context.Context, env Envelope) error {
	env.Source = SourceHost

	return c.window.Post(ctx, env)
}

func (c *Channel) sessionCallback() Callback {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.callback
}

func (c *Channel) firstBlocks() []extractor.Block {
	if first, ok := c.documents.First(); ok && first.Blocks != nil {
		return first.Blocks
	}

	return []extractor.Block{}
}
