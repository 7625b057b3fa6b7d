package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/adrianliechti/docstofields/config"
	"github.com/adrianliechti/docstofields/pkg/extract"
	"github.com/adrianliechti/docstofields/pkg/viewer"
)

// Handler exposes the extraction backend over HTTP.
type Handler struct {
	config *config.Config

	service *extract.Service
	channel *viewer.Channel

	logger *slog.Logger

	upgrader websocket.Upgrader
}

type Option func(*Handler)

// WithChannel enables the websocket viewer endpoint.
func WithChannel(channel *viewer.Channel) Option {
	return func(h *Handler) {
		h.channel = channel
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func New(cfg *config.Config, service *extract.Service, opts ...Option) *Handler {
	h := &Handler{
		config: cfg,

		service: service,

		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.logger == nil {
		h.logger = slog.Default()
	}

	return h
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Use(h.withRequestID)
	r.Use(h.withLogging)
	r.Use(h.withRateLimit)

	h.Attach(r)

	return r
}

func (h *Handler) Attach(r chi.Router) {
	r.Post("/extractText", h.handleExtractText)
	r.Post("/extract", h.handleExtract)

	r.Get("/api/config", h.handleConfig)
	r.Get("/api/key", h.handleKey)

	if h.channel != nil {
		r.Get("/viewer/ws", h.handleViewer)
	}
}

func (h *Handler) handleExtractText(w http.ResponseWriter, r *http.Request) {
	var req extract.ExtractTextRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.File.Base64 == "" {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}

	result, err := h.service.ExtractText(r.Context(), req)

	if err != nil {
		h.logger.ErrorContext(r.Context(), "error extracting text", "file", req.File.Name, "error", err)

		writeError(w, http.StatusInternalServerError, "Failed to extract text from PDF")
		return
	}

	writeJson(w, result)
}

func (h *Handler) handleExtract(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("x-auth-key")

	if key == "" {
		writeError(w, http.StatusUnauthorized, "No API key provided")
		return
	}

	var req extract.Request

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Key = key
	req.AIConfig = h.aiConfig(req.AIConfig)

	result, err := h.service.Extract(r.Context(), req)

	if err != nil {
		h.logger.ErrorContext(r.Context(), "error extracting fields", "model", req.Model, "error", err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)

		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.Encode(map[string]string{
			"error":   "Failed to extract fields",
			"message": err.Error(),
		})

		return
	}

	writeJson(w, result)
}

// aiConfig fills provider settings missing from the request with the
// configured defaults.
func (h *Handler) aiConfig(cfg *extract.AIConfig) *extract.AIConfig {
	if cfg == nil {
		cfg = &extract.AIConfig{}
	}

	if cfg.Provider == "" {
		cfg.Provider = h.config.Provider
	}

	if cfg.Provider == "azure" {
		if cfg.AzureEndpoint == "" {
			cfg.AzureEndpoint = h.config.AzureEndpoint
		}

		if cfg.AzureDeployment == "" {
			cfg.AzureDeployment = h.config.AzureDeployment
		}

		if cfg.AzureAPIVersion == "" {
			cfg.AzureAPIVersion = h.config.AzureAPIVersion
		}
	}

	return cfg
}

func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJson(w, map[string]string{
		"provider": h.config.Provider,
		"model":    h.config.Model,

		"azureEndpoint":   h.config.AzureEndpoint,
		"azureDeployment": h.config.AzureDeployment,
		"azureApiVersion": h.config.AzureAPIVersion,
	})
}

func (h *Handler) handleKey(w http.ResponseWriter, r *http.Request) {
	writeJson(w, map[string]string{
		"apiKey":   h.config.Key(),
		"provider": h.config.Provider,
	})
}

func (h *Handler) handleViewer(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)

	if err != nil {
		h.logger.ErrorContext(r.Context(), "error upgrading viewer connection", "error", err)
		return
	}

	if err := viewer.ServeConn(r.Context(), h.channel, conn, viewer.OpenOptions{}); err != nil {
		h.logger.WarnContext(r.Context(), "viewer connection closed", "error", err)
	}
}

func writeJson(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(map[string]string{
		"error": message,
	})
}
