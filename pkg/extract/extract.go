package extract

import (
	"github.com/adrianliechti/docstofields/pkg/codec"
	"github.com/adrianliechti/docstofields/pkg/extractor"
	"github.com/adrianliechti/docstofields/pkg/field"
)

// ExtractTextRequest asks the text-extraction backend for the plain text of
// a single encoded file.
type ExtractTextRequest struct {
	File codec.Encoded `json:"file"`

	EnableTextract bool `json:"enableTextract"`
}

type ExtractTextResponse struct {
	Text string `json:"text"`

	Blocks []extractor.Block `json:"blocks"`
	Pages  int               `json:"pages"`
}

// FilePayload is the per-document payload of an extraction request. A
// payload carries either already-resolved text or the encoded file to
// resolve on the backend.
type FilePayload struct {
	Name string `json:"name"`

	Text   string `json:"text,omitempty"`
	Base64 string `json:"base64,omitempty"`

	Blocks []extractor.Block `json:"blocks,omitempty"`
}

// AIConfig selects and parameterizes the completion provider.
type AIConfig struct {
	Provider string `json:"provider,omitempty"`

	AzureEndpoint   string `json:"azureEndpoint,omitempty"`
	AzureDeployment string `json:"azureDeployment,omitempty"`
	AzureAPIVersion string `json:"azureApiVersion,omitempty"`
}

// Request drives one extraction or classification pass over a document set.
type Request struct {
	Prompt       string `json:"prompt"`
	SystemPrompt string `json:"systemPrompt"`

	Fields []field.Field `json:"fields"`
	Labels []field.Field `json:"labels"`

	Files []FilePayload `json:"files"`

	Model string `json:"model"`

	EnableTextract bool `json:"enableTextract"`

	AIConfig *AIConfig `json:"aiConfig,omitempty"`

	// Key is the completion backend credential. It travels in the
	// x-auth-key header, never in the body.
	Key string `json:"-"`
}

// Response carries the structured completion text plus the resolved files in
// request order, so callers can reconcile revised text positionally.
type Response struct {
	Text string `json:"text"`

	Files []FilePayload `json:"files"`
}
