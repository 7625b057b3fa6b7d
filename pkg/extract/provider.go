package extract

import (
	"github.com/adrianliechti/docstofields/pkg/provider"
	"github.com/adrianliechti/docstofields/pkg/provider/anthropic"
	"github.com/adrianliechti/docstofields/pkg/provider/azure"
	"github.com/adrianliechti/docstofields/pkg/provider/openai"
)

// ResolveCompleter picks the completion provider for a request. Azure routes
// the configured deployment name verbatim; claude model identifiers route to
// the anthropic provider; everything else resolves against the supported
// OpenAI model families.
func ResolveCompleter(req Request) (provider.Completer, error) {
	cfg := req.AIConfig

	if cfg == nil {
		cfg = &AIConfig{}
	}

	if cfg.Provider == "azure" {
		return azure.NewCompleter(cfg.AzureEndpoint, cfg.AzureDeployment,
			azure.WithAPIVersion(cfg.AzureAPIVersion),
			azure.WithToken(req.Key),
		)
	}

	if anthropic.IsClaudeModel(req.Model) {
		return anthropic.NewCompleter("", anthropic.ResolveModel(req.Model),
			anthropic.WithToken(req.Key),
		)
	}

	return openai.NewCompleter("", openai.ResolveModel(req.Model),
		openai.WithToken(req.Key),
	)
}
