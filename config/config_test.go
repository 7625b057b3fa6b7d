package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adrianliechti/docstofields/config"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := config.Parse("")
	require.NoError(t, err)

	require.Equal(t, ":3000", cfg.Addr)
	require.Equal(t, "openai", cfg.Provider)
	require.Equal(t, "gpt-4o", cfg.Model)
	require.Equal(t, "2024-02-15-preview", cfg.AzureAPIVersion)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	data := `
addr: ":8080"
model: gpt-4-turbo
enableTextract: true
`

	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := config.Parse(path)
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "gpt-4-turbo", cfg.Model)
	require.True(t, cfg.EnableTextract)
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("AI_PROVIDER", "azure")
	t.Setenv("DEFAULT_MODEL", "gpt-4")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT", "my-deployment")

	cfg, err := config.Parse("")
	require.NoError(t, err)

	require.Equal(t, ":9000", cfg.Addr)
	require.Equal(t, "azure", cfg.Provider)
	require.Equal(t, "gpt-4", cfg.Model)
	require.Equal(t, "https://example.openai.azure.com", cfg.AzureEndpoint)
	require.Equal(t, "my-deployment", cfg.AzureDeployment)
}

func TestParseInvalidProvider(t *testing.T) {
	t.Setenv("AI_PROVIDER", "watson")

	_, err := config.Parse("")
	require.Error(t, err)
}

func TestParseAzureRequiresEndpoint(t *testing.T) {
	t.Setenv("AI_PROVIDER", "azure")

	_, err := config.Parse("")
	require.Error(t, err)
}

func TestKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("AZURE_OPENAI_API_KEY", "azure-key")

	cfg := &config.Config{Provider: "openai"}
	require.Equal(t, "openai-key", cfg.Key())

	cfg.Provider = "azure"
	require.Equal(t, "azure-key", cfg.Key())
}
