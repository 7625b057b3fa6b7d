package client_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adrianliechti/docstofields/pkg/client"
	"github.com/adrianliechti/docstofields/pkg/codec"
	"github.com/adrianliechti/docstofields/pkg/extract"
	"github.com/adrianliechti/docstofields/pkg/field"
)

func TestClientExtract(t *testing.T) {
	var gotKey string
	var gotReq extract.Request

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/extract", r.URL.Path)

		gotKey = r.Header.Get("x-auth-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(extract.Response{
			Text: `{"amount":"10"}`,

			Files: []extract.FilePayload{
				{Name: "a.pdf", Text: "Invoice #1"},
			},
		})
	}))
	defer server.Close()

	c := client.New(server.URL, client.WithKey("fallback-key"))

	resp, err := c.Extract(t.Context(), extract.Request{
		Prompt: "Docs:{input_documents}",

		Fields: []field.Field{
			{Name: "amount"},
		},

		Files: []extract.FilePayload{
			{Name: "a.pdf", Text: "Invoice #1"},
		},

		Key: "request-key",
	})

	require.NoError(t, err)
	require.Equal(t, `{"amount":"10"}`, resp.Text)

	// the request credential wins over the configured one
	require.Equal(t, "request-key", gotKey)

	// the credential never travels in the body
	require.Equal(t, "Docs:{input_documents}", gotReq.Prompt)
	require.Len(t, gotReq.Files, 1)
}

func TestClientExtractTextKeyFallback(t *testing.T) {
	var gotKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/extractText", r.URL.Path)

		gotKey = r.Header.Get("x-auth-key")

		json.NewEncoder(w).Encode(extract.ExtractTextResponse{
			Text:  "hello",
			Pages: 1,
		})
	}))
	defer server.Close()

	c := client.New(server.URL, client.WithKey("fallback-key"))

	encoded, err := codec.Encode(codec.File{Name: "a.pdf", Content: []byte("raw")})
	require.NoError(t, err)

	resp, err := c.ExtractText(t.Context(), extract.ExtractTextRequest{File: *encoded})
	require.NoError(t, err)

	require.Equal(t, "hello", resp.Text)
	require.Equal(t, "fallback-key", gotKey)
}

func TestClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := client.New(server.URL)

	_, err := c.Extract(t.Context(), extract.Request{})
	require.Error(t, err)
}
