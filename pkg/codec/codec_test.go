package codec_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adrianliechti/docstofields/pkg/codec"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	file := codec.File{
		Name:        "invoice.pdf",
		ContentType: "application/pdf",

		Content: []byte("%PDF-1.4 fake body"),
	}

	encoded, err := codec.Encode(file)
	require.NoError(t, err)

	require.Equal(t, "invoice.pdf", encoded.Name)
	require.True(t, strings.HasPrefix(encoded.Base64, "data:application/pdf;base64,"))

	decoded, err := codec.Decode(*encoded)
	require.NoError(t, err)

	require.Equal(t, file.Name, decoded.Name)
	require.Equal(t, file.ContentType, decoded.ContentType)
	require.Equal(t, file.Content, decoded.Content)
}

func TestEncodeDetectsContentType(t *testing.T) {
	file := codec.File{
		Name: "note.txt",

		Content: []byte("plain text content"),
	}

	encoded, err := codec.Encode(file)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(encoded.Base64, "data:text/plain;base64,"))
}

func TestEncodeLazySource(t *testing.T) {
	file := codec.File{
		Name: "lazy.bin",

		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("lazy bytes")), nil
		},
	}

	encoded, err := codec.Encode(file)
	require.NoError(t, err)

	decoded, err := codec.Decode(*encoded)
	require.NoError(t, err)

	require.Equal(t, []byte("lazy bytes"), decoded.Content)
}

func TestEncodeReadError(t *testing.T) {
	t.Run("no source", func(t *testing.T) {
		_, err := codec.Encode(codec.File{Name: "empty"})
		require.ErrorIs(t, err, codec.ErrRead)
	})

	t.Run("open fails", func(t *testing.T) {
		file := codec.File{
			Name: "broken",

			Open: func() (io.ReadCloser, error) {
				return nil, errors.New("device gone")
			},
		}

		_, err := codec.Encode(file)
		require.ErrorIs(t, err, codec.ErrRead)
	})
}

func TestDecodePlainBase64(t *testing.T) {
	decoded, err := codec.Decode(codec.Encoded{
		Name:   "raw.bin",
		Base64: "aGVsbG8=",
	})

	require.NoError(t, err)
	require.Equal(t, []byte("hello"), decoded.Content)
	require.Empty(t, decoded.ContentType)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := codec.Decode(codec.Encoded{
		Name:   "bad",
		Base64: "!!not base64!!",
	})

	require.Error(t, err)
}
