package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/vincent-petithory/dataurl"
)

var (
	// ErrRead is returned when the binary source behind a file can not be read.
	ErrRead = errors.New("error reading file")
)

// File is a named binary payload. Content holds the bytes once materialized;
// Open, when set, is the lazy source the bytes are read from instead.
type File struct {
	Name        string
	ContentType string

	Content []byte

	Open func() (io.ReadCloser, error)
}

// Encoded is the transport-safe form of a File, carrying the payload as a
// data URL with an embedded MIME marker. It is produced at boundary
// crossings and never stored.
type Encoded struct {
	Name   string `json:"name"`
	Base64 string `json:"base64"`
}

// Encode reads the file's binary payload and wraps it into an Encoded value.
func Encode(file File) (*Encoded, error) {
	content := file.Content

	if content == nil {
		if file.Open == nil {
			return nil, fmt.Errorf("%w: %s", ErrRead, file.Name)
		}

		r, err := file.Open()

		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrRead, file.Name)
		}

		defer r.Close()

		content, err = io.ReadAll(r)

		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrRead, file.Name)
		}
	}

	contentType := file.ContentType

	if contentType == "" {
		contentType = http.DetectContentType(content)
	}

	// strip parameters like "; charset=utf-8"
	if mediatype, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediatype
	}

	u := dataurl.New(content, contentType)
	u.Encoding = dataurl.EncodingBase64

	return &Encoded{
		Name:   file.Name,
		Base64: u.String(),
	}, nil
}

// Decode recovers the original file from its encoded form. A payload without
// a data-URL prefix is decoded as plain base64 with an empty content type.
func Decode(encoded Encoded) (*File, error) {
	if !strings.HasPrefix(encoded.Base64, "data:") {
		content, err := base64.StdEncoding.DecodeString(encoded.Base64)

		if err != nil {
			return nil, err
		}

		return &File{
			Name:    encoded.Name,
			Content: content,
		}, nil
	}

	u, err := dataurl.DecodeString(encoded.Base64)

	if err != nil {
		return nil, err
	}

	return &File{
		Name:        encoded.Name,
		ContentType: u.MediaType.ContentType(),

		Content: u.Data,
	}, nil
}
