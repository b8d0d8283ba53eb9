package models

import (
	"bytes"
	"io"
	"os"
)

// Blob is the lazily-read content of a selected document.
type Blob interface {
	Open() (io.ReadCloser, error)
}

// BytesBlob is an in-memory Blob.
type BytesBlob []byte

func (b BytesBlob) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b)), nil
}

// FileBlob reads a document from disk on every Open.
type FileBlob string

func (f FileBlob) Open() (io.ReadCloser, error) {
	return os.Open(string(f))
}

type CandidateDocument struct {
	DisplayName string `json:"display_name"`
	MediaType   string `json:"media_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Content     Blob   `json:"-"`
}

// EncodedPayload is a document as raw base64 (no data URL prefix) plus its media type.
type EncodedPayload struct {
	Base64Data string
	MediaType  string
}

type DocumentInfo struct {
	DisplayName string `json:"display_name"`
	MediaType   string `json:"media_type"`
	Extension   string `json:"extension"`
	SizeBytes   int64  `json:"size_bytes"`
	PageCount   int    `json:"page_count,omitempty"`
	WordCount   int    `json:"word_count,omitempty"`
	Preview     string `json:"preview,omitempty"`
}
