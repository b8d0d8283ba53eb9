package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"skillbridge/gap-analyzer/internal/models"
)

type DocumentEncoder interface {
	Encode(ctx context.Context, doc models.CandidateDocument) (*models.EncodedPayload, error)
}

type documentEncoder struct{}

func NewDocumentEncoder() DocumentEncoder {
	return &documentEncoder{}
}

// Encode reads the whole document and returns it as raw base64. Once started
// the read runs to completion. A read that stops short of the declared size
// counts as a read failure.
func (e *documentEncoder) Encode(_ context.Context, doc models.CandidateDocument) (*models.EncodedPayload, error) {
	if doc.Content == nil {
		return nil, fmt.Errorf("%w: document has no content", ErrFileRead)
	}

	src, err := doc.Content.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileRead, err)
	}
	defer src.Close()

	var buf bytes.Buffer
	enc := base64.NewEncoder(base64.StdEncoding, &buf)
	n, err := io.Copy(enc, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileRead, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileRead, err)
	}

	if doc.SizeBytes > 0 && n != doc.SizeBytes {
		return nil, fmt.Errorf("%w: read %d of %d bytes", ErrFileRead, n, doc.SizeBytes)
	}

	return &models.EncodedPayload{
		Base64Data: buf.String(),
		MediaType:  doc.MediaType,
	}, nil
}
