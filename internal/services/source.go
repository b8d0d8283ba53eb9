package services

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"skillbridge/gap-analyzer/internal/models"
)

const genericMediaType = "application/octet-stream"

// DocumentSource turns what the user picked into a CandidateDocument. It does
// not validate: an oversized or unsupported file still comes back, with its
// declared media type and size, so InputValidator can reject it.
type DocumentSource interface {
	FromUpload(file *multipart.FileHeader) (models.CandidateDocument, error)
	FromPath(path string) (models.CandidateDocument, error)
	FromDataURL(name, dataURL string) (models.CandidateDocument, error)
}

type documentSource struct{}

func NewDocumentSource() DocumentSource {
	return &documentSource{}
}

// FromUpload copies the part into memory, since the request's temporary
// files do not outlive the handler. Oversized parts are not read at all.
func (s *documentSource) FromUpload(file *multipart.FileHeader) (models.CandidateDocument, error) {
	doc := models.CandidateDocument{
		DisplayName: filepath.Base(file.Filename),
		MediaType:   normalizeMediaType(file.Header.Get("Content-Type")),
		SizeBytes:   file.Size,
	}
	if file.Size > MaxFileSizeBytes {
		return doc, nil
	}

	src, err := file.Open()
	if err != nil {
		return doc, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return doc, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	doc.Content = models.BytesBlob(data)
	doc.SizeBytes = int64(len(data))
	if doc.MediaType == "" || doc.MediaType == genericMediaType {
		doc.MediaType = normalizeMediaType(mimetype.Detect(data).String())
	}

	return doc, nil
}

// FromPath reads lazily from disk; the media type comes from the extension,
// falling back to content sniffing.
func (s *documentSource) FromPath(path string) (models.CandidateDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.CandidateDocument{}, fmt.Errorf("failed to stat resume file: %w", err)
	}
	if info.IsDir() {
		return models.CandidateDocument{}, fmt.Errorf("resume path is a directory: %s", path)
	}

	mediaType := mediaTypeForExtension(filepath.Ext(path))
	if mediaType == "" {
		detected, err := mimetype.DetectFile(path)
		if err != nil {
			return models.CandidateDocument{}, fmt.Errorf("failed to detect resume file type: %w", err)
		}
		mediaType = normalizeMediaType(detected.String())
	}

	return models.CandidateDocument{
		DisplayName: filepath.Base(path),
		MediaType:   mediaType,
		SizeBytes:   info.Size(),
		Content:     models.FileBlob(path),
	}, nil
}

// FromDataURL accepts the "data:<type>;base64,<payload>" form browsers produce.
func (s *documentSource) FromDataURL(name, dataURL string) (models.CandidateDocument, error) {
	header, _, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:") {
		return models.CandidateDocument{}, fmt.Errorf("malformed data url")
	}
	header = strings.TrimPrefix(header, "data:")
	if !strings.HasSuffix(header, ";base64") {
		return models.CandidateDocument{}, fmt.Errorf("data url is not base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(StripDataURLPrefix(dataURL))
	if err != nil {
		return models.CandidateDocument{}, fmt.Errorf("failed to decode data url: %w", err)
	}

	mediaType := normalizeMediaType(strings.TrimSuffix(header, ";base64"))
	if mediaType == "" || mediaType == genericMediaType {
		mediaType = normalizeMediaType(mimetype.Detect(data).String())
	}

	return models.CandidateDocument{
		DisplayName: filepath.Base(name),
		MediaType:   mediaType,
		SizeBytes:   int64(len(data)),
		Content:     models.BytesBlob(data),
	}, nil
}

func normalizeMediaType(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(raw)
	}
	return mt
}

func mediaTypeForExtension(ext string) string {
	ext = strings.ToLower(ext)
	for mediaType, known := range mediaTypeExtensions {
		if known == ext {
			return mediaType
		}
	}
	return ""
}

// StripDataURLPrefix drops a leading "data:<type>;base64," header if present.
func StripDataURLPrefix(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if _, payload, ok := strings.Cut(s, ","); ok {
		return payload
	}
	return s
}
