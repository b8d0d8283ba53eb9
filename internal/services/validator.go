package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"skillbridge/gap-analyzer/internal/models"
)

const (
	MaxFileSizeBytes int64 = 5 * 1024 * 1024
	MinRoleLength          = 3
	MaxRoleLength          = 50
)

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDoc  = "application/msword"
	MediaTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeText = "text/plain"
)

// AllowedMediaTypes is in display order.
var AllowedMediaTypes = []string{MediaTypePDF, MediaTypeDoc, MediaTypeDocx, MediaTypeText}

var mediaTypeExtensions = map[string]string{
	MediaTypePDF:  ".pdf",
	MediaTypeDoc:  ".doc",
	MediaTypeDocx: ".docx",
	MediaTypeText: ".txt",
}

// Only the plain space separates words; tabs and line breaks are rejected.
var roleCharset = regexp.MustCompile(`^[a-zA-Z0-9 .,\-/()&]*$`)

// AcceptedExtensions returns ".pdf, .doc, .docx, .txt".
func AcceptedExtensions() string {
	return strings.Join(lo.Map(AllowedMediaTypes, func(mediaType string, _ int) string {
		return mediaTypeExtensions[mediaType]
	}), ", ")
}

func ExtensionFor(mediaType string) string {
	return mediaTypeExtensions[mediaType]
}

func IsAllowedMediaType(mediaType string) bool {
	return lo.Contains(AllowedMediaTypes, mediaType)
}

// ValidateDocument checks the media type before the size.
func ValidateDocument(doc models.CandidateDocument) (models.CandidateDocument, models.ValidationError) {
	if !IsAllowedMediaType(doc.MediaType) {
		return models.CandidateDocument{}, models.ValidationUnsupported
	}
	if doc.SizeBytes > MaxFileSizeBytes {
		return models.CandidateDocument{}, models.ValidationOversized
	}
	return doc, models.ValidationNone
}

// ValidateRole checks empty, then too short, then the character class.
// The 50 character ceiling belongs to the input surface.
func ValidateRole(raw string) models.ValidationError {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return models.ValidationEmptyRole
	case utf8.RuneCountInString(trimmed) < MinRoleLength:
		return models.ValidationRoleTooShort
	case !roleCharset.MatchString(trimmed):
		return models.ValidationRoleInvalid
	default:
		return models.ValidationNone
	}
}
