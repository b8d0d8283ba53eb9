package services

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"skillbridge/gap-analyzer/internal/models"
)

const previewLength = 200

// DocumentInspector describes an accepted document for display. Its output
// never affects validation or submission.
type DocumentInspector interface {
	Inspect(doc models.CandidateDocument) (*models.DocumentInfo, error)
}

type documentInspector struct{}

func NewDocumentInspector() DocumentInspector {
	return &documentInspector{}
}

var xmlTag = regexp.MustCompile(`<[^>]+>`)

func (d *documentInspector) Inspect(doc models.CandidateDocument) (*models.DocumentInfo, error) {
	info := &models.DocumentInfo{
		DisplayName: doc.DisplayName,
		MediaType:   doc.MediaType,
		Extension:   ExtensionFor(doc.MediaType),
		SizeBytes:   doc.SizeBytes,
	}
	if doc.Content == nil || doc.MediaType == MediaTypeDoc {
		return info, nil
	}

	data, err := readAll(doc)
	if err != nil {
		return info, err
	}

	var text string
	switch doc.MediaType {
	case MediaTypePDF:
		text, info.PageCount, err = extractPDFText(data)
	case MediaTypeDocx:
		text, err = extractDocxText(data)
	case MediaTypeText:
		text = string(data)
	}
	if err != nil {
		return info, err
	}

	text = CleanText(text)
	info.WordCount = len(strings.Fields(text))
	info.Preview = truncateRunes(text, previewLength)
	return info, nil
}

func readAll(doc models.CandidateDocument) ([]byte, error) {
	src, err := doc.Content.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxFileSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return data, nil
}

func extractPDFText(data []byte) (string, int, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages; the page count still stands.
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), totalPage, nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	content := strings.ReplaceAll(doc.Editable().GetContent(), "</w:p>", "\n")
	return xmlTag.ReplaceAllString(content, " "), nil
}

// CleanText drops blank lines and trims the rest.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
