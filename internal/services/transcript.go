package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"skillbridge/gap-analyzer/internal/models"
)

const (
	transcriptTitle      = "Skillbridge Resume Gap Analysis"
	transcriptRoleLabel  = "Target Role: "
	transcriptIndent     = "  "
	transcriptItemMarker = "  • "
	transcriptContinue   = "    "
	transcriptEmptyList  = "  (none)"

	TranscriptFileName = "skillbridge-analysis.txt"
)

const (
	sectionGapSummary        = "Gap Summary:"
	sectionMissingSkills     = "Missing Skills:"
	sectionCertifications    = "Certifications:"
	sectionLearningResources = "Learning Resources:"
)

var transcriptSections = []string{sectionGapSummary, sectionMissingSkills, sectionCertifications, sectionLearningResources}

var ErrTranscriptFormat = errors.New("malformed transcript")

type Transcript struct {
	Role   string
	Result models.AnalysisResult
}

// FormatTranscript renders the plain-text copy/download form of a result.
// Content lines are indented so that section headers stay unambiguous.
func FormatTranscript(role string, result *models.AnalysisResult) string {
	var b strings.Builder

	b.WriteString(transcriptTitle + "\n")
	b.WriteString(transcriptRoleLabel + role + "\n")

	b.WriteString("\n" + sectionGapSummary + "\n")
	for _, line := range strings.Split(result.GapSummary, "\n") {
		b.WriteString(transcriptIndent + line + "\n")
	}

	writeList := func(header string, items []string) {
		b.WriteString("\n" + header + "\n")
		if len(items) == 0 {
			b.WriteString(transcriptEmptyList + "\n")
			return
		}
		for _, item := range items {
			lines := strings.Split(item, "\n")
			b.WriteString(transcriptItemMarker + lines[0] + "\n")
			for _, line := range lines[1:] {
				b.WriteString(transcriptContinue + line + "\n")
			}
		}
	}
	writeList(sectionMissingSkills, result.MissingSkills)
	writeList(sectionCertifications, result.Certifications)
	writeList(sectionLearningResources, result.LearningResources)

	return b.String()
}

// ParseTranscript reads back what FormatTranscript wrote. CRLF line endings
// are undone only when the title line carries one, i.e. the whole file was
// converted; carriage returns inside content are kept.
func ParseTranscript(text string) (*Transcript, error) {
	if title, _, _ := strings.Cut(text, "\n"); strings.HasSuffix(title, "\r") {
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 || lines[0] != transcriptTitle {
		return nil, fmt.Errorf("%w: missing title", ErrTranscriptFormat)
	}
	if !strings.HasPrefix(lines[1], transcriptRoleLabel) {
		return nil, fmt.Errorf("%w: missing target role", ErrTranscriptFormat)
	}

	transcript := &Transcript{Role: strings.TrimPrefix(lines[1], transcriptRoleLabel)}
	seen := make(map[string]bool, len(transcriptSections))
	lists := map[string]*[]string{
		sectionMissingSkills:     &transcript.Result.MissingSkills,
		sectionCertifications:    &transcript.Result.Certifications,
		sectionLearningResources: &transcript.Result.LearningResources,
	}

	var (
		current string
		summary []string
	)
	for i, line := range lines[2:] {
		switch {
		case line == "":
			continue
		case isTranscriptSection(line):
			current = line
			seen[line] = true
			if list, ok := lists[line]; ok {
				*list = []string{}
			}
		case current == "":
			return nil, fmt.Errorf("%w: line %d outside any section", ErrTranscriptFormat, i+3)
		case current == sectionGapSummary && strings.HasPrefix(line, transcriptIndent):
			summary = append(summary, strings.TrimPrefix(line, transcriptIndent))
		case line == transcriptEmptyList:
			continue
		case strings.HasPrefix(line, transcriptItemMarker):
			list := lists[current]
			*list = append(*list, strings.TrimPrefix(line, transcriptItemMarker))
		case strings.HasPrefix(line, transcriptContinue):
			list := lists[current]
			if len(*list) == 0 {
				return nil, fmt.Errorf("%w: continuation without item on line %d", ErrTranscriptFormat, i+3)
			}
			(*list)[len(*list)-1] += "\n" + strings.TrimPrefix(line, transcriptContinue)
		default:
			return nil, fmt.Errorf("%w: unexpected line %d: %q", ErrTranscriptFormat, i+3, line)
		}
	}

	for _, section := range transcriptSections {
		if !seen[section] {
			return nil, fmt.Errorf("%w: missing section %q", ErrTranscriptFormat, section)
		}
	}

	transcript.Result.GapSummary = strings.Join(summary, "\n")
	return transcript, nil
}

func isTranscriptSection(line string) bool {
	return lo.Contains(transcriptSections, line)
}
