package services

import (
	"context"
	"errors"
	"io"

	"google.golang.org/genai"

	"skillbridge/gap-analyzer/internal/models"
)

type fakeAnalyzer struct {
	AnalyzeResumeFn func(ctx context.Context, doc models.CandidateDocument, role string) (*models.AnalysisResult, error)
}

var _ AnalyzerService = (*fakeAnalyzer)(nil)

func (f *fakeAnalyzer) AnalyzeResume(ctx context.Context, doc models.CandidateDocument, role string) (*models.AnalysisResult, error) {
	if f.AnalyzeResumeFn != nil {
		return f.AnalyzeResumeFn(ctx, doc, role)
	}
	return sampleResult(), nil
}

type fakeGenerator struct {
	calls             int
	GenerateContentFn func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var _ ContentGenerator = (*fakeGenerator)(nil)

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	if f.GenerateContentFn != nil {
		return f.GenerateContentFn(ctx, model, contents, config)
	}
	return textResponse(sampleResultJSON), nil
}

type fakeGemini struct {
	AnalyzeFn func(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResult, error)
}

var _ GeminiService = (*fakeGemini)(nil)

func (f *fakeGemini) Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResult, error) {
	return f.AnalyzeFn(ctx, req)
}

// failingBlob fails on Open or after handing out a prefix of its data.
type failingBlob struct {
	openErr error
	data    []byte
}

func (b failingBlob) Open() (io.ReadCloser, error) {
	if b.openErr != nil {
		return nil, b.openErr
	}
	return io.NopCloser(io.MultiReader(
		&onceReader{data: b.data},
		errReader{err: errors.New("device went away")},
	)), nil
}

type onceReader struct {
	data []byte
	done bool
}

func (r *onceReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, io.EOF
	}
	r.done = true
	return copy(p, r.data), nil
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(text, genai.RoleModel),
		}},
	}
}

func textDocument(content string) models.CandidateDocument {
	return models.CandidateDocument{
		DisplayName: "resume.txt",
		MediaType:   MediaTypeText,
		SizeBytes:   int64(len(content)),
		Content:     models.BytesBlob(content),
	}
}

const sampleResultJSON = `{
  "gap_summary": "Limited production ML experience.",
  "missing_skills": ["MLOps", "Spark"],
  "certifications": ["AWS Certified Machine Learning - Specialty"],
  "learning_resources": ["https://www.coursera.org/learn/machine-learning"]
}`

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		GapSummary:        "Limited production ML experience.",
		MissingSkills:     []string{"MLOps", "Spark"},
		Certifications:    []string{"AWS Certified Machine Learning - Specialty"},
		LearningResources: []string{"https://www.coursera.org/learn/machine-learning"},
	}
}
