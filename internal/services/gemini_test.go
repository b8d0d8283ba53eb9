package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"skillbridge/gap-analyzer/internal/models"
)

var testGeminiOptions = GeminiOptions{
	APIKey:      "test-key",
	Model:       "gemini-2.5-pro",
	Temperature: 0.7,
	TopK:        40,
	TopP:        0.95,
}

func testRequest() *models.AnalysisRequest {
	payload := &models.EncodedPayload{Base64Data: "MDEyMzQ1Njc4OQ==", MediaType: MediaTypeText}
	return NewPromptBuilder().BuildAnalysisRequest(payload, "Data Scientist")
}

func TestAnalyze_MissingKeyFailsBeforeAnyCall(t *testing.T) {
	gen := &fakeGenerator{}
	opts := testGeminiOptions
	opts.APIKey = "  "
	svc := NewGeminiServiceWithGenerator(opts, gen, zerolog.Nop())

	result, err := svc.Analyze(context.Background(), testRequest())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Zero(t, gen.calls)
}

func TestAnalyze_MissingKeyNeverConnects(t *testing.T) {
	opts := testGeminiOptions
	opts.APIKey = ""
	svc := NewGeminiService(opts, zerolog.Nop()).(*geminiService)
	svc.connect = func(context.Context, string) (ContentGenerator, error) {
		t.Fatal("connect must not be called without an API key")
		return nil, nil
	}

	_, err := svc.Analyze(context.Background(), testRequest())

	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestAnalyze_SendsDocumentAndConfig(t *testing.T) {
	var (
		gotModel    string
		gotContents []*genai.Content
		gotConfig   *genai.GenerateContentConfig
	)
	gen := &fakeGenerator{
		GenerateContentFn: func(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			gotModel, gotContents, gotConfig = model, contents, config
			return textResponse(sampleResultJSON), nil
		},
	}
	svc := NewGeminiServiceWithGenerator(testGeminiOptions, gen, zerolog.Nop())
	req := testRequest()

	result, err := svc.Analyze(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, sampleResult(), result)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "gemini-2.5-pro", gotModel)

	require.Len(t, gotContents, 1)
	parts := gotContents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, []byte("0123456789"), parts[0].InlineData.Data)
	assert.Equal(t, MediaTypeText, parts[0].InlineData.MIMEType)
	assert.Equal(t, req.InstructionText, parts[1].Text)

	assert.Equal(t, "application/json", gotConfig.ResponseMIMEType)
	assert.Same(t, req.OutputSchema, gotConfig.ResponseSchema)
	assert.Equal(t, req.SystemInstruction, gotConfig.SystemInstruction.Parts[0].Text)
	assert.InDelta(t, 0.7, *gotConfig.Temperature, 1e-6)
	assert.InDelta(t, 40, *gotConfig.TopK, 1e-6)
	assert.InDelta(t, 0.95, *gotConfig.TopP, 1e-6)
}

func TestAnalyze_FencedAndPlainDecodeTheSame(t *testing.T) {
	plain := NewGeminiServiceWithGenerator(testGeminiOptions, &fakeGenerator{
		GenerateContentFn: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return textResponse(sampleResultJSON), nil
		},
	}, zerolog.Nop())
	fenced := NewGeminiServiceWithGenerator(testGeminiOptions, &fakeGenerator{
		GenerateContentFn: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return textResponse("```json\n" + sampleResultJSON + "\n```"), nil
		},
	}, zerolog.Nop())

	fromPlain, err := plain.Analyze(context.Background(), testRequest())
	require.NoError(t, err)
	fromFenced, err := fenced.Analyze(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, fromPlain, fromFenced)
}

func TestAnalyze_Failures(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		err     error
		wantErr error
	}{
		{"transport error", nil, errors.New("503 service unavailable"), ErrCapability},
		{"nil response", nil, nil, ErrCapability},
		{"empty text", textResponse(""), nil, ErrResponseParse},
		{"not json", textResponse("I cannot help with that."), nil, ErrResponseParse},
		{"missing field", textResponse(`{"gap_summary":"x","missing_skills":[],"learning_resources":[]}`), nil, ErrResponseParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{
				GenerateContentFn: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
					return tt.resp, tt.err
				},
			}
			svc := NewGeminiServiceWithGenerator(testGeminiOptions, gen, zerolog.Nop())

			result, err := svc.Analyze(context.Background(), testRequest())

			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeAnalysisResult(t *testing.T) {
	t.Run("empty lists are kept", func(t *testing.T) {
		result, err := DecodeAnalysisResult(`{"gap_summary":"","missing_skills":[],"certifications":[],"learning_resources":[]}`)

		require.NoError(t, err)
		assert.Equal(t, &models.AnalysisResult{
			MissingSkills:     []string{},
			Certifications:    []string{},
			LearningResources: []string{},
		}, result)
	})

	t.Run("missing certifications is named", func(t *testing.T) {
		_, err := DecodeAnalysisResult(`{"gap_summary":"x","missing_skills":["Go"],"learning_resources":[]}`)

		assert.ErrorIs(t, err, ErrResponseParse)
		assert.ErrorContains(t, err, "certifications")
	})

	t.Run("null field fails", func(t *testing.T) {
		_, err := DecodeAnalysisResult(`{"gap_summary":null,"missing_skills":[],"certifications":[],"learning_resources":[]}`)

		assert.ErrorIs(t, err, ErrResponseParse)
		assert.ErrorContains(t, err, "gap_summary")
	})

	t.Run("non-string element fails", func(t *testing.T) {
		_, err := DecodeAnalysisResult(`{"gap_summary":"x","missing_skills":[1],"certifications":[],"learning_resources":[]}`)

		assert.ErrorIs(t, err, ErrResponseParse)
	})
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence on one line", "```json {\"a\":1}```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n ", `{"a":1}`},
		{"opening fence only", "```json\n{\"a\":1}", "```json\n{\"a\":1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}
