package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"

	"skillbridge/gap-analyzer/internal/models"
)

func TestBuildAnalysisRequest(t *testing.T) {
	payload := &models.EncodedPayload{Base64Data: "MDEyMzQ1Njc4OQ==", MediaType: MediaTypeText}

	req := NewPromptBuilder().BuildAnalysisRequest(payload, "Data Scientist")

	assert.Equal(t, payload.Base64Data, req.DocumentPayload)
	assert.Equal(t, MediaTypeText, req.MediaType)
	assert.Equal(t, "Data Scientist", req.Role)
	assert.Contains(t, req.SystemInstruction, "career coach")
	assert.Equal(t, 1, strings.Count(req.InstructionText, "Data Scientist"))
	for _, field := range ResultFields {
		assert.Contains(t, req.InstructionText, field)
	}
}

func TestBuildAnalysisRequest_Deterministic(t *testing.T) {
	payload := &models.EncodedPayload{Base64Data: "QUJD", MediaType: MediaTypePDF}
	builder := NewPromptBuilder()

	first := builder.BuildAnalysisRequest(payload, "Product Manager")
	second := builder.BuildAnalysisRequest(payload, "Product Manager")

	assert.Equal(t, first, second)
	assert.NotSame(t, first.OutputSchema, second.OutputSchema)
}

func TestAnalysisSchema(t *testing.T) {
	schema := AnalysisSchema()

	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.Equal(t, ResultFields, schema.Required)
	assert.Equal(t, ResultFields, schema.PropertyOrdering)
	assert.Equal(t, genai.TypeString, schema.Properties[FieldGapSummary].Type)
	for _, field := range []string{FieldMissingSkills, FieldCertifications, FieldLearningResources} {
		assert.Equal(t, genai.TypeArray, schema.Properties[field].Type, field)
		assert.Equal(t, genai.TypeString, schema.Properties[field].Items.Type, field)
	}

	// Callers mutating their copy must not affect the next request.
	schema.Required[0] = "changed"
	assert.Equal(t, FieldGapSummary, AnalysisSchema().Required[0])
}
