package services

import (
	"fmt"

	"google.golang.org/genai"

	"skillbridge/gap-analyzer/internal/models"
)

const (
	FieldGapSummary        = "gap_summary"
	FieldMissingSkills     = "missing_skills"
	FieldCertifications    = "certifications"
	FieldLearningResources = "learning_resources"
)

// ResultFields is the order the model is asked to produce fields in.
var ResultFields = []string{FieldGapSummary, FieldMissingSkills, FieldCertifications, FieldLearningResources}

const systemInstruction = `You are a highly experienced career coach and resume analyst. Your task is to evaluate a candidate's resume against a specified target role. Identify any career gaps, missing skills, and suggest valuable certifications and learning resources to bridge these gaps. Your response must be in a structured JSON format.`

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisRequest is deterministic: the same payload and role always
// produce an equal request.
func (pb *PromptBuilder) BuildAnalysisRequest(payload *models.EncodedPayload, role string) *models.AnalysisRequest {
	return &models.AnalysisRequest{
		DocumentPayload:   payload.Base64Data,
		MediaType:         payload.MediaType,
		Role:              role,
		SystemInstruction: systemInstruction,
		InstructionText:   pb.BuildGapAnalysisPrompt(role),
		OutputSchema:      AnalysisSchema(),
	}
}

// BuildGapAnalysisPrompt mentions the role exactly once; everything after
// refers back to it as "the target role".
func (pb *PromptBuilder) BuildGapAnalysisPrompt(role string) string {
	return fmt.Sprintf(`Analyze the attached resume document thoroughly. The candidate is applying for the position of "%s" (referred to below as the target role).

Based on the resume content and the requirements of the target role, provide the following:
- A concise "%s": Summarize any significant career gaps, lack of relevant experience, or under-demonstrated skills relative to the target role.
- A list of "%s": Enumerate specific technical and soft skills that are typically required for the target role but are either absent or not strongly highlighted in the resume.
- A list of "%s": Suggest specific industry-recognized certifications that would significantly boost the candidate's qualification for the target role.
- A list of "%s": Provide actionable learning resources (e.g., URLs to online courses like Coursera, edX, Udemy; specific book titles; or reputable learning platforms) that can help the candidate acquire the identified missing skills or certifications. Prioritize direct links where appropriate.

Return ONLY a JSON object matching the response schema. All four fields are required; use an empty list when there is nothing to suggest.`,
		role, FieldGapSummary, FieldMissingSkills, FieldCertifications, FieldLearningResources)
}

// AnalysisSchema returns a new copy of the response schema on every call.
func AnalysisSchema() *genai.Schema {
	stringList := func(description string) *genai.Schema {
		return &genai.Schema{
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: description,
		}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			FieldGapSummary: {
				Type:        genai.TypeString,
				Description: "A summary of missing experience or skills relevant to the target role.",
			},
			FieldMissingSkills:     stringList("A list of technical or soft skills missing for the target role."),
			FieldCertifications:    stringList("A list of certifications that would help for the target role."),
			FieldLearningResources: stringList("A list of learning links or courses to address gaps."),
		},
		Required:         append([]string(nil), ResultFields...),
		PropertyOrdering: append([]string(nil), ResultFields...),
	}
}
