package models

import "google.golang.org/genai"

type SessionStatus string

const (
	StatusIdle       SessionStatus = "idle"
	StatusSubmitting SessionStatus = "submitting"
	StatusSuccess    SessionStatus = "success"
	StatusFailed     SessionStatus = "failed"
)

// AnalysisRequest is built fresh for every submission and never mutated afterwards.
type AnalysisRequest struct {
	DocumentPayload   string
	MediaType         string
	Role              string
	SystemInstruction string
	InstructionText   string
	OutputSchema      *genai.Schema
}

type AnalysisResult struct {
	GapSummary        string   `json:"gap_summary"`
	MissingSkills     []string `json:"missing_skills"`
	Certifications    []string `json:"certifications"`
	LearningResources []string `json:"learning_resources"`
}
