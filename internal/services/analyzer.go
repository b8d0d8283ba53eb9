package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"skillbridge/gap-analyzer/internal/models"
)

// AnalyzerService runs the encode → build → analyze stages of one submission,
// strictly in that order.
type AnalyzerService interface {
	AnalyzeResume(ctx context.Context, doc models.CandidateDocument, role string) (*models.AnalysisResult, error)
}

type analyzerService struct {
	encoder       DocumentEncoder
	promptBuilder *PromptBuilder
	geminiService GeminiService
	logger        zerolog.Logger
}

func NewAnalyzerService(encoder DocumentEncoder, geminiService GeminiService, logger zerolog.Logger) AnalyzerService {
	return &analyzerService{
		encoder:       encoder,
		promptBuilder: NewPromptBuilder(),
		geminiService: geminiService,
		logger:        logger,
	}
}

func (a *analyzerService) AnalyzeResume(ctx context.Context, doc models.CandidateDocument, role string) (*models.AnalysisResult, error) {
	log := a.logger.With().Str("document", doc.DisplayName).Str("role", role).Logger()

	// Step 1: Encode document
	log.Info().Msg("📄 Encoding resume...")
	payload, err := a.encoder.Encode(ctx, doc)
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to encode resume")
		return nil, err
	}

	// Step 2: Build request
	req := a.promptBuilder.BuildAnalysisRequest(payload, role)
	log.Debug().Int("prompt_length", len(req.InstructionText)).Msg("📝 Gap analysis request built")

	// Step 3: Analyze
	result, err := a.geminiService.Analyze(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze resume: %w", err)
	}

	log.Info().
		Int("missing_skills", len(result.MissingSkills)).
		Int("certifications", len(result.Certifications)).
		Int("learning_resources", len(result.LearningResources)).
		Msg("✅ Gap analysis completed")

	return result, nil
}
