package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"google.golang.org/genai"

	"skillbridge/gap-analyzer/internal/models"
)

// GeminiService is the AnalysisClient: one request in, one decoded result out.
// It never retries.
type GeminiService interface {
	Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResult, error)
}

// ContentGenerator is the part of *genai.Models the service uses.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiOptions struct {
	APIKey      string
	Model       string
	Temperature float32
	TopK        float32
	TopP        float32
}

type geminiService struct {
	opts      GeminiOptions
	logger    zerolog.Logger
	mu        sync.Mutex
	generator ContentGenerator
	connect   func(ctx context.Context, apiKey string) (ContentGenerator, error)
}

// NewGeminiService defers client creation to the first Analyze call so that a
// missing key is reported per submission instead of at startup.
func NewGeminiService(opts GeminiOptions, logger zerolog.Logger) GeminiService {
	return &geminiService{
		opts:    opts,
		logger:  logger,
		connect: connectGemini,
	}
}

// NewGeminiServiceWithGenerator uses a ready generator; the API key check still applies.
func NewGeminiServiceWithGenerator(opts GeminiOptions, generator ContentGenerator, logger zerolog.Logger) GeminiService {
	return &geminiService{
		opts:      opts,
		logger:    logger,
		generator: generator,
	}
}

func connectGemini(ctx context.Context, apiKey string) (ContentGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client.Models, nil
}

func (g *geminiService) client(ctx context.Context) (ContentGenerator, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.generator != nil {
		return g.generator, nil
	}

	generator, err := g.connect(ctx, g.opts.APIKey)
	if err != nil {
		return nil, err
	}
	g.generator = generator
	return generator, nil
}

// Analyze implements GeminiService.
func (g *geminiService) Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResult, error) {
	if strings.TrimSpace(g.opts.APIKey) == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is empty", ErrConfiguration)
	}

	generator, err := g.client(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	document, err := base64.StdEncoding.DecodeString(req.DocumentPayload)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid document payload: %w", ErrCapability, err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(document, req.MediaType),
			genai.NewPartFromText(req.InstructionText),
		}, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    req.OutputSchema,
		Temperature:       lo.ToPtr(g.opts.Temperature),
		TopK:              lo.ToPtr(g.opts.TopK),
		TopP:              lo.ToPtr(g.opts.TopP),
	}

	g.logger.Info().
		Str("model", g.opts.Model).
		Str("media_type", req.MediaType).
		Int("document_bytes", len(document)).
		Msg("🤖 Requesting gap analysis from Gemini")

	resp, err := generator.GenerateContent(ctx, g.opts.Model, contents, config)
	if err != nil {
		g.logger.Error().Err(err).Msg("❌ Gemini API error")
		return nil, fmt.Errorf("%w: %w", ErrCapability, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: no response generated (nil response)", ErrCapability)
	}

	text := resp.Text()
	g.logger.Debug().Int("characters", len(text)).Msg("📊 Gemini response received")

	result, err := DecodeAnalysisResult(text)
	if err != nil {
		g.logger.Error().Err(err).Msg("❌ Failed to decode gap analysis")
		return nil, err
	}

	return result, nil
}

type wireResult struct {
	GapSummary        *string  `json:"gap_summary" validate:"required"`
	MissingSkills     []string `json:"missing_skills" validate:"required"`
	Certifications    []string `json:"certifications" validate:"required"`
	LearningResources []string `json:"learning_resources" validate:"required"`
}

var responseValidator = newResponseValidator()

func newResponseValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeAnalysisResult strips an optional markdown fence and decodes the
// remaining JSON. Missing, null or mistyped fields fail; nothing is defaulted.
func DecodeAnalysisResult(text string) (*models.AnalysisResult, error) {
	body := StripCodeFence(text)
	if body == "" {
		return nil, fmt.Errorf("%w: empty response text", ErrResponseParse)
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(body), &wire); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResponseParse, err)
	}

	if err := responseValidator.Struct(wire); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			missing := lo.Map(verrs, func(fe validator.FieldError, _ int) string {
				return fe.Field()
			})
			return nil, fmt.Errorf("%w: missing required field(s): %s", ErrResponseParse, strings.Join(missing, ", "))
		}
		return nil, fmt.Errorf("%w: %w", ErrResponseParse, err)
	}

	return &models.AnalysisResult{
		GapSummary:        *wire.GapSummary,
		MissingSkills:     wire.MissingSkills,
		Certifications:    wire.Certifications,
		LearningResources: wire.LearningResources,
	}, nil
}

// StripCodeFence removes a surrounding ``` or ```json fence. Text that is not
// fenced on both ends is returned trimmed but otherwise untouched.
func StripCodeFence(text string) string {
	clean := strings.TrimSpace(text)
	if len(clean) < 6 || !strings.HasPrefix(clean, "```") || !strings.HasSuffix(clean, "```") {
		return clean
	}

	inner := clean[3 : len(clean)-3]
	if firstLine, rest, ok := strings.Cut(inner, "\n"); ok && isFenceLanguage(firstLine) {
		inner = rest
	} else if strings.HasPrefix(strings.ToLower(inner), "json") {
		inner = inner[len("json"):]
	}

	return strings.TrimSpace(inner)
}

func isFenceLanguage(line string) bool {
	line = strings.TrimSpace(line)
	return !strings.ContainsAny(line, "{}[]\" \t")
}
