package handlers

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"skillbridge/gap-analyzer/internal/models"
	"skillbridge/gap-analyzer/internal/repositories"
	"skillbridge/gap-analyzer/internal/services"
)

var validate = validator.New()

type SessionHandler struct {
	sessionRepo repositories.SessionRepository
	analyzer    services.AnalyzerService
	logger      zerolog.Logger
}

func NewSessionHandler(
	sessionRepo repositories.SessionRepository,
	analyzer services.AnalyzerService,
	logger zerolog.Logger,
) *SessionHandler {
	return &SessionHandler{
		sessionRepo: sessionRepo,
		analyzer:    analyzer,
		logger:      logger,
	}
}

// HandleCreate handles POST /sessions
func (h *SessionHandler) HandleCreate(c *fiber.Ctx) error {
	session := services.NewAnalysisSession(h.analyzer, h.logger)
	id := h.sessionRepo.Create(session)

	h.logger.Debug().Str("session_id", id.String()).Msg("🆕 Session created")
	return c.Status(fiber.StatusCreated).JSON(toSessionResponse(id, session))
}

// HandleGet handles GET /sessions/:id
func (h *SessionHandler) HandleGet(c *fiber.Ctx) error {
	id, session, err := findSession(c, h.sessionRepo)
	if err != nil {
		return err
	}
	return c.JSON(toSessionResponse(id, session))
}

// HandleDelete handles DELETE /sessions/:id
func (h *SessionHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	if err := h.sessionRepo.Delete(id); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Session not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSetRole handles PUT /sessions/:id/role
func (h *SessionHandler) HandleSetRole(c *fiber.Ctx) error {
	id, session, err := findSession(c, h.sessionRepo)
	if err != nil {
		return err
	}

	var req models.RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "target_role must be at most 50 characters")
	}

	session.SetRole(req.TargetRole)
	return c.JSON(toSessionResponse(id, session))
}

// HandleReset handles POST /sessions/:id/reset
func (h *SessionHandler) HandleReset(c *fiber.Ctx) error {
	id, session, err := findSession(c, h.sessionRepo)
	if err != nil {
		return err
	}

	session.Reset()
	return c.JSON(toSessionResponse(id, session))
}

func sessionID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid session ID format")
	}
	return id, nil
}

func findSession(c *fiber.Ctx, repo repositories.SessionRepository) (uuid.UUID, *services.AnalysisSession, error) {
	id, err := sessionID(c)
	if err != nil {
		return uuid.Nil, nil, err
	}

	session, err := repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return uuid.Nil, nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
		}
		return uuid.Nil, nil, err
	}
	return id, session, nil
}

func toSessionResponse(id uuid.UUID, session *services.AnalysisSession) models.SessionResponse {
	state := session.State()

	response := models.SessionResponse{
		ID:         id.String(),
		Status:     string(state.Status),
		TargetRole: state.Role,
		Result:     state.Result,
		UpdatedAt:  session.UpdatedAt().UTC().Truncate(time.Second),
	}

	if state.Document != nil {
		response.Document = &models.DocumentView{
			DisplayName: state.Document.DisplayName,
			MediaType:   state.Document.MediaType,
			SizeBytes:   state.Document.SizeBytes,
		}
	}
	if !state.ValidationError.IsNone() {
		response.ValidationError = validationView(state.ValidationError)
	}
	if state.ErrorMessage != "" {
		response.ErrorMessage = &state.ErrorMessage
	}

	return response
}

func validationView(verr models.ValidationError) *models.ValidationErrorView {
	return &models.ValidationErrorView{
		Code:    verr,
		Message: verr.Message(),
	}
}
