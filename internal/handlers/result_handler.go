package handlers

import (
	"github.com/gofiber/fiber/v2"

	"skillbridge/gap-analyzer/internal/models"
	"skillbridge/gap-analyzer/internal/repositories"
	"skillbridge/gap-analyzer/internal/services"
)

type ResultHandler struct {
	sessionRepo repositories.SessionRepository
}

func NewResultHandler(sessionRepo repositories.SessionRepository) *ResultHandler {
	return &ResultHandler{
		sessionRepo: sessionRepo,
	}
}

// HandleGetResult handles GET /sessions/:id/result
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	id, session, err := findSession(c, h.sessionRepo)
	if err != nil {
		return err
	}

	state := session.State()
	response := models.ResultResponse{
		ID:     id.String(),
		Status: string(state.Status),
	}

	// If completed, include results
	if state.Status == models.StatusSuccess {
		response.Result = state.Result
	}

	// If failed, include error message
	if state.Status == models.StatusFailed && state.ErrorMessage != "" {
		response.ErrorMessage = &state.ErrorMessage
	}

	return c.JSON(response)
}

// HandleDownloadTranscript handles GET /sessions/:id/transcript
func (h *ResultHandler) HandleDownloadTranscript(c *fiber.Ctx) error {
	_, session, err := findSession(c, h.sessionRepo)
	if err != nil {
		return err
	}

	state := session.State()
	if state.Status != models.StatusSuccess {
		return fiber.NewError(fiber.StatusConflict, "No successful analysis to download")
	}

	c.Attachment(services.TranscriptFileName)
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(services.FormatTranscript(state.AnalyzedRole, state.Result))
}
