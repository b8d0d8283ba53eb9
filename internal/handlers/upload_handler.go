package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"skillbridge/gap-analyzer/internal/models"
	"skillbridge/gap-analyzer/internal/repositories"
	"skillbridge/gap-analyzer/internal/services"
)

type UploadHandler struct {
	sessionRepo repositories.SessionRepository
	source      services.DocumentSource
	inspector   services.DocumentInspector
	logger      zerolog.Logger
}

func NewUploadHandler(
	sessionRepo repositories.SessionRepository,
	source services.DocumentSource,
	inspector services.DocumentInspector,
	logger zerolog.Logger,
) *UploadHandler {
	return &UploadHandler{
		sessionRepo: sessionRepo,
		source:      source,
		inspector:   inspector,
		logger:      logger,
	}
}

// HandleSelectDocument handles PUT /sessions/:id/document. It accepts a
// multipart "resume" field or a JSON body carrying a data URL.
func (h *UploadHandler) HandleSelectDocument(c *fiber.Ctx) error {
	id, session, err := findSession(c, h.sessionRepo)
	if err != nil {
		return err
	}

	var doc models.CandidateDocument
	if c.Is("json") {
		var req models.SelectDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file_name and a data: URL are required")
		}
		doc, err = h.source.FromDataURL(req.FileName, req.DataURL)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	} else {
		file, err := c.FormFile("resume")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "resume file is required")
		}
		doc, err = h.source.FromUpload(file)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}

	if verr := session.SelectDocument(doc); !verr.IsNone() {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(toSessionResponse(id, session))
	}

	info, err := h.inspector.Inspect(doc)
	if err != nil {
		h.logger.Warn().Err(err).Str("document", doc.DisplayName).Msg("⚠️ Could not inspect document")
	}

	return c.JSON(models.UploadResponse{
		ID:       id.String(),
		Document: info,
	})
}
