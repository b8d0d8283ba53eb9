package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"skillbridge/gap-analyzer/internal/models"
	"skillbridge/gap-analyzer/internal/repositories"
	"skillbridge/gap-analyzer/internal/services"
)

type SubmitHandler struct {
	sessionRepo repositories.SessionRepository
	worker      services.Worker
}

func NewSubmitHandler(
	sessionRepo repositories.SessionRepository,
	worker services.Worker,
) *SubmitHandler {
	return &SubmitHandler{
		sessionRepo: sessionRepo,
		worker:      worker,
	}
}

// HandleSubmit handles POST /sessions/:id/submit
func (h *SubmitHandler) HandleSubmit(c *fiber.Ctx) error {
	id, session, err := findSession(c, h.sessionRepo)
	if err != nil {
		return err
	}

	submission, err := session.Accept()
	if err != nil {
		var verr models.ValidationError
		switch {
		case errors.Is(err, services.ErrAlreadySubmitting):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case errors.As(err, &verr):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(toSessionResponse(id, session))
		default:
			return err
		}
	}

	// Enqueue job to worker
	err = h.worker.EnqueueJob(services.SubmissionJob{
		SessionID:  id,
		Session:    session,
		Submission: submission,
	})
	if err != nil {
		session.Finish(submission, nil, err)
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}

	return c.Status(fiber.StatusAccepted).JSON(models.SubmitResponse{
		ID:     id.String(),
		Status: string(models.StatusSubmitting),
	})
}
