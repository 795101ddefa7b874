package controller

import (
	"errors"

	"github.com/benbeisheim/plychess-backend/internal/model"
	"github.com/benbeisheim/plychess-backend/internal/service"
	"github.com/benbeisheim/plychess-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound), errors.Is(err, store.ErrRecordNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrNotInGame), errors.Is(err, model.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrNotYourTurn), errors.Is(err, model.ErrGameOver),
		errors.Is(err, model.ErrGameFull), errors.Is(err, model.ErrPlayerQueued),
		errors.Is(err, model.ErrAlreadyConnected):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrInvalidMove), errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrUnknownMode), errors.Is(err, model.ErrInvalidColor):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrArchiveMissing):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func writeError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
