package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ai-interviewer/internal/services"
)

// AdminGate is the authorization predicate for admin-only operations.
type AdminGate interface {
	IsAdmin(c *fiber.Ctx) bool
}

type tokenAdminGate struct {
	token string
}

// NewTokenAdminGate authorizes requests carrying the shared admin token in
// the X-Admin-Token header. An empty configured token rejects everything.
func NewTokenAdminGate(token string) AdminGate {
	return &tokenAdminGate{token: token}
}

func (g *tokenAdminGate) IsAdmin(c *fiber.Ctx) bool {
	return g.token != "" && c.Get("X-Admin-Token") == g.token
}

// RequireAdmin is the fiber middleware form of the gate.
func RequireAdmin(gate AdminGate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !gate.IsAdmin(c) {
			return respondError(c, services.ErrUnauthorized)
		}
		return c.Next()
	}
}

// respondError maps the domain error taxonomy onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	var transitionErr *services.IllegalTransitionError

	status := fiber.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		status = fiber.StatusBadRequest
	case errors.As(err, &transitionErr):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrCapacityExceeded):
		status = fiber.StatusTooManyRequests
	case errors.Is(err, services.ErrSessionConflict):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrTokenExpired):
		status = fiber.StatusGone
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
