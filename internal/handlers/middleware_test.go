package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-interviewer/internal/models"
	"ai-interviewer/internal/services"
)

func adminTestApp(token string) *fiber.App {
	app := fiber.New()
	app.Get("/admin", RequireAdmin(NewTokenAdminGate(token)), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})
	return app
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		header     string
		wantStatus int
	}{
		{"valid token", "secret", "secret", http.StatusOK},
		{"wrong token", "secret", "wrong", http.StatusUnauthorized},
		{"missing header", "secret", "", http.StatusUnauthorized},
		{"empty configured token rejects all", "", "", http.StatusUnauthorized},
		{"empty configured token rejects even empty match", "", "anything", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := adminTestApp(tt.configured)

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("X-Admin-Token", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", services.NewValidationError("answer", "answer must not be empty"), http.StatusBadRequest},
		{"illegal transition", &services.IllegalTransitionError{From: models.SessionCompleted, To: models.SessionActive}, http.StatusConflict},
		{"not found", fmt.Errorf("%w: session x", services.ErrNotFound), http.StatusNotFound},
		{"unauthorized", services.ErrUnauthorized, http.StatusUnauthorized},
		{"capacity", services.ErrCapacityExceeded, http.StatusTooManyRequests},
		{"session conflict", fmt.Errorf("%w: duplicate", services.ErrSessionConflict), http.StatusConflict},
		{"token expired", services.ErrTokenExpired, http.StatusGone},
		{"unknown", fmt.Errorf("disk is on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/boom", func(c *fiber.Ctx) error {
				return respondError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
