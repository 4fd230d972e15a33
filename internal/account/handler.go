package account

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/okapibank/okapi/internal/money"
	"github.com/okapibank/okapi/internal/user"
)

// Handler exposes account HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds an account HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Balance returns the caller's balances keyed by account number, rendered as
// two-decimal strings.
func (h *Handler) Balance(c *fiber.Ctx) error {
	uid, _ := c.Locals(user.LocalUserID).(string)
	balances, err := h.svc.Balances(c.UserContext(), uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "no accounts found for the user")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	rendered := make(map[string]string, len(balances))
	for number, cents := range balances {
		rendered[number] = money.Format(cents)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Account balances retrieved successfully",
		"balances": rendered,
	})
}
