package admin

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/okapibank/okapi/internal/transfer"
	"github.com/okapibank/okapi/internal/user"
)

// Handler exposes the admin listing endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds an admin HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Users lists customer users with pagination.
func (h *Handler) Users(c *fiber.Ctx) error {
	page := c.QueryInt("page", 0)
	size := c.QueryInt("size", 10)
	result, err := h.svc.Users(c.UserContext(), page, size)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(result)
}

// UserByID returns one user's detail record.
func (h *Handler) UserByID(c *fiber.Ctx) error {
	record, err := h.svc.User(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(record)
}

// TransactionByID returns one transaction's detail record.
func (h *Handler) TransactionByID(c *fiber.Ctx) error {
	record, err := h.svc.Transaction(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, transfer.ErrTransactionNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(record)
}

// Transactions lists all transactions with pagination.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	page := c.QueryInt("page", 0)
	size := c.QueryInt("size", 10)
	result, err := h.svc.Transactions(c.UserContext(), page, size)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(result)
}
