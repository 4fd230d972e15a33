package customer

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/okapibank/okapi/internal/money"
	"github.com/okapibank/okapi/internal/user"
)

// Handler exposes customer details HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds a customer details HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type saveRequest struct {
	DateOfBirth  string `json:"dateOfBirth"`
	AadharNumber string `json:"aadharNumber"`
	PANNumber    string `json:"panNumber"`
	Occupation   string `json:"occupation"`
	AnnualIncome string `json:"annualIncome"`
}

// Response is the wire shape of a customer record, identity fields merged
// with the filed details. AnnualIncome is a two-decimal string.
type Response struct {
	CustomerID   string `json:"customerId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phoneNumber"`
	Address      string `json:"address"`
	DateOfBirth  string `json:"dateOfBirth"`
	AadharNumber string `json:"aadharNumber"`
	PANNumber    string `json:"panNumber"`
	Occupation   string `json:"occupation"`
	AnnualIncome string `json:"annualIncome"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// NewResponse merges a details record with its owning user.
func NewResponse(d Details, u user.User) Response {
	return Response{
		CustomerID:   d.UserID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PhoneNumber:  u.PhoneNumber,
		Address:      u.Address,
		DateOfBirth:  d.DateOfBirth,
		AadharNumber: d.AadharNumber,
		PANNumber:    d.PANNumber,
		Occupation:   d.Occupation,
		AnnualIncome: money.Format(d.AnnualIncome),
		CreatedAt:    d.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    d.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Save files or updates the caller's details.
func (h *Handler) Save(c *fiber.Ctx) error {
	var req saveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	var income int64
	if req.AnnualIncome != "" {
		cents, err := money.Parse(req.AnnualIncome)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid annual income")
		}
		income = cents
	}

	uid, _ := c.Locals(user.LocalUserID).(string)
	existed, err := h.svc.Save(c.UserContext(), uid, Input{
		DateOfBirth:  req.DateOfBirth,
		AadharNumber: req.AadharNumber,
		PANNumber:    req.PANNumber,
		Occupation:   req.Occupation,
		AnnualIncome: income,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	message := "Customer details added successfully"
	if existed {
		message = "Customer details updated successfully"
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// Get returns the caller's details merged with their identity fields.
func (h *Handler) Get(c *fiber.Ctx) error {
	uid, _ := c.Locals(user.LocalUserID).(string)
	d, u, err := h.svc.Get(c.UserContext(), uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "customer details not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(NewResponse(d, u))
}
