package beneficiary

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/okapibank/okapi/internal/money"
	"github.com/okapibank/okapi/internal/user"
)

// Handler exposes beneficiary HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds a beneficiary HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Response is the wire shape of a beneficiary. MaxTransferLimit is a
// two-decimal string; empty means no limit is configured.
type Response struct {
	BeneficiaryID    string `json:"beneficiaryId"`
	Name             string `json:"name"`
	BankName         string `json:"bankName"`
	AccountNumber    string `json:"accountNumber"`
	IFSCCode         string `json:"ifscCode"`
	MaxTransferLimit string `json:"maxTransferLimit,omitempty"`
	Relationship     string `json:"relationship"`
	IsActive         bool   `json:"isActive"`
}

// NewResponse converts a model beneficiary to its wire shape.
func NewResponse(b Beneficiary) Response {
	resp := Response{
		BeneficiaryID: b.ID,
		Name:          b.Name,
		BankName:      b.BankName,
		AccountNumber: b.AccountNumber,
		IFSCCode:      b.IFSCCode,
		Relationship:  b.Relationship,
		IsActive:      b.Active,
	}
	if b.MaxTransferLimit != 0 {
		resp.MaxTransferLimit = money.Format(b.MaxTransferLimit)
	}
	return resp
}

type addRequest struct {
	Name             string `json:"name"`
	BankName         string `json:"bankName"`
	AccountNumber    string `json:"accountNumber"`
	IFSCCode         string `json:"ifscCode"`
	MaxTransferLimit string `json:"maxTransferLimit"`
	Relationship     string `json:"relationship"`
}

// Add saves a new beneficiary for the caller.
func (h *Handler) Add(c *fiber.Ctx) error {
	var req addRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	var limit int64
	if req.MaxTransferLimit != "" {
		cents, err := money.Parse(req.MaxTransferLimit)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid max transfer limit")
		}
		limit = cents
	}

	uid, _ := c.Locals(user.LocalUserID).(string)
	b, err := h.svc.Add(c.UserContext(), uid, AddInput{
		Name:             req.Name,
		BankName:         req.BankName,
		AccountNumber:    req.AccountNumber,
		IFSCCode:         req.IFSCCode,
		MaxTransferLimit: limit,
		Relationship:     req.Relationship,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"message":     "Beneficiary added successfully",
		"beneficiary": NewResponse(b),
	})
}

// List returns the caller's beneficiaries.
func (h *Handler) List(c *fiber.Ctx) error {
	uid, _ := c.Locals(user.LocalUserID).(string)
	list, err := h.svc.List(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	responses := make([]Response, 0, len(list))
	for _, b := range list {
		responses = append(responses, NewResponse(b))
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"beneficiaries": responses,
	})
}
