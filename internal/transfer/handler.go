package transfer

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/okapibank/okapi/internal/money"
	"github.com/okapibank/okapi/internal/user"
)

// Handler exposes transfer HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds a transfer HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type transferRequest struct {
	BeneficiaryID string          `json:"beneficiaryId"`
	Amount        json.RawMessage `json:"amount"`
	Description   string          `json:"description"`
}

// amountString accepts the amount as either a decimal string or a bare JSON
// number, the two shapes clients send. Numbers carrying sub-cent precision
// are rejected rather than rounded.
func amountString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return "", ErrInvalidAmount
	}
	cents, err := money.ParseFloat(f)
	if err != nil {
		return "", ErrInvalidAmount
	}
	return money.Format(cents), nil
}

// TransactionResponse is the wire shape of a transaction.
type TransactionResponse struct {
	TransactionID string `json:"transactionId"`
	Reference     string `json:"transactionReference"`
	BeneficiaryID string `json:"beneficiaryId"`
	Amount        string `json:"amount"`
	Type          string `json:"transactionType"`
	Status        string `json:"status"`
	Description   string `json:"description"`
	CreatedAt     string `json:"createdAt"`
}

func newTransactionResponse(tx Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: tx.ID,
		Reference:     tx.Reference,
		BeneficiaryID: tx.BeneficiaryID,
		Amount:        money.Format(tx.Amount),
		Type:          tx.Type,
		Status:        tx.Status,
		Description:   tx.Description,
		CreatedAt:     tx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ToBeneficiary executes a transfer to one of the caller's beneficiaries.
func (h *Handler) ToBeneficiary(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	amount, err := amountString(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	uid, _ := c.Locals(user.LocalUserID).(string)
	res, err := h.svc.ToBeneficiary(c.UserContext(), uid, Request{
		BeneficiaryID: req.BeneficiaryID,
		Amount:        amount,
		Description:   req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBeneficiaryNotFound), errors.Is(err, ErrNoAccount):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrLimitExceeded), errors.Is(err, ErrInsufficientBalance):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "Transfer completed successfully",
		"transaction": newTransactionResponse(res.Transaction),
		"newBalance":  money.Format(res.NewBalance),
	})
}

// History returns a page of the caller's transactions.
func (h *Handler) History(c *fiber.Ctx) error {
	uid, _ := c.Locals(user.LocalUserID).(string)
	page := c.QueryInt("page", 0)
	size := c.QueryInt("size", 10)

	txs, total, err := h.svc.History(c.UserContext(), uid, page, size)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	responses := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, newTransactionResponse(tx))
	}
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"transactions": responses,
		"totalItems":   total,
		"totalPages":   pages,
	})
}
