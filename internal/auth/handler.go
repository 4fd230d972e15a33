package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/okapibank/okapi/internal/user"
)

// Handler exposes the authentication endpoints.
type Handler struct {
	svc   *Service
	users *user.Service
	reset *user.PasswordReset
}

// NewHandler builds an auth HTTP handler.
func NewHandler(svc *Service, users *user.Service, reset *user.PasswordReset) *Handler {
	return &Handler{svc: svc, users: users, reset: reset}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type grantResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Role    string `json:"role"`
	Message string `json:"message,omitempty"`
}

// LoginCustomer authenticates a customer and returns a bearer token.
func (h *Handler) LoginCustomer(c *fiber.Ctx) error {
	return h.login(c, user.RoleCustomer)
}

// LoginAdmin authenticates an administrator and returns a bearer token.
func (h *Handler) LoginAdmin(c *fiber.Ctx) error {
	return h.login(c, user.RoleAdmin)
}

func (h *Handler) login(c *fiber.Ctx, requiredRole string) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	grant, err := h.svc.Login(c.UserContext(), user.Credentials{Username: req.Username, Password: req.Password}, requiredRole)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "invalid username or password")
	}
	return c.Status(http.StatusOK).JSON(grantResponse{Success: true, Token: grant.Token, Role: grant.Role})
}

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	AccountType string `json:"accountType"`
}

// RegisterCustomer creates a customer account and logs the caller in.
func (h *Handler) RegisterCustomer(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	grant, err := h.svc.RegisterCustomer(c.UserContext(), user.Registration{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		AccountType: req.AccountType,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(grantResponse{
		Success: true,
		Token:   grant.Token,
		Role:    grant.Role,
		Message: "Customer registered successfully",
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword issues a verification code for the account registered
// under the given email. The response does not reveal whether the email
// exists beyond the error message, matching the web client's handling.
func (h *Handler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.reset.Initiate(c.UserContext(), req.Email); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Verification code sent to your email",
	})
}

type resetPasswordRequest struct {
	Email            string `json:"email"`
	VerificationCode string `json:"verificationCode"`
	NewPassword      string `json:"newPassword"`
}

// ResetPassword completes the flow with the code issued by ForgotPassword.
func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.reset.Reset(c.UserContext(), req.Email, req.VerificationCode, req.NewPassword); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password reset successful",
	})
}

// Me returns the authenticated principal's profile.
func (h *Handler) Me(c *fiber.Ctx) error {
	uid, _ := c.Locals(user.LocalUserID).(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "missing authentication")
	}
	u, err := h.users.Get(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "user not found")
	}
	return c.JSON(fiber.Map{
		"userId":      u.ID,
		"username":    u.Username,
		"email":       u.Email,
		"firstName":   u.FirstName,
		"lastName":    u.LastName,
		"phoneNumber": u.PhoneNumber,
		"address":     u.Address,
		"role":        u.Role,
		"isActive":    u.Active,
		"createdAt":   u.CreatedAt,
	})
}
