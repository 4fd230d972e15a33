package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/okapibank/okapi/internal/auth"
	"github.com/okapibank/okapi/internal/user"
)

func jwtTestApp(t *testing.T) (*fiber.App, *auth.Issuer, user.User) {
	t.Helper()

	repo := user.NewMemoryRepository()
	users := user.NewService(repo)
	u, err := users.Register(context.Background(), user.Registration{
		Username: "jdoe", Email: "jdoe@example.com", Password: "hunter22",
	}, user.RoleCustomer)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	issuer := auth.NewIssuer("test-secret", time.Hour)

	app := fiber.New()
	protected := app.Group("", JWTAuth(issuer, repo))
	protected.Get("/whoami", func(c *fiber.Ctx) error {
		uid, _ := c.Locals(user.LocalUserID).(string)
		return c.SendString(uid)
	})
	admin := protected.Group("/admin", RequireRole(user.RoleAdmin))
	admin.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	return app, issuer, u
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	app, issuer, u := jwtTestApp(t)

	token, err := issuer.Sign(u.ID, u.Role)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestJWTAuthRejections(t *testing.T) {
	app, issuer, u := jwtTestApp(t)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-token"},
		{"unknown subject", "Bearer " + mustSign(t, issuer, "ghost", u.Role)},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
		if tc.header != "" {
			req.Header.Set(fiber.HeaderAuthorization, tc.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: app.Test: %v", tc.name, err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", tc.name, resp.StatusCode)
		}
	}
}

func TestRequireRoleBlocksCustomer(t *testing.T) {
	app, issuer, u := jwtTestApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/admin/ping", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+mustSign(t, issuer, u.ID, u.Role))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func mustSign(t *testing.T, issuer *auth.Issuer, userID, role string) string {
	t.Helper()
	token, err := issuer.Sign(userID, role)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}
