package transfer

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/okapibank/okapi/internal/user"
)

func handlerApp(t *testing.T, f fixture) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if fe, ok := err.(*fiber.Error); ok {
			code = fe.Code
		}
		return c.Status(code).JSON(fiber.Map{"success": false, "message": err.Error()})
	}})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(user.LocalUserID, f.userID)
		return c.Next()
	})
	app.Post("/transfers/beneficiary", NewHandler(f.svc).ToBeneficiary)
	return app
}

func postTransfer(t *testing.T, app *fiber.App, payload string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/transfers/beneficiary", bytes.NewReader([]byte(payload)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, body
}

// Amounts arrive as decimal strings or bare JSON numbers; both are honored
// and sub-cent numbers are rejected.
func TestTransferAmountShapes(t *testing.T) {
	f := newFixture(t, 100_000, 0)
	app := handlerApp(t, f)

	status, body := postTransfer(t, app,
		`{"beneficiaryId":"`+f.benID+`","amount":"250.50","description":"rent"}`)
	if status != fiber.StatusOK || body["newBalance"] != "749.50" {
		t.Fatalf("string amount: got %d %v", status, body)
	}

	status, body = postTransfer(t, app,
		`{"beneficiaryId":"`+f.benID+`","amount":100.25,"description":"rent"}`)
	if status != fiber.StatusOK || body["newBalance"] != "649.25" {
		t.Fatalf("numeric amount: got %d %v", status, body)
	}

	for name, payload := range map[string]string{
		"sub-cent number": `{"beneficiaryId":"` + f.benID + `","amount":10.555}`,
		"boolean":         `{"beneficiaryId":"` + f.benID + `","amount":true}`,
		"missing":         `{"beneficiaryId":"` + f.benID + `"}`,
	} {
		status, body = postTransfer(t, app, payload)
		if status != fiber.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d %v", name, status, body)
		}
	}
}
