package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/okapibank/okapi/internal/logging"
)

func idempotencyTestApp(t *testing.T) (*fiber.App, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	app.Post("/transfer", func(c *fiber.Ctx) error {
		// A fresh reference per invocation exposes replays: a cached response
		// carries the original reference.
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"reference": uuid.NewString()})
	})

	cleanup := func() {
		cache.Close()
		mr.Close()
	}
	return app, cleanup
}

func postTransfer(t *testing.T, app *fiber.App, key string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/transfer", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode, string(body)
}

func TestIdempotencyReplaysResponse(t *testing.T) {
	app, cleanup := idempotencyTestApp(t)
	defer cleanup()

	status1, body1 := postTransfer(t, app, "abc123")
	if status1 != fiber.StatusCreated {
		t.Fatalf("first request: expected 201, got %d", status1)
	}

	status2, body2 := postTransfer(t, app, "abc123")
	if status2 != fiber.StatusCreated {
		t.Fatalf("replay: expected cached 201, got %d", status2)
	}
	if body1 != body2 {
		t.Fatalf("replay produced a new response: %s vs %s", body1, body2)
	}
}

func TestIdempotencyDistinctKeysExecuteIndependently(t *testing.T) {
	app, cleanup := idempotencyTestApp(t)
	defer cleanup()

	_, body1 := postTransfer(t, app, "key-1")
	_, body2 := postTransfer(t, app, "key-2")
	if body1 == body2 {
		t.Fatal("distinct keys must not share a cached response")
	}
}

func TestIdempotencyWithoutKeyPassesThrough(t *testing.T) {
	app, cleanup := idempotencyTestApp(t)
	defer cleanup()

	_, body1 := postTransfer(t, app, "")
	_, body2 := postTransfer(t, app, "")
	if body1 == body2 {
		t.Fatal("keyless requests must execute every time")
	}
}
