package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func TestRateLimiterThrottlesPerIP(t *testing.T) {
	t.Parallel()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	m := New(logger)
	app := fiber.New()
	app.Use(m.NewRateLimiter)
	app.Get("/ping", func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusOK)
	})

	throttled := 0
	// Well past the burst so the token refill during the loop cannot mask
	// the limit.
	for i := 0; i < burstSize*2; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		switch resp.StatusCode {
		case fiber.StatusOK:
		case fiber.StatusTooManyRequests:
			throttled++
		default:
			t.Fatalf("request %d: unexpected status %d", i, resp.StatusCode)
		}
	}

	if throttled == 0 {
		t.Fatalf("no request throttled after exceeding the burst of %d", burstSize)
	}
}
