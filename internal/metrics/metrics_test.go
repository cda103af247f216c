package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(llmRequests.WithLabelValues("questions", OutcomeMalformed))
	ObserveLLM("questions", OutcomeMalformed, 2*time.Second)
	MalformedOutput("questions")
	assert.Equal(t, before+1, testutil.ToFloat64(llmRequests.WithLabelValues("questions", OutcomeMalformed)))

	beforeQuota := testutil.ToFloat64(quotaRejections.WithLabelValues("feedback"))
	QuotaRejected("feedback")
	assert.Equal(t, beforeQuota+1, testutil.ToFloat64(quotaRejections.WithLabelValues("feedback")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/metrics", Handler())
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/items/42", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/items/:id", "200")), 1.0)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "mock_interview_http_requests_total")
}
