package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pawsched/pawsched-api/internal/service"
)

func TestReadyReportsFailingDependency(t *testing.T) {
	h := NewMetricsHandler(nil, 0,
		ReadyCheck{Name: "postgres", Check: func(context.Context) error { return nil }},
		ReadyCheck{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }},
	)
	c, rec := testContext(http.MethodGet, "/ready", nil, nil)

	h.Ready(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable","checks":{"redis":"connection refused"}}`, rec.Body.String())
}

func TestReadyWhenAllChecksPass(t *testing.T) {
	h := NewMetricsHandler(nil, 0, ReadyCheck{Name: "postgres", Check: func(context.Context) error { return nil }})
	c, rec := testContext(http.MethodGet, "/ready", nil, nil)

	h.Ready(c)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPrometheusServesRegistry(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordScheduleMutation("grooming", "create", nil)
	h := NewMetricsHandler(metrics, 0)
	c, rec := testContext(http.MethodGet, "/metrics", nil, nil)

	h.Prometheus(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "grooming")
}
