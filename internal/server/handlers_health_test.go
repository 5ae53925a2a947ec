package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleLiveness(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Liveness does not depend on the models.
	srv := NewServer(testConfig(), &mockPredictor{ready: false})
	err := srv.handleLiveness(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleReadiness(t *testing.T) {
	tests := []struct {
		name       string
		pred       *mockPredictor
		opts       []Option
		wantStatus int
		wantBody   string
	}{
		{
			name:       "ready",
			pred:       &mockPredictor{ready: true},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready"}`,
		},
		{
			name:       "models failed to load",
			pred:       &mockPredictor{ready: false, loadErr: errors.New("open glove.txt: no such file")},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"unavailable","error":"open glove.txt: no such file"}`,
		},
		{
			name: "dependency down",
			pred: &mockPredictor{ready: true},
			opts: []Option{
				WithHealthCheck("valkey", func(context.Context) error { return errors.New("connection refused") }),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"unavailable","error":"valkey: connection refused"}`,
		},
		{
			name: "dependency up",
			pred: &mockPredictor{ready: true},
			opts: []Option{
				WithHealthCheck("valkey", func(context.Context) error { return nil }),
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(testConfig(), tt.pred, tt.opts...)
			rec := doRequest(srv, http.MethodGet, "/health/ready", "", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
