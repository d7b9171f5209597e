package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/upscayl-gateway/internal/api/shared"
	"github.com/phrazzld/upscayl-gateway/internal/domain"
	"github.com/phrazzld/upscayl-gateway/internal/platform/upscayl"
	"github.com/phrazzld/upscayl-gateway/internal/service/auth"
	"github.com/phrazzld/upscayl-gateway/internal/upscale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", fmt.Errorf("wrapped: %w", auth.ErrExpiredToken), http.StatusUnauthorized},
		{"missing token", auth.ErrMissingToken, http.StatusUnauthorized},
		{"validation", domain.NewValidationError("scale", "must be one of [2 4 8]", nil), http.StatusBadRequest},
		{"start failed validation", fmt.Errorf("%w: %w", upscale.ErrStartFailed, domain.ErrValidation), http.StatusBadRequest},
		{"invalid form", shared.ErrInvalidForm, http.StatusBadRequest},
		{"too large", shared.ErrRequestTooLarge, http.StatusRequestEntityTooLarge},
		{"polling timeout", &upscale.TaskError{Handle: "t", Err: upscale.ErrPollingTimeout}, http.StatusRequestTimeout},
		{"task failed", &upscale.TaskError{Handle: "t", Err: upscale.ErrTaskFailed}, http.StatusInternalServerError},
		{"remote deadline", fmt.Errorf("%w: %w", upscayl.ErrTransport, context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"client disconnect", &upscale.TaskError{Handle: "t", Err: context.Canceled}, StatusClientClosedRequest},
		{"cancelled remote call", fmt.Errorf("%w: %w", upscayl.ErrTransport, context.Canceled), StatusClientClosedRequest},
		{"transport", upscayl.ErrTransport, http.StatusBadGateway},
		{"protocol", fmt.Errorf("%w: bad json", upscayl.ErrProtocol), http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestMapErrorToStatusCode_HungRemoteIsGatewayTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	opts := upscayl.DefaultOptions()
	opts.BaseURL = server.URL
	opts.APIKey = "test-key"
	opts.StatusTimeout = 50 * time.Millisecond
	client, err := upscayl.NewClient(opts, testLogger())
	require.NoError(t, err)

	_, err = client.GetStatus(context.Background(), "task-hung")
	require.Error(t, err)

	assert.Equal(t, http.StatusGatewayTimeout, MapErrorToStatusCode(err))
	assert.Equal(t, "Upscale service timed out", GetSafeErrorMessage(err))
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"expired", auth.ErrExpiredToken, "Token expired"},
		{"wrong type", auth.ErrWrongTokenType, "Invalid token"},
		{"field validation", domain.NewValidationError("scale", "must be one of [2 4 8]", nil), "Invalid scale: must be one of [2 4 8]"},
		{"fieldless validation", domain.NewValidationError("", "bad request", nil), "Bad request"},
		{"bare validation", domain.ErrValidation, "Validation error"},
		{"timeout", &upscale.TaskError{Handle: "t", Err: upscale.ErrPollingTimeout}, "Upscale task did not finish in time"},
		{"failed", &upscale.TaskError{Handle: "t", Reason: "secret internals", Err: upscale.ErrTaskFailed}, "Upscale task failed"},
		{"cancelled", &upscale.TaskError{Handle: "t", Err: context.Canceled}, "Request cancelled"},
		{"transport", fmt.Errorf("%w: dial tcp 10.0.0.1:443", upscayl.ErrTransport), "Upscale service unavailable"},
		{"protocol", upscayl.ErrProtocol, "Upscale service returned an unexpected response"},
		{"start failed", fmt.Errorf("%w: %w", upscale.ErrStartFailed, errors.New("x")), "Failed to start upscale task"},
		{"unknown", errors.New("database password=hunter2"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	t.Run("fallback replaces generic message", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		HandleAPIError(rr, req, errors.New("internal detail"), "Failed to do the thing")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		body := decodeBody[shared.ErrorResponse](t, rr)
		assert.Equal(t, "Failed to do the thing", body.Error)
		assert.NotContains(t, rr.Body.String(), "internal detail")
	})

	t.Run("classified message kept", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		HandleAPIError(rr, req, upscayl.ErrTransport, "ignored",
			shared.WithTaskDetails("task-1", "QUEUED", ""))

		require.Equal(t, http.StatusBadGateway, rr.Code)
		body := decodeBody[shared.ErrorResponse](t, rr)
		assert.Equal(t, "Upscale service unavailable", body.Error)
		assert.Equal(t, "task-1", body.TaskID)
		assert.Equal(t, "QUEUED", body.TaskStatus)
		assert.Empty(t, body.Reason)
	})
}
