package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(app *application, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	app.setupRouter().ServeHTTP(rr, req)
	return rr
}

func TestRouter_HealthAndBanner(t *testing.T) {
	_, remote := newFakeRemote(t, "task-1")
	app, _ := newTestApp(t, testConfig(remote.URL))

	rr := serve(app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())

	rr = serve(app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Upscayle API Service","docs":"/docs"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Trace-ID"))
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	_, remote := newFakeRemote(t, "task-1")
	app, _ := newTestApp(t, testConfig(remote.URL))

	req := httptest.NewRequest(http.MethodOptions, "/upscale/images", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rr := serve(app, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestRouter_StartThenStatus(t *testing.T) {
	fake, remote := newFakeRemote(t, "remote-42", "UPSCALING", "PROCESSED")
	fake.files = []string{"out/remote-42.png"}
	app, _ := newTestApp(t, testConfig(remote.URL))

	rr := serve(app, uploadRequest(t, "/upscale/images", "a.png"))
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())

	var started map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &started))
	assert.Equal(t, "remote-42", started["task_id"])
	assert.Equal(t, "started", started["status"])

	rr = serve(app, httptest.NewRequest(http.MethodGet, "/upscale/task/remote-42", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var status map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.Equal(t, "UPSCALING", status["task_status"])
	assert.Equal(t, "in_progress", status["state"])
	assert.Equal(t, []any{testAssetBase + "/out/remote-42.png"}, status["image_urls"])

	starts, checks := fake.counts()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, checks)
}

func TestRouter_SyncUpscale(t *testing.T) {
	fake, remote := newFakeRemote(t, "remote-7", "PROCESSING", "PROCESSING", "PROCESSED")
	fake.files = []string{"out/1.png"}
	app, sleeper := newTestApp(t, testConfig(remote.URL))

	rr := serve(app, uploadRequest(t, "/upscale/images/sync", "a.png", "b.png"))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	assert.JSONEq(t, `{
		"state": "completed",
		"task_status": "PROCESSED",
		"image_urls": ["`+testAssetBase+`/out/1.png"],
		"task_id": "remote-7"
	}`, rr.Body.String())

	assert.Equal(t, []time.Duration{500 * time.Millisecond, 500 * time.Millisecond}, sleeper.Waits())
	_, checks := fake.counts()
	assert.Equal(t, 3, checks)
}

func TestRouter_ValidationNeverReachesRemote(t *testing.T) {
	fake, remote := newFakeRemote(t, "unused")
	app, _ := newTestApp(t, testConfig(remote.URL))

	rr := serve(app, uploadRequest(t, "/upscale/images", "1.png", "2.png", "3.png", "4.png"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	starts, _ := fake.counts()
	assert.Equal(t, 0, starts)
}

func TestRouter_AuthGate(t *testing.T) {
	_, remote := newFakeRemote(t, "task-auth", "PROCESSED")
	cfg := testConfig(remote.URL)
	cfg.Auth.JWTSecret = testJWTSecret
	app, _ := newTestApp(t, cfg)

	t.Run("missing token", func(t *testing.T) {
		rr := serve(app, httptest.NewRequest(http.MethodGet, "/upscale/task/task-auth", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/upscale/task/task-auth", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rr := serve(app, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := app.tokenService.GenerateToken(context.Background(), "tester")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/upscale/task/task-auth", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := serve(app, req)
		assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	})

	t.Run("public routes stay open", func(t *testing.T) {
		rr := serve(app, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
