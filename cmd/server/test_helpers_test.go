package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"github.com/phrazzld/upscayl-gateway/internal/config"
	"github.com/phrazzld/upscayl-gateway/internal/mocks"
	"github.com/phrazzld/upscayl-gateway/internal/upscale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey    = "remote-test-key"
	testAssetBase = "https://assets.example.com"
	testJWTSecret = "0123456789abcdef0123456789abcdef"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(remoteURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8046, LogLevel: "debug"},
		Remote: config.RemoteConfig{
			APIURL:               remoteURL,
			APIKey:               testAPIKey,
			AssetBaseURL:         testAssetBase,
			StartTimeoutSeconds:  5,
			StatusTimeoutSeconds: 5,
		},
		Polling: config.PollingConfig{MaxWaitSeconds: 30},
		Auth:    config.AuthConfig{TokenLifetimeMinutes: 60},
	}
}

// fakeRemote is an in-process stand-in for the remote Upscayl API. Status
// checks reply with statuses in order; the last one repeats.
type fakeRemote struct {
	t        *testing.T
	taskID   string
	statuses []string
	files    []string

	mu          sync.Mutex
	starts      int
	statusCalls int
}

func newFakeRemote(t *testing.T, taskID string, statuses ...string) (*fakeRemote, *httptest.Server) {
	t.Helper()
	remote := &fakeRemote{t: t, taskID: taskID, statuses: statuses}
	server := httptest.NewServer(remote)
	t.Cleanup(server.Close)
	return remote, server
}

func (f *fakeRemote) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	assert.Equal(f.t, testAPIKey, r.Header.Get("X-API-Key"))
	w.Header().Set("Content-Type", "application/json")

	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.URL.Path {
	case "/start-task":
		f.starts++
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"taskId": f.taskID}})

	case "/get-task-status":
		status := "QUEUED"
		if len(f.statuses) > 0 {
			i := f.statusCalls
			if i >= len(f.statuses) {
				i = len(f.statuses) - 1
			}
			status = f.statuses[i]
		}
		f.statusCalls++

		files := make([]any, 0, len(f.files))
		for _, p := range f.files {
			files = append(files, map[string]any{"path": p})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"status": status, "files": files},
		})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeRemote) counts() (starts, statusCalls int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts, f.statusCalls
}

// newTestApp builds an application against the given config with a fake
// clock and a non-blocking sleeper.
func newTestApp(t *testing.T, cfg *config.Config) (*application, *mocks.RecordingSleeper) {
	t.Helper()
	clock := mocks.NewFakeClock()
	sleeper := &mocks.RecordingSleeper{Clock: clock}

	app, err := newApplication(cfg, testLogger(), upscale.WithClock(clock), upscale.WithSleeper(sleeper))
	require.NoError(t, err)
	return app, sleeper
}

// uploadRequest builds a multipart upload with one PNG per name.
func uploadRequest(t *testing.T, path string, names ...string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range names {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="files"; filename="`+name+`"`)
		header.Set("Content-Type", "image/png")
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("png:" + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
