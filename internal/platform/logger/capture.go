package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
)

// CaptureBuffer collects the JSON records written by a capture logger. It is
// safe for concurrent writers, such as handlers serving parallel requests.
type CaptureBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewCapture returns a JSON logger at the given level and the buffer it
// writes to.
func NewCapture(level slog.Level) (*slog.Logger, *CaptureBuffer) {
	buf := &CaptureBuffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level})), buf
}

// Write implements io.Writer.
func (b *CaptureBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything written so far.
func (b *CaptureBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Records decodes one JSON object per non-empty line.
func (b *CaptureBuffer) Records() ([]map[string]any, error) {
	var records []map[string]any
	for _, line := range strings.Split(b.String(), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Find returns the first record with the given message.
func (b *CaptureBuffer) Find(msg string) (map[string]any, bool) {
	records, err := b.Records()
	if err != nil {
		return nil, false
	}
	for _, rec := range records {
		if rec[slog.MessageKey] == msg {
			return rec, true
		}
	}
	return nil, false
}

// AtLevel returns the records logged at level, e.g. slog.LevelError.
func (b *CaptureBuffer) AtLevel(level slog.Level) []map[string]any {
	records, err := b.Records()
	if err != nil {
		return nil
	}
	var out []map[string]any
	for _, rec := range records {
		if rec[slog.LevelKey] == level.String() {
			out = append(out, rec)
		}
	}
	return out
}
