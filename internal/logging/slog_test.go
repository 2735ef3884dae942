package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug, // include Debug records
	})
	return NewSlogLogger(slog.New(h)), &buf
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		out = append(out, rec)
	}
	return out
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	tests := []struct {
		level string
		msg   string
		key   string
	}{
		{"DEBUG", "dbg", "a"},
		{"INFO", "inf", "b"},
		{"WARN", "wrn", "c"},
		{"ERROR", "err", "d"},
	}

	recs := records(t, buf)
	require.Len(t, recs, len(tests))
	for i, tc := range tests {
		assert.Equal(t, tc.level, recs[i]["level"])
		assert.Equal(t, tc.msg, recs[i]["msg"])
		assert.Contains(t, recs[i], tc.key)
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("module", "http_server").Info(context.Background(), "hello", "k", "v")

	rec := records(t, buf)[0]
	assert.Equal(t, "http_server", rec["module"])
	assert.Equal(t, "v", rec["k"])
}

func TestSlogLogger_ContextFields(t *testing.T) {
	log, buf := newTestLogger(t)

	ctx := WithFields(context.Background(), "request_id", "req-1")
	ctx = WithFields(ctx, "user_id", "seeker-s")
	log.Warn(ctx, "failed to release resume", "public_id", "resumes/x.pdf")

	rec := records(t, buf)[0]
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "seeker-s", rec["user_id"])
	assert.Equal(t, "resumes/x.pdf", rec["public_id"])
}

func TestWithFields_DoesNotLeakIntoParent(t *testing.T) {
	parent := WithFields(context.Background(), "a", 1)
	_ = WithFields(parent, "b", 2)

	assert.Equal(t, []any{"a", 1}, fieldsFrom(parent))
}

func TestSlogLogger_ContextDoesNotPanic(t *testing.T) {
	log, buf := newTestLogger(t)

	ctx := context.TODO()
	log.Info(ctx, "ctx-ok")
	log.Debug(ctx, "ctx-ok")
	assert.Equal(t, 2, strings.Count(buf.String(), "ctx-ok"))
}
