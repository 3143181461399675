package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func newBufLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	return NewSlogLogger(slog.New(slog.NewJSONHandler(buf, nil))), buf
}

func TestSlogLogger_InfoWritesJSON(t *testing.T) {
	log, buf := newBufLogger(t)

	log.Info(context.Background(), "hello", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "hello", rec["msg"])
	require.Equal(t, "v", rec["k"])
	require.Equal(t, "INFO", rec["level"])
}

func TestSlogLogger_WithAddsFields(t *testing.T) {
	log, buf := newBufLogger(t)

	child := log.With("request_id", "r-1")
	child.Error(context.Background(), "failed")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "r-1", rec["request_id"])
	require.Equal(t, "ERROR", rec["level"])
}
