package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestHelpersNilSafe(t *testing.T) {
	Info(nil, "info")
	Warn(nil, "warn")
	Error(nil, "error", errors.New("boom"))
}

func TestErrorAppendsErr(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	Error(logger, "save failed", errors.New("disk full"), FieldKey, "user")

	out := buf.String()
	if !strings.Contains(out, "disk full") || !strings.Contains(out, "key=user") {
		t.Fatalf("unexpected log output %s", out)
	}
}
