package logger

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	f()

	_ = w.Close()
	b, _ := io.ReadAll(r)
	_ = r.Close()
	return string(b)
}

func TestLogger_ErrorEventCarriesServiceAndStack(t *testing.T) {
	out := captureStdout(t, func() {
		log := New("safety-service")
		log.Error().Stack().Err(errors.New("boom")).Msg("dispatch failed")
	})

	line := strings.TrimSpace(out)
	if line == "" {
		t.Fatalf("no output captured")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("invalid json log: %v\n%s", err, line)
	}
	if svc, _ := payload["service"].(string); svc != "safety-service" {
		t.Fatalf("service = %v, want safety-service", payload["service"])
	}
	if lvl, _ := payload["level"].(string); lvl != "error" {
		t.Fatalf("level = %v, want error", payload["level"])
	}
	if _, ok := payload["stack"]; !ok {
		t.Fatalf("missing stack field: %s", line)
	}
}
