package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level, got %v", log.GetLevel())
	}

	log.WithField("session", "abc").Info("run started")
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json output, got %q", buf.String())
	}
	if line["session"] != "abc" || line["msg"] != "run started" {
		t.Errorf("unexpected entry %v", line)
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Output: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Debug("hidden")
	log.Info("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}
