package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewZerologAdapter(&buf, "debug")
	if err != nil {
		t.Fatalf("NewZerologAdapter() error = %v", err)
	}

	logger.Info("state transition",
		String("from", "Created"),
		Int("cycle", 3),
		Bool("forced", true),
		Duration("elapsed", 2*time.Second),
		Hex("frame", []byte{0x01, 0xff}),
		Err(errors.New("boom")),
	)

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if line["message"] != "state transition" {
		t.Errorf("message = %v", line["message"])
	}
	if line["from"] != "Created" {
		t.Errorf("from = %v", line["from"])
	}
	if line["cycle"] != float64(3) {
		t.Errorf("cycle = %v", line["cycle"])
	}
	if line["frame"] != "01ff" {
		t.Errorf("frame = %v", line["frame"])
	}
	if line["error"] != "boom" {
		t.Errorf("error = %v", line["error"])
	}
}

func TestZerologAdapter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewZerologAdapter(&buf, "warn")
	if err != nil {
		t.Fatalf("NewZerologAdapter() error = %v", err)
	}

	logger.Debug("hidden")
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %s", buf.String())
	}

	logger.Warn("shown")
	if buf.Len() == 0 {
		t.Fatal("expected warn output")
	}
}

func TestZerologAdapter_With(t *testing.T) {
	var buf bytes.Buffer
	base, err := NewZerologAdapter(&buf, "")
	if err != nil {
		t.Fatalf("NewZerologAdapter() error = %v", err)
	}

	base.With(String("opmode", "Idle")).Info("loop")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if line["opmode"] != "Idle" {
		t.Errorf("opmode = %v", line["opmode"])
	}
}

func TestParseLevel_Invalid(t *testing.T) {
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) expected error")
	}
	if _, err := NewZerologAdapter(&bytes.Buffer{}, "loud"); err == nil {
		t.Error("NewZerologAdapter(loud) expected error")
	}
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NewNoopLogger()
	l.Debug("x")
	l.Info("x", String("k", "v"))
	l.Warn("x")
	l.Error("x", Err(errors.New("e")))
}
