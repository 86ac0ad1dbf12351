package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestLoggerMasksCardNumbersAndPINs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info")

	logger.Info("transfer", "from", "4000001234567899", "to", "400000******6366", "pin", "1234", "amount", 10)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log record: %v", err)
	}
	if rec["from"] != "400000******7899" {
		t.Fatalf("expected masked source, got %v", rec["from"])
	}
	if rec["to"] != "400000******6366" {
		t.Fatalf("expected already masked value untouched, got %v", rec["to"])
	}
	if rec["pin"] != "****" {
		t.Fatalf("expected pin redacted, got %v", rec["pin"])
	}
	if rec["amount"] != float64(10) {
		t.Fatalf("expected amount kept, got %v", rec["amount"])
	}
}

func TestLoggerLevelFallback(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "loud")
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered at default info level")
	}
}
