package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/congo-pay/cardbank/internal/card"
)

// cardKeys are attribute keys that may carry a card number.
var cardKeys = map[string]bool{
	"card":         true,
	"from":         true,
	"to":           true,
	"destination":  true,
	"counterparty": true,
}

// New creates a JSON slog logger configured at the provided level. If the
// level string is invalid it defaults to info.
func New(level string) *slog.Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter is New writing to w. Card numbers under the card attribute
// keys are masked and PINs are redacted whatever the caller passes.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	lvl := new(slog.LevelVar)
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl.Set(slog.LevelInfo)
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl, ReplaceAttr: redact})
	return slog.New(handler)
}

// Discard returns a logger that drops all output. Useful for tests.
func Discard() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})
	return slog.New(handler)
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if a.Key == "pin" {
		return slog.String(a.Key, "****")
	}
	if !cardKeys[a.Key] || a.Value.Kind() != slog.KindString {
		return a
	}
	if v := a.Value.String(); isDigits(v) && len(v) >= 12 {
		return slog.String(a.Key, card.Mask(v))
	}
	return a
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
