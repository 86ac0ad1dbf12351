package server

import (
	"net/http/httptest"
	"testing"

	"github.com/congo-pay/cardbank/internal/config"
	"github.com/congo-pay/cardbank/internal/ledger"
	"github.com/congo-pay/cardbank/internal/logging"
)

func TestNewWithoutRedisSchedulesSweep(t *testing.T) {
	srv, err := New(config.Config{AppEnv: "test", SessionSecret: "s"}, ledger.NewInMemory(), nil, nil, nil, logging.Discard())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if got := len(srv.cron.Entries()); got != 1 {
		t.Fatalf("expected one scheduled sweep, got %d", got)
	}

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestNewRequiresRedisOutsideDev(t *testing.T) {
	_, err := New(config.Config{AppEnv: "production", SessionSecret: "s"}, ledger.NewInMemory(), nil, nil, nil, logging.Discard())
	if err == nil {
		t.Fatalf("expected production without redis to fail")
	}
}
