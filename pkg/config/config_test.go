package config

import (
	"testing"
	"time"
)

func TestEnsureDSNBuildsFromParts(t *testing.T) {
	t.Parallel()

	cfg := DBConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "portal",
		Password: "secret",
		Name:     "quoteportal",
		SSLMode:  "disable",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("ensureDSN: %v", err)
	}
	want := "host=localhost port=5432 user=portal password=secret dbname=quoteportal sslmode=disable"
	if cfg.DSN != want {
		t.Fatalf("DSN = %q, want %q", cfg.DSN, want)
	}
}

func TestEnsureDSNRequiresHostUserName(t *testing.T) {
	t.Parallel()

	cfg := DBConfig{Host: "localhost"}
	if err := cfg.ensureDSN(); err == nil {
		t.Fatal("expected error for incomplete db config")
	}
}

func TestEnsureDSNKeepsExplicitDSN(t *testing.T) {
	t.Parallel()

	cfg := DBConfig{DSN: "postgres://u:p@h/db"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("ensureDSN: %v", err)
	}
	if cfg.DSN != "postgres://u:p@h/db" {
		t.Fatalf("DSN overwritten: %q", cfg.DSN)
	}
}

func TestJWTExpirationFallback(t *testing.T) {
	t.Parallel()

	if got := (JWTConfig{}).Expiration(); got != time.Hour {
		t.Fatalf("Expiration = %v, want 1h", got)
	}
	if got := (JWTConfig{ExpirationMinutes: 15}).Expiration(); got != 15*time.Minute {
		t.Fatalf("Expiration = %v, want 15m", got)
	}
}
