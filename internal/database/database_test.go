package database

import (
	"testing"

	appconfig "github.com/umuhuza/umuhuza_api/internal/config"
)

func TestDSNEscapesCredentials(t *testing.T) {
	cfg := &appconfig.DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "market user",
		Password: "p@ss/word",
		Name:     "umuhuza",
		SSLMode:  "disable",
	}

	got := DSN(cfg)
	want := "postgres://market+user:p%40ss%2Fword@db:5432/umuhuza?sslmode=disable"
	if got != want {
		t.Fatalf("DSN() = %q, want %q", got, want)
	}
}

func TestConnectNilConfig(t *testing.T) {
	if _, err := Connect(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}
