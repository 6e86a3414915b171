package config

import (
	"context"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWT.Issuer != "stock-manager" || cfg.JWT.TTL != time.Hour {
		t.Fatalf("unexpected jwt defaults: %+v", cfg.JWT)
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" || cfg.Mongo.Database != "stock_manager" {
		t.Fatalf("unexpected mongo defaults: %+v", cfg.Mongo)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 0 {
		t.Fatalf("unexpected redis defaults: %+v", cfg.Redis)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("MONGO_DB", "inventory")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "9090" {
		t.Fatalf("expected port override, got %q", cfg.Port)
	}
	if cfg.JWT.TTL != 15*time.Minute {
		t.Fatalf("expected ttl override, got %v", cfg.JWT.TTL)
	}
	if cfg.Mongo.Database != "inventory" || cfg.Redis.DB != 2 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	if _, err := Load(context.Background()); err == nil {
		t.Fatalf("expected error when JWT_SECRET is unset")
	}
}
