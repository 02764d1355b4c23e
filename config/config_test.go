package config

import "testing"

func TestNewConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := NewConfig(); err == nil {
		t.Fatal("NewConfig should fail when JWT_SECRET is empty")
	}
}

func TestNewConfigReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Server.Port != "8081" {
		t.Errorf("Server.Port = %q, want 8081", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %q, want db.internal", cfg.Database.Host)
	}
	if cfg.Auth.JWTSecret != "test-secret" {
		t.Errorf("Auth.JWTSecret = %q, want test-secret", cfg.Auth.JWTSecret)
	}
}
