package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TODO_AUTH_JWTSECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != "0.0.0.0:5001" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.Server.BasePath != "/api" {
		t.Fatalf("unexpected base path: %s", cfg.Server.BasePath)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected token ttl: %s", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Fatalf("unexpected bcrypt cost: %d", cfg.Auth.BcryptCost)
	}
	if cfg.Auth.JWTSecret != "s3cret" {
		t.Fatalf("secret not read from env")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TODO_AUTH_JWTSECRET", "s3cret")
	t.Setenv("TODO_AUTH_TOKENTTL", "2h")
	t.Setenv("TODO_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("TODO_STORAGE_BUCKET", "exports")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Fatalf("unexpected token ttl: %s", cfg.Auth.TokenTTL)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.Storage.Bucket != "exports" {
		t.Fatalf("unexpected bucket: %s", cfg.Storage.Bucket)
	}
}

func TestValidateRequiresSecret(t *testing.T) {
	var cfg Config
	cfg.Database.Path = "data/todo.db"
	cfg.Auth.TokenTTL = time.Hour
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing secret")
	}

	cfg.Auth.JWTSecret = "x"
	cfg.Server.BasePath = "api"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for relative base path")
	}
}

func TestLoadDotEnvKeepsExistingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nTODO_TEST_FROM_FILE=\"file\"\nTODO_TEST_EXISTING=file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("TODO_TEST_FROM_FILE", "")
	os.Unsetenv("TODO_TEST_FROM_FILE")
	t.Setenv("TODO_TEST_EXISTING", "env")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("load env file: %v", err)
	}

	if got := os.Getenv("TODO_TEST_FROM_FILE"); got != "file" {
		t.Fatalf("expected value from file, got %q", got)
	}
	if got := os.Getenv("TODO_TEST_EXISTING"); got != "env" {
		t.Fatalf("expected existing env to win, got %q", got)
	}
}

func TestLoadDotEnvMissingAndMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := loadDotEnv(filepath.Join(dir, "absent.env")); err != nil {
		t.Fatalf("missing file should be ignored, got %v", err)
	}

	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("not a variable\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	if err := loadDotEnv(path); err == nil {
		t.Fatal("expected error for malformed env file")
	}
}
