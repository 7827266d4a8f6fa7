package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidatesCleanly(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default() should already satisfy Validate: %v", err)
	}
}

func TestValidateFillsZeroValues(t *testing.T) {
	var c Config
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate() on zero Config: %v", err)
	}
	if c.Indexer.MaxHashDensity != Default().Indexer.MaxHashDensity {
		t.Errorf("expected zero MaxHashDensity to be filled with the default")
	}
	if c.Gatherer.MaxRetries != Default().Gatherer.MaxRetries {
		t.Errorf("expected zero MaxRetries to be filled with the default")
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	c := Default()
	c.Gatherer.MaxRetries = 7
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	first := c
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c != first {
		t.Errorf("second Validate() call changed an already-valid Config")
	}
}

func TestValidateRejectsQuotaInversion(t *testing.T) {
	c := Default()
	c.Gatherer.SoftQuota = 100
	c.Gatherer.HardQuota = 10
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error when hard_quota < soft_quota")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load on a missing file should not error: %v", err)
	}
	if c.Storage.RedisAddr != Default().Storage.RedisAddr {
		t.Errorf("expected defaults when config file is absent")
	}
}

func TestLoadDecodesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holmes.toml")
	body := `
[gatherer]
max_retries = 9

[storage]
redis_addr = "redis.internal:6380"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Gatherer.MaxRetries != 9 {
		t.Errorf("got max_retries=%d, want 9", c.Gatherer.MaxRetries)
	}
	if c.Storage.RedisAddr != "redis.internal:6380" {
		t.Errorf("got redis_addr=%q, want override", c.Storage.RedisAddr)
	}
	if c.Storage.MongoURI != Default().Storage.MongoURI {
		t.Errorf("unset fields should keep their default")
	}
}
