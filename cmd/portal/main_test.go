package main

import (
	"testing"

	"github.com/oasis-hotel/portal/internal/config"
)

func TestFlagsOverrideConfig(t *testing.T) {
	f, err := parseFlags([]string{"--addr", "0.0.0.0:8080", "--storage", "memory", "--env-file", "a.env,b.env"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(f.envFiles) != 2 {
		t.Fatalf("unexpected env files %v", f.envFiles)
	}

	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageFile, Origin: "http://localhost:3000"}}
	if err := applyFlags(cfg, f); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.App.Addr() != "0.0.0.0:8080" || cfg.Storage.Driver != config.StorageMemory {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestApplyFlagsRejectsBadValues(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageFile, Origin: "x"}}
	if err := applyFlags(cfg, flags{addr: "no-port"}); err == nil {
		t.Fatal("expected bad addr error")
	}
	if err := applyFlags(cfg, flags{storage: "floppy"}); err == nil {
		t.Fatal("expected unknown driver error")
	}
}
