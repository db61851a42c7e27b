package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/evankellogg/informed/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("INFORMED_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Output.Format != "text" {
		t.Fatalf("unexpected format default: %q", cfg.Output.Format)
	}
	if cfg.Prompt.MaxAttempts != 3 {
		t.Fatalf("unexpected attempts default: %d", cfg.Prompt.MaxAttempts)
	}
	if cfg.Schema.Dir != "." {
		t.Fatalf("unexpected schema dir default: %q", cfg.Schema.Dir)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfgPath := filepath.Join(home, "config.yaml")
	raw := "output:\n  format: json\nprompt:\n  max_attempts: 5\n"
	if err := os.WriteFile(cfgPath, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("INFORMED_CONFIG", cfgPath)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Output.Format != "json" {
		t.Fatalf("expected file format, got %q", cfg.Output.Format)
	}
	if cfg.Prompt.MaxAttempts != 5 {
		t.Fatalf("expected file attempts, got %d", cfg.Prompt.MaxAttempts)
	}
	if cfg.Schema.Dir != "." {
		t.Fatalf("expected untouched default, got %q", cfg.Schema.Dir)
	}

	t.Setenv("INFORMED_OUTPUT_FORMAT", "text")
	cfg, err = config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Output.Format != "text" {
		t.Fatalf("expected env to beat file, got %q", cfg.Output.Format)
	}
}

func TestLoad_DiscoversHomeConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("INFORMED_CONFIG", "")

	dir := filepath.Join(home, ".config", "informed")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	raw := "schema:\n  dir: /srv/forms\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Schema.Dir != "/srv/forms" {
		t.Fatalf("expected discovered config, got %q", cfg.Schema.Dir)
	}
}

func TestResolveSchemaPath(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "forms")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	target := filepath.Join(nested, "signup.yaml")
	if err := os.WriteFile(target, []byte("name: signup\nfields:\n  - path: name\n"), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	cfg := config.Config{Schema: config.SchemaConfig{Dir: nested}}

	if got := cfg.ResolveSchemaPath("signup.yaml"); got != target {
		t.Fatalf("expected schema dir lookup, got %q", got)
	}
	if got := cfg.ResolveSchemaPath(target); got != target {
		t.Fatalf("expected absolute path to pass through, got %q", got)
	}
	if got := cfg.ResolveSchemaPath("nope.yaml"); got != "nope.yaml" {
		t.Fatalf("expected unresolved path to pass through, got %q", got)
	}
}
