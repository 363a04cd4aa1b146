package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSecretFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing secret file: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeSecretFile(t, "  file-secret\n")

	got, err := Load(Source{Name: "api key", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "file-secret" {
		t.Fatalf("expected trimmed secret, got %q", got)
	}
}

func TestLoadFileBeatsEnvAndValue(t *testing.T) {
	path := writeSecretFile(t, "from-file")
	t.Setenv("TEST_SECRET_ENV", "from-env")

	got, err := Load(Source{
		Name:  "api key",
		Value: "from-value",
		Env:   "TEST_SECRET_ENV",
		File:  path,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("file must win, got %q", got)
	}
}

func TestLoadEnvBeatsValue(t *testing.T) {
	t.Setenv("TEST_SECRET_ENV", "from-env")

	got, err := Load(Source{Name: "api key", Value: "from-value", Env: "TEST_SECRET_ENV"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-env" {
		t.Fatalf("env must win over inline value, got %q", got)
	}
}

func TestLoadFallsBackToValue(t *testing.T) {
	t.Setenv("TEST_SECRET_ENV", "")

	got, err := Load(Source{Name: "api key", Value: " inline ", Env: "TEST_SECRET_ENV"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "inline" {
		t.Fatalf("expected trimmed inline value, got %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(Source{Name: "api key", File: filepath.Join(t.TempDir(), "nope")})
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
	if !strings.Contains(err.Error(), "api key") {
		t.Fatalf("error should name the secret: %v", err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeSecretFile(t, "   \n")

	if _, err := Load(Source{Name: "api key", File: path}); err == nil {
		t.Fatalf("expected an error for an empty file")
	}
}

func TestLoadNothingConfigured(t *testing.T) {
	_, err := Load(Source{Name: "api key"})
	if err == nil {
		t.Fatalf("expected an error when no source is set")
	}
	if !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("unexpected error: %v", err)
	}
}
