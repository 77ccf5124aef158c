package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	content := `
# comment line
TAVILY_API_KEY=tvly-test
EXA_API_KEY = "exa-test"

MALFORMED LINE
`
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Chdir(dir)
	t.Setenv("TAVILY_API_KEY", "")
	t.Setenv("EXA_API_KEY", "")

	loadEnvFile()

	if got := os.Getenv("TAVILY_API_KEY"); got != "tvly-test" {
		t.Errorf("TAVILY_API_KEY = %q", got)
	}
	if got := os.Getenv("EXA_API_KEY"); got != "exa-test" {
		t.Errorf("EXA_API_KEY = %q, want quotes stripped", got)
	}
}

func TestLoadEnvFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	loadEnvFile() // must not panic or error
}

func TestBuildProviderUnknown(t *testing.T) {
	if _, err := buildProvider("googlebot"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestBuildProvidersPropagatesMissingKey(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "")
	if _, err := buildProviders([]string{"tavily"}); err == nil {
		t.Fatal("expected error when API key is unset")
	}
}
