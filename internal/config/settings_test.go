package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvConfigFile, "")
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if s.Addr != DefaultAddr || s.DownloadDir != DefaultDownloadDir {
		t.Errorf("Unexpected defaults: %+v", s)
	}
	if s.ExtractTimeout != DefaultExtractTimeout || s.DownloadTimeout != DefaultDownloadTimeout {
		t.Errorf("Unexpected timeouts: %+v", s)
	}
	if !s.ASCIIFilenames || s.AutoInstall {
		t.Errorf("Unexpected flags: %+v", s)
	}
	if s.DirectFormat != DefaultDirectFormat {
		t.Errorf("Unexpected direct format: %s", s.DirectFormat)
	}
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"addr: 127.0.0.1:9000",
		"downloadDir: /srv/media",
		"extractTimeout: 2m",
		"asciiFilenames: false",
	}, "\n"))
	t.Setenv("YTAPI_ADDR", ":7000")
	t.Setenv("YTAPI_AUTO_INSTALL", "true")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if s.Addr != ":7000" {
		t.Errorf("Env should override YAML, got addr %s", s.Addr)
	}
	if s.DownloadDir != "/srv/media" || s.ExtractTimeout != 2*time.Minute || s.ASCIIFilenames {
		t.Errorf("YAML values not applied: %+v", s)
	}
	if !s.AutoInstall {
		t.Error("Expected AUTO_INSTALL from env")
	}
	if s.DownloadTimeout != DefaultDownloadTimeout {
		t.Errorf("Unset values should keep defaults, got %s", s.DownloadTimeout)
	}
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	path := writeConfig(t, "directFormat: worst\n")
	t.Setenv(EnvConfigFile, path)

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.DirectFormat != "worst" {
		t.Errorf("Expected directFormat from %s, got %s", EnvConfigFile, s.DirectFormat)
	}
}

func TestLoad_Clamps(t *testing.T) {
	t.Setenv("YTAPI_EXTRACT_TIMEOUT", "-5s")
	t.Setenv("YTAPI_DOWNLOAD_TIMEOUT", "0s")
	t.Setenv("YTAPI_DOWNLOAD_DIR", "  ")

	s, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.ExtractTimeout != DefaultExtractTimeout || s.DownloadTimeout != DefaultDownloadTimeout {
		t.Errorf("Timeouts not clamped: %+v", s)
	}
	if s.DownloadDir != DefaultDownloadDir {
		t.Errorf("Download dir not clamped: %q", s.DownloadDir)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("unknown yaml key", func(t *testing.T) {
		if _, err := Load(writeConfig(t, "nope: 1\n")); err == nil {
			t.Error("Expected strict YAML error")
		}
	})
	t.Run("bad env duration", func(t *testing.T) {
		t.Setenv("YTAPI_EXTRACT_TIMEOUT", "soon")
		if _, err := Load(""); err == nil {
			t.Error("Expected env parse error")
		}
	})
}

func TestEnsureDownloadDir(t *testing.T) {
	s := Defaults()
	s.DownloadDir = filepath.Join(t.TempDir(), "a", "b")

	dir, err := s.EnsureDownloadDir()
	if err != nil {
		t.Fatalf("EnsureDownloadDir() error: %v", err)
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("Expected absolute path, got %s", dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("Directory not created: %v", err)
	}
}

func TestSetupLogging_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.log")
	var console bytes.Buffer
	closer := SetupLogging(&console, path)
	t.Cleanup(func() {
		closer.Close()
		SetupLogging(os.Stderr, "")
	})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Log file not created: %v", err)
	}
	if !strings.Contains(string(data), "[init] logging configured") {
		t.Errorf("Unexpected log contents: %q", data)
	}
	if !strings.Contains(console.String(), "[init] logging configured") {
		t.Errorf("Expected console output, got %q", console.String())
	}
}
