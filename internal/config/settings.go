// Package config loads server settings from defaults, an optional YAML file
// and YTAPI_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/ytget/yt-downloader-api/internal/platform"
)

// Environment
const (
	EnvPrefix     = "YTAPI"
	EnvConfigFile = EnvPrefix + "_CONFIG_FILE"
	EnvFile       = ".env"
)

// Default values
const (
	DefaultAddr            = ":8000"
	DefaultDownloadDir     = "downloads"
	DefaultExtractTimeout  = 60 * time.Second
	DefaultDownloadTimeout = 30 * time.Minute
	DefaultASCIIFilenames  = true
	DefaultDirectFormat    = "best[height<=1080]/best"
)

// Settings is the server configuration.
// No default tags: envconfig would apply them over the YAML layer.
type Settings struct {
	Addr            string        `envconfig:"ADDR"             yaml:"addr"`
	DownloadDir     string        `envconfig:"DOWNLOAD_DIR"     yaml:"downloadDir"`
	YTDLPPath       string        `envconfig:"YTDLP_PATH"       yaml:"ytdlpPath"`
	FFmpegPath      string        `envconfig:"FFMPEG_PATH"      yaml:"ffmpegPath"`
	AutoInstall     bool          `envconfig:"AUTO_INSTALL"     yaml:"autoInstall"`
	ExtractTimeout  time.Duration `envconfig:"EXTRACT_TIMEOUT"  yaml:"extractTimeout"`
	DownloadTimeout time.Duration `envconfig:"DOWNLOAD_TIMEOUT" yaml:"downloadTimeout"`
	ASCIIFilenames  bool          `envconfig:"ASCII_FILENAMES"  yaml:"asciiFilenames"`
	DirectFormat    string        `envconfig:"DIRECT_FORMAT"    yaml:"directFormat"`
	LogFile         string        `envconfig:"LOG_FILE"         yaml:"logFile"`
}

// Defaults returns the built-in settings
func Defaults() *Settings {
	return &Settings{
		Addr:            DefaultAddr,
		DownloadDir:     DefaultDownloadDir,
		ExtractTimeout:  DefaultExtractTimeout,
		DownloadTimeout: DefaultDownloadTimeout,
		ASCIIFilenames:  DefaultASCIIFilenames,
		DirectFormat:    DefaultDirectFormat,
	}
}

// Load builds the settings. configFile overrides YTAPI_CONFIG_FILE; a
// missing file is not an error.
func Load(configFile string) (*Settings, error) {
	s := Defaults()

	if configFile == "" {
		configFile = os.Getenv(EnvConfigFile)
	}
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err == nil {
			if err := yaml.UnmarshalStrict(data, s); err != nil {
				return nil, fmt.Errorf("unmarshaling config file: %w", err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, s); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	s.clamp()
	return s, nil
}

// clamp replaces nonsensical values with defaults
func (s *Settings) clamp() {
	if strings.TrimSpace(s.Addr) == "" {
		s.Addr = DefaultAddr
	}
	if strings.TrimSpace(s.DownloadDir) == "" {
		s.DownloadDir = DefaultDownloadDir
	}
	if s.ExtractTimeout <= 0 {
		s.ExtractTimeout = DefaultExtractTimeout
	}
	if s.DownloadTimeout <= 0 {
		s.DownloadTimeout = DefaultDownloadTimeout
	}
	if strings.TrimSpace(s.DirectFormat) == "" {
		s.DirectFormat = DefaultDirectFormat
	}
}

// EnsureDownloadDir creates the download directory and returns its absolute path
func (s *Settings) EnsureDownloadDir() (string, error) {
	dir, err := filepath.Abs(s.DownloadDir)
	if err != nil {
		return "", fmt.Errorf("resolving download directory: %w", err)
	}
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}
	return dir, nil
}
