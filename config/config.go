package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Strategy names accepted for the archive retrieval engine.
const (
	StrategyDirect = "direct"
	StrategyAPI    = "api"
)

// Config is the top-level configuration for repozip.
type Config struct {
	Token     string `yaml:"token"`      // Inline, ${ENV_VAR}, or file path
	Strategy  string `yaml:"strategy"`   // "direct" (public archive URL) or "api" (authenticated redirect)
	OutputDir string `yaml:"output_dir"` // Where archives are saved
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Strategy:  StrategyDirect,
		OutputDir: ".",
	}
}

// Load reads and parses a configuration file, expanding environment variables
// and resolving token file paths.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg := Default()
	if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	cfg.Token = ResolveToken(cfg.Token)
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyDirect
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	if validateErr := Validate(cfg); validateErr != nil {
		return nil, validateErr
	}

	return cfg, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".repozip.yaml",
		".repozip.yml",
		"repozip.yaml",
		"repozip.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ResolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the
// file. The token value itself is never logged.
func ResolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	// Expand ${ENV_VAR} references
	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	// If the resolved value is a path to an existing file, read the token from it
	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// Validate checks the configuration values.
func Validate(cfg *Config) error {
	switch cfg.Strategy {
	case "", StrategyDirect, StrategyAPI:
		return nil
	default:
		return fmt.Errorf(
			"strategy must be %q or %q, got %q",
			StrategyDirect, StrategyAPI, cfg.Strategy,
		)
	}
}
