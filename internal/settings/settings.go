// Package settings resolves command line defaults from the environment and an
// optional dotenv file.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvConfig   = "LOWCODEGEN_CONFIG"
	EnvOutput   = "LOWCODEGEN_OUTPUT"
	EnvDebug    = "LOWCODEGEN_DEBUG"
	EnvRules    = "LOWCODEGEN_RULES"
	EnvPlatform = "LOWCODEGEN_PLATFORM"
)

// Defaults used when neither a flag nor the environment sets a value.
const (
	DefaultConfigPath = "config/lab-workflow-config.yaml"
	DefaultOutputRoot = "output"
	DefaultEnvFile    = ".env"
)

// Settings holds the command line defaults resolved from the environment.
type Settings struct {
	ConfigPath string
	OutputRoot string
	Debug      bool
	RulesPath  string
	Platform   string
}

// Load reads envFile into the process environment without overriding
// variables that are already set, then resolves Settings. An empty envFile
// means DefaultEnvFile, which may be absent; an explicit file must exist.
func Load(envFile string) (Settings, error) {
	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("settings: load %s: %w", envFile, err)
		}
	}
	return FromEnv(), nil
}

// FromEnv resolves Settings from the current environment only.
func FromEnv() Settings {
	return Settings{
		ConfigPath: getEnv(EnvConfig, DefaultConfigPath),
		OutputRoot: getEnv(EnvOutput, DefaultOutputRoot),
		Debug:      getEnvAsBool(EnvDebug, false),
		RulesPath:  getEnv(EnvRules, ""),
		Platform:   getEnv(EnvPlatform, ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
