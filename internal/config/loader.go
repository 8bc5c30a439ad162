package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// ConfigPathEnvVar names the environment variable that can point at a config file
const ConfigPathEnvVar = "CONNDIR_CONFIG_PATH"

var defaultConfigFiles = []string{"config.yaml", "config.yml", "config.json5", "config.json"}

// GetConfigPath determines the configuration file path.
// Priority:
// 1. the path passed in (usually the --config flag)
// 2. CONNDIR_CONFIG_PATH environment variable
// 3. config.yaml, config.yml, config.json5, config.json in the working directory
// 4. the same names in the executable's directory
// Candidates that do not exist are skipped. Returns "" when nothing is found.
func GetConfigPath(configFilePathFlag string) string {
	if configFilePathFlag != "" {
		if fileExists(configFilePathFlag) {
			return configFilePathFlag
		}
		return ""
	}

	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" && fileExists(envPath) {
		return envPath
	}

	for _, loc := range searchLocations() {
		for _, file := range defaultConfigFiles {
			path := filepath.Join(loc, file)
			if fileExists(path) {
				return path
			}
		}
	}
	return ""
}

func searchLocations() []string {
	var locations []string

	cwd, errCwd := os.Getwd()
	if errCwd == nil {
		locations = append(locations, cwd)
	}

	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		if exeDir != "" && exeDir != cwd {
			locations = append(locations, exeDir)
		}
	}
	return locations
}

// loadDotEnv reads a .env file from the working directory if present.
// Existing environment variables are never overridden.
func loadDotEnv(logger zerolog.Logger) {
	if !fileExists(".env") {
		return
	}
	if err := godotenv.Load(); err != nil {
		logger.Warn().Err(err).Msg("Failed to load .env file")
	}
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
