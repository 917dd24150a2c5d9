package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/sentinelmcp"
	projectConfigDir = ".sentinelmcp"
	configFileName   = "config.yaml"
)

// LoadConfig loads the configuration by layering default, user, and project
// settings, then applying AZURE_* environment variable overrides.
func LoadConfig() (Config, error) {
	// 1. Start with the default configuration
	config := GetDefaultConfig()

	// 2. Determine user-specific configuration path
	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// Log this error but don't fail; user config is optional
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else {
		if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
			userConfig, err := loadConfigFromFile(userConfigPath)
			if err != nil {
				return Config{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
			}
			config = mergeConfigs(config, userConfig)
		}
	}

	// 3. Determine project-specific configuration path
	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else {
		if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
			projectConfig, err := loadConfigFromFile(projectConfigPath)
			if err != nil {
				return Config{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
			}
			config = mergeConfigs(config, projectConfig)
		}
	}

	// 4. Environment variables win over any file value
	applyEnvOverrides(&config)

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads a Config from a YAML file.
func loadConfigFromFile(filePath string) (Config, error) {
	var config Config
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config.
// Only fields explicitly set in the overlay replace base values.
func mergeConfigs(base, overlay Config) Config {
	merged := base

	if overlay.Azure.TenantID != "" {
		merged.Azure.TenantID = overlay.Azure.TenantID
	}
	if overlay.Azure.SubscriptionID != "" {
		merged.Azure.SubscriptionID = overlay.Azure.SubscriptionID
	}
	if overlay.Azure.ResourceGroup != "" {
		merged.Azure.ResourceGroup = overlay.Azure.ResourceGroup
	}
	if overlay.Azure.WorkspaceName != "" {
		merged.Azure.WorkspaceName = overlay.Azure.WorkspaceName
	}
	if overlay.Azure.WorkspaceID != "" {
		merged.Azure.WorkspaceID = overlay.Azure.WorkspaceID
	}

	if overlay.Server.Transport != "" {
		merged.Server.Transport = overlay.Server.Transport
	}
	if overlay.Server.Host != "" {
		merged.Server.Host = overlay.Server.Host
	}
	if overlay.Server.Port != 0 {
		merged.Server.Port = overlay.Server.Port
	}

	if overlay.Query.TimeoutSeconds != 0 {
		merged.Query.TimeoutSeconds = overlay.Query.TimeoutSeconds
	}
	if overlay.Query.WorkerPoolSize != 0 {
		merged.Query.WorkerPoolSize = overlay.Query.WorkerPoolSize
	}
	if overlay.Query.DefaultTimespanDays != 0 {
		merged.Query.DefaultTimespanDays = overlay.Query.DefaultTimespanDays
	}
	if overlay.Query.MaxTimespanDays != 0 {
		merged.Query.MaxTimespanDays = overlay.Query.MaxTimespanDays
	}
	if overlay.Query.BufferPercent != 0 {
		merged.Query.BufferPercent = overlay.Query.BufferPercent
	}
	if overlay.Query.MinBufferDays != 0 {
		merged.Query.MinBufferDays = overlay.Query.MinBufferDays
	}
	if overlay.Query.LargeResultThreshold != 0 {
		merged.Query.LargeResultThreshold = overlay.Query.LargeResultThreshold
	}

	if overlay.Logging.Level != "" {
		merged.Logging.Level = overlay.Logging.Level
	}
	if overlay.Logging.Format != "" {
		merged.Logging.Format = overlay.Logging.Format
	}

	return merged
}

// applyEnvOverrides applies the standard AZURE_* environment variables on top
// of whatever the config files provided.
func applyEnvOverrides(config *Config) {
	envOverrides := []struct {
		env    string
		target *string
	}{
		{"AZURE_TENANT_ID", &config.Azure.TenantID},
		{"AZURE_SUBSCRIPTION_ID", &config.Azure.SubscriptionID},
		{"AZURE_RESOURCE_GROUP", &config.Azure.ResourceGroup},
		{"AZURE_WORKSPACE_NAME", &config.Azure.WorkspaceName},
		{"AZURE_WORKSPACE_ID", &config.Azure.WorkspaceID},
	}

	for _, o := range envOverrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

// GetUserConfigDir returns the user configuration directory path.
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
