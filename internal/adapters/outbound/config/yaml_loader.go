package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openkraft/dotcheck/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up in the scan root.
const FileName = ".dotcheck.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .dotcheck.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .dotcheck.yaml from root.
// Returns DefaultConfig if the file does not exist.
func (l *YAMLLoader) Load(root string) (domain.ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(root, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.ProjectConfig{}, err
	}

	var cfg domain.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	// Validate before merging so typos in the raw input are reported.
	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}

	return mergeConfig(domain.DefaultConfig(), cfg), nil
}

// mergeConfig overlays explicit values on the defaults. Agent models replace
// the default set; hook events extend the built-in set later, so they are
// taken as written.
func mergeConfig(base, override domain.ProjectConfig) domain.ProjectConfig {
	result := base

	if override.Timeout > 0 {
		result.Timeout = override.Timeout
	}
	if override.Parallel > 0 {
		result.Parallel = override.Parallel
	}
	if len(override.Agents.Models) > 0 {
		result.Agents.Models = override.Agents.Models
	}
	if override.Plugins.Dir != "" {
		result.Plugins.Dir = override.Plugins.Dir
	}

	result.Disable = override.Disable
	result.Ignore = override.Ignore
	result.Agents.MinBody = override.Agents.MinBody
	result.Skills.MinBody = override.Skills.MinBody
	result.Hooks.Events = override.Hooks.Events

	return result
}
