package domain

import (
	"fmt"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultParallel  = 4
	DefaultMinBody   = 100
	DefaultPluginDir = ".dotcheck/validators"
)

// DefaultModels is the recognized set of agent model identifiers.
var DefaultModels = []string{"opus", "sonnet", "haiku"}

// ProjectConfig holds project-level configuration loaded from .dotcheck.yaml.
type ProjectConfig struct {
	Timeout  time.Duration `yaml:"timeout"  json:"timeout,omitempty"`
	Parallel int           `yaml:"parallel" json:"parallel,omitempty"`
	Disable  []string      `yaml:"disable"  json:"disable,omitempty"`
	Ignore   []string      `yaml:"ignore"   json:"ignore,omitempty"`
	Agents   AgentConfig   `yaml:"agents"   json:"agents,omitempty"`
	Skills   SkillConfig   `yaml:"skills"   json:"skills,omitempty"`
	Hooks    HookConfig    `yaml:"hooks"    json:"hooks,omitempty"`
	Plugins  PluginConfig  `yaml:"plugins"  json:"plugins,omitempty"`
}

// AgentConfig tunes the agent validator.
// MinBody is a pointer so that an explicit 0 (disable the check) differs from unset.
type AgentConfig struct {
	Models  []string `yaml:"models"   json:"models,omitempty"`
	MinBody *int     `yaml:"min_body" json:"min_body,omitempty"`
}

// SkillConfig tunes the skill validator.
type SkillConfig struct {
	MinBody *int `yaml:"min_body" json:"min_body,omitempty"`
}

// HookConfig extends the recognized hook trigger names.
type HookConfig struct {
	Events []string `yaml:"events" json:"events,omitempty"`
}

// PluginConfig locates external validator executables.
type PluginConfig struct {
	Dir string `yaml:"dir" json:"dir,omitempty"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() ProjectConfig {
	models := make([]string, len(DefaultModels))
	copy(models, DefaultModels)
	return ProjectConfig{
		Timeout:  DefaultTimeout,
		Parallel: DefaultParallel,
		Agents:   AgentConfig{Models: models},
		Plugins:  PluginConfig{Dir: DefaultPluginDir},
	}
}

// AgentMinBody returns the effective minimum agent body length.
func (c ProjectConfig) AgentMinBody() int {
	if c.Agents.MinBody != nil {
		return *c.Agents.MinBody
	}
	return DefaultMinBody
}

// SkillMinBody returns the effective minimum skill body length.
func (c ProjectConfig) SkillMinBody() int {
	if c.Skills.MinBody != nil {
		return *c.Skills.MinBody
	}
	return DefaultMinBody
}

// IsDisabled reports whether the named validator is switched off.
func (c ProjectConfig) IsDisabled(name string) bool {
	for _, d := range c.Disable {
		if d == name {
			return true
		}
	}
	return false
}

// Validate checks the config for invalid values and reports all of them.
func (c ProjectConfig) Validate() error {
	var result *multierror.Error

	if c.Timeout < 0 {
		result = multierror.Append(result, fmt.Errorf("timeout must not be negative (got %s)", c.Timeout))
	}
	if c.Parallel < 0 {
		result = multierror.Append(result, fmt.Errorf("parallel must not be negative (got %d)", c.Parallel))
	}
	for _, g := range c.Ignore {
		if !doublestar.ValidatePattern(g) {
			result = multierror.Append(result, fmt.Errorf("invalid ignore pattern %q", g))
		}
	}
	for _, m := range c.Agents.Models {
		if m == "" {
			result = multierror.Append(result, fmt.Errorf("agents.models contains an empty entry"))
		}
	}
	if c.Agents.MinBody != nil && *c.Agents.MinBody < 0 {
		result = multierror.Append(result, fmt.Errorf("agents.min_body must not be negative"))
	}
	if c.Skills.MinBody != nil && *c.Skills.MinBody < 0 {
		result = multierror.Append(result, fmt.Errorf("skills.min_body must not be negative"))
	}
	for _, e := range c.Hooks.Events {
		if e == "" {
			result = multierror.Append(result, fmt.Errorf("hooks.events contains an empty entry"))
		}
	}

	return result.ErrorOrNil()
}
