package cli

import (
	"path/filepath"

	"github.com/openkraft/dotcheck/internal/adapters/outbound/config"
	"github.com/openkraft/dotcheck/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/dotcheck/internal/adapters/outbound/plugin"
	"github.com/openkraft/dotcheck/internal/adapters/outbound/walker"
	"github.com/openkraft/dotcheck/internal/application"
	"github.com/openkraft/dotcheck/internal/domain"
	"github.com/openkraft/dotcheck/internal/logger"
)

// NewValidateService wires the service against the real file system, git
// and the plugin directory. It is shared with the MCP adapter.
func NewValidateService() *application.ValidateService {
	return application.NewValidateService(walker.NewOS(), gitinfo.New(), config.New(), buildRegistry)
}

// buildRegistry registers the built-in validators, then any executables
// found in the configured plugin directory. A plugin whose name is already
// taken is ignored.
func buildRegistry(root string, cfg domain.ProjectConfig) (*application.Registry, error) {
	reg := application.NewRegistry()
	for _, v := range application.BuiltinValidators(walker.NewOS(cfg.Ignore...), cfg) {
		if err := reg.Register(v); err != nil {
			return nil, err
		}
	}

	dir := cfg.Plugins.Dir
	if dir == "" {
		dir = domain.DefaultPluginDir
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	plugins, err := plugin.Discover(dir)
	if err != nil {
		return nil, err
	}

	log := logger.L.WithField("dir", dir)
	for _, p := range plugins {
		if cfg.IsDisabled(p.Name()) {
			continue
		}
		if err := reg.Register(p); err != nil {
			log.WithField("plugin", p.Path()).WithError(err).Warn("ignoring plugin")
			continue
		}
		log.WithField("plugin", p.Name()).Debug("registered plugin")
	}
	return reg, nil
}
