package application

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/openkraft/dotcheck/internal/domain"
	"github.com/openkraft/dotcheck/internal/domain/validation"
)

// Registry holds the validators available to a run, keyed by name.
type Registry struct {
	validators map[string]domain.Validator
}

func NewRegistry() *Registry {
	return &Registry{validators: make(map[string]domain.Validator)}
}

// Register adds v. Names are unique.
func (r *Registry) Register(v domain.Validator) error {
	if _, dup := r.validators[v.Name()]; dup {
		return fmt.Errorf("validator %q already registered", v.Name())
	}
	r.validators[v.Name()] = v
	return nil
}

// Lookup returns the validator registered under name.
func (r *Registry) Lookup(name string) (domain.Validator, bool) {
	v, ok := r.validators[name]
	return v, ok
}

// Names returns registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.validators))
	for n := range r.validators {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All returns the registered validators sorted by name.
func (r *Registry) All() []domain.Validator {
	out := make([]domain.Validator, 0, len(r.validators))
	for _, n := range r.Names() {
		out = append(out, r.validators[n])
	}
	return out
}

// RegistryFactory builds the validator set for a root and its configuration.
type RegistryFactory func(root string, cfg domain.ProjectConfig) (*Registry, error)

// BuiltinValidators returns the in-process validators, minus any disabled
// in cfg.
func BuiltinValidators(fsys domain.FileSystem, cfg domain.ProjectConfig) []domain.Validator {
	agentOpts := validation.AgentOptions{Models: cfg.Agents.Models, MinBody: cfg.AgentMinBody()}
	skillOpts := validation.SkillOptions{MinBody: cfg.SkillMinBody()}
	hookOpts := validation.HookOptions{ExtraEvents: cfg.Hooks.Events}

	exists := func(scope domain.Scope, rel string) bool {
		_, err := fsys.Stat(filepath.Join(scope.Root, filepath.FromSlash(rel)))
		return err == nil
	}

	all := []domain.Validator{
		NewArtifactValidator(fsys, "agents", domain.KindAgent, "agents", markdownDoc,
			func(_ domain.Scope, t domain.Target) []domain.Finding { return validation.CheckAgent(t, agentOpts) }),
		NewArtifactValidator(fsys, "commands", domain.KindCommand, "commands", markdownDoc,
			func(_ domain.Scope, t domain.Target) []domain.Finding { return validation.CheckCommand(t) }),
		NewArtifactValidator(fsys, "hooks", domain.KindHookBundle, "hooks", hasExt(".json"),
			func(_ domain.Scope, t domain.Target) []domain.Finding { return validation.CheckHookBundle(t, hookOpts) }),
		NewArtifactValidator(fsys, "json", domain.KindJSON, ".", configJSON,
			func(_ domain.Scope, t domain.Target) []domain.Finding { return validation.CheckJSON(t) }),
		NewArtifactValidator(fsys, "links", domain.KindMarkdown, ".", hasExt(".md"),
			func(scope domain.Scope, t domain.Target) []domain.Finding {
				return validation.CheckLinks(t, func(rel string) bool { return exists(scope, rel) })
			}),
		NewArtifactValidator(fsys, "rules", domain.KindRule, "rules", markdownDoc,
			func(_ domain.Scope, t domain.Target) []domain.Finding { return validation.CheckRule(t) }),
		NewArtifactValidator(fsys, "skills", domain.KindSkill, "skills", isSkillFile,
			func(_ domain.Scope, t domain.Target) []domain.Finding { return validation.CheckSkill(t, skillOpts) }),
	}

	enabled := all[:0]
	for _, v := range all {
		if !cfg.IsDisabled(v.Name()) {
			enabled = append(enabled, v)
		}
	}
	return enabled
}

func hasExt(ext string) func(string) bool {
	return func(rel string) bool { return strings.EqualFold(path.Ext(rel), ext) }
}

func markdownDoc(rel string) bool {
	return hasExt(".md")(rel) && !validation.IsReadme(rel)
}

func isSkillFile(rel string) bool {
	return path.Base(rel) == "SKILL.md"
}

// configJSON accepts JSON files other than hook bundles, which have their
// own validator.
func configJSON(rel string) bool {
	return hasExt(".json")(rel) && !strings.HasPrefix(rel, "hooks/")
}
