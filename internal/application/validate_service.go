package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/openkraft/dotcheck/internal/domain"
	"github.com/openkraft/dotcheck/internal/domain/validation"
	"github.com/openkraft/dotcheck/internal/logger"
	"golang.org/x/sync/errgroup"
)

// ErrRootMissing is returned by ResolveScope when the path does not exist.
var ErrRootMissing = errors.New("path does not exist")

// RunOptions override configuration for a single run. Zero values keep the
// configured setting.
type RunOptions struct {
	Only     []string
	Timeout  time.Duration
	Parallel int
}

// ValidateService runs validators against a tree and aggregates the outcome:
// resolve scope → load config → build registry → run each validator in
// isolation → merge.
type ValidateService struct {
	fs           domain.FileSystem
	repo         domain.RepoLocator
	configLoader domain.ConfigLoader
	registry     RegistryFactory
}

// NewValidateService creates a ValidateService. repo may be nil, in which
// case scopes are never widened to a repository root.
func NewValidateService(
	fs domain.FileSystem,
	repo domain.RepoLocator,
	configLoader domain.ConfigLoader,
	registry RegistryFactory,
) *ValidateService {
	return &ValidateService{fs: fs, repo: repo, configLoader: configLoader, registry: registry}
}

// ResolveScope maps a user-supplied path to a scan root and the part of it
// to validate. A path inside a git repository is scoped within the
// repository root. A file outside one is scoped within the nearest ancestor
// holding a README.md, else its directory. A directory outside one is its
// own root.
func (s *ValidateService) ResolveScope(p string) (domain.Scope, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return domain.Scope{}, fmt.Errorf("resolving %s: %w", p, err)
	}
	info, err := s.fs.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Scope{Root: abs}, ErrRootMissing
		}
		return domain.Scope{}, fmt.Errorf("reading %s: %w", p, err)
	}
	if abs, err = s.fs.RealPath(abs); err != nil {
		return domain.Scope{}, fmt.Errorf("resolving %s: %w", p, err)
	}

	base := abs
	if !info.IsDir() {
		base = filepath.Dir(abs)
	}

	root := ""
	if s.repo != nil {
		if r, err := s.repo.RepoRoot(abs); err == nil {
			root = r
		}
	}
	if root == "" && !info.IsDir() {
		root = s.readmeAncestor(base)
	}
	if root == "" {
		root = base
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return domain.Scope{Root: root}, nil
	}
	return domain.Scope{Root: root, Paths: []string{filepath.ToSlash(rel)}}, nil
}

func (s *ValidateService) readmeAncestor(dir string) string {
	for {
		if _, err := s.fs.Stat(filepath.Join(dir, "README.md")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ValidateAll runs every applicable validator for path. A missing path is
// not an error: the run contains no validators and one skip notice.
func (s *ValidateService) ValidateAll(ctx context.Context, path string, opts RunOptions) (*domain.AggregateResult, error) {
	scope, err := s.ResolveScope(path)
	if errors.Is(err, ErrRootMissing) {
		logger.G(ctx).WithField("root", scope.Root).Warn("root directory does not exist")
		return domain.Aggregate(scope.Root, nil, []domain.Finding{missingRoot(scope.Root)}), nil
	}
	if err != nil {
		return nil, err
	}

	cfg, reg, err := s.prepare(scope.Root, opts)
	if err != nil {
		return nil, err
	}

	selected, err := selectValidators(reg, opts.Only)
	if err != nil {
		return nil, err
	}
	var applicable []domain.Validator
	for _, v := range selected {
		if len(scope.Starts(v.Dir())) > 0 {
			applicable = append(applicable, v)
		}
	}

	results := s.runAll(ctx, applicable, scope, cfg.Timeout, cfg.Parallel)
	agg := domain.Aggregate(scope.Root, results, nil)
	if s.repo != nil {
		if hash, err := s.repo.CommitHash(scope.Root); err == nil {
			agg.Commit = hash
		}
	}
	return agg, nil
}

// RunOne runs the named validator for path under the same isolation as
// ValidateAll.
func (s *ValidateService) RunOne(ctx context.Context, name, path string, opts RunOptions) (domain.ValidatorResult, error) {
	scope, scopeErr := s.ResolveScope(path)
	if scopeErr != nil && !errors.Is(scopeErr, ErrRootMissing) {
		return domain.ValidatorResult{}, scopeErr
	}

	cfg, reg, err := s.prepare(scope.Root, opts)
	if err != nil {
		return domain.ValidatorResult{}, err
	}
	v, ok := reg.Lookup(name)
	if !ok {
		return domain.ValidatorResult{}, unknownValidator(name, reg)
	}

	if scopeErr != nil {
		report := &domain.Report{Validator: name, Kind: v.Kind(), Findings: []domain.Finding{missingRoot(scope.Root)}}
		return domain.NewValidatorResult(name, report), nil
	}
	if len(scope.Starts(v.Dir())) == 0 {
		return domain.NewValidatorResult(name, &domain.Report{Validator: name, Kind: v.Kind()}), nil
	}
	return s.runIsolated(ctx, v, scope, cfg.Timeout), nil
}

// Validators lists the validators that would run for path.
func (s *ValidateService) Validators(path string) ([]domain.Validator, error) {
	scope, err := s.ResolveScope(path)
	if err != nil && !errors.Is(err, ErrRootMissing) {
		return nil, err
	}
	_, reg, err := s.prepare(scope.Root, RunOptions{})
	if err != nil {
		return nil, err
	}
	return reg.All(), nil
}

func (s *ValidateService) prepare(root string, opts RunOptions) (domain.ProjectConfig, *Registry, error) {
	cfg, err := s.configLoader.Load(root)
	if err != nil {
		return cfg, nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.Timeout > 0 {
		cfg.Timeout = opts.Timeout
	}
	if opts.Parallel > 0 {
		cfg.Parallel = opts.Parallel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultTimeout
	}
	if cfg.Parallel <= 0 {
		cfg.Parallel = domain.DefaultParallel
	}

	reg, err := s.registry(root, cfg)
	if err != nil {
		return cfg, nil, fmt.Errorf("building validators: %w", err)
	}
	return cfg, reg, nil
}

// runAll never aborts early: every validator produces a result, in the
// order given.
func (s *ValidateService) runAll(ctx context.Context, validators []domain.Validator, scope domain.Scope, timeout time.Duration, parallel int) []domain.ValidatorResult {
	results := make([]domain.ValidatorResult, len(validators))

	var g errgroup.Group
	g.SetLimit(parallel)
	for i, v := range validators {
		g.Go(func() error {
			results[i] = s.runIsolated(ctx, v, scope, timeout)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

type outcome struct {
	report *domain.Report
	err    error
}

// runIsolated runs v in its own goroutine under a deadline. A panic, an
// error or an expired deadline becomes a script error for v. A validator
// that ignores cancellation is abandoned once the deadline passes.
func (s *ValidateService) runIsolated(ctx context.Context, v domain.Validator, scope domain.Scope, timeout time.Duration) domain.ValidatorResult {
	log := logger.G(ctx).WithField("validator", v.Name())
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		report, err := v.Run(ctx, scope)
		done <- outcome{report: report, err: err}
	}()

	var res outcome
	select {
	case res = <-done:
	case <-ctx.Done():
		res = outcome{err: ctx.Err()}
	}

	switch {
	case errors.Is(res.err, context.DeadlineExceeded):
		res.err = fmt.Errorf("timed out after %s", timeout)
	case res.err == nil && res.report == nil:
		res.err = errors.New("validator returned no report")
	}
	if res.err != nil {
		log.WithError(res.err).Warn("validator failed to complete")
		return domain.NewScriptErrorResult(v.Name(), res.err)
	}

	if res.report.Validator == "" {
		res.report.Validator = v.Name()
	}
	log.WithField("errors", res.report.Errors()).WithField("warnings", res.report.Warnings()).Info("validator finished")
	return domain.NewValidatorResult(v.Name(), res.report)
}

func selectValidators(reg *Registry, only []string) ([]domain.Validator, error) {
	if len(only) == 0 {
		return reg.All(), nil
	}
	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		if _, ok := reg.Lookup(name); !ok {
			return nil, unknownValidator(name, reg)
		}
		wanted[name] = true
	}
	var out []domain.Validator
	for _, v := range reg.All() {
		if wanted[v.Name()] {
			out = append(out, v)
		}
	}
	return out, nil
}

func unknownValidator(name string, reg *Registry) error {
	return fmt.Errorf("unknown validator %q (available: %s)", name, strings.Join(reg.Names(), ", "))
}

func missingRoot(root string) domain.Finding {
	return domain.Warnf(root, validation.RuleSkippedDirectory, "directory does not exist, skipped")
}
