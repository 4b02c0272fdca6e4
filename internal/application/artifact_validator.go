package application

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"runtime/debug"

	"github.com/openkraft/dotcheck/internal/domain"
	"github.com/openkraft/dotcheck/internal/domain/validation"
	"github.com/openkraft/dotcheck/internal/logger"
)

// CheckFunc inspects one artifact. It must not retain t.Content.
type CheckFunc func(scope domain.Scope, t domain.Target) []domain.Finding

// ArtifactValidator walks the files of one artifact kind below its
// directory, reads each and hands it to a CheckFunc. It is the shared
// pipeline behind every built-in validator.
type ArtifactValidator struct {
	name  string
	kind  domain.ArtifactKind
	dir   string
	match func(rel string) bool
	check CheckFunc
	fs    domain.FileSystem
}

// NewArtifactValidator creates a validator named name that owns dir and
// checks every file accepted by match.
func NewArtifactValidator(fsys domain.FileSystem, name string, kind domain.ArtifactKind, dir string, match func(rel string) bool, check CheckFunc) *ArtifactValidator {
	return &ArtifactValidator{name: name, kind: kind, dir: dir, match: match, check: check, fs: fsys}
}

func (v *ArtifactValidator) Name() string              { return v.name }
func (v *ArtifactValidator) Kind() domain.ArtifactKind { return v.kind }
func (v *ArtifactValidator) Dir() string               { return v.dir }

// Run validates every matching file in scope. A missing directory yields a
// single skip warning. Cancellation is honored between files.
func (v *ArtifactValidator) Run(ctx context.Context, scope domain.Scope) (*domain.Report, error) {
	report := &domain.Report{Validator: v.name, Kind: v.kind}
	log := logger.G(ctx).WithField("validator", v.name)

	dirPath := filepath.Join(scope.Root, filepath.FromSlash(v.dir))
	if info, err := v.fs.Stat(dirPath); err != nil || !info.IsDir() {
		log.WithField("dir", dirPath).Debug("directory not found")
		report.Findings = append(report.Findings,
			domain.Warnf(v.dir, validation.RuleSkippedDirectory, "directory %s not found, skipped", v.dir))
		return report, nil
	}

	for _, start := range scope.Starts(v.dir) {
		for rel := range v.fs.Files(ctx, scope.Root, start, v.match) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			report.Files = append(report.Files, rel)
			report.Scanned++
			report.Findings = append(report.Findings, v.checkFile(ctx, scope, rel)...)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.WithField("scanned", report.Scanned).WithField("findings", len(report.Findings)).Debug("validator finished")
	return report, nil
}

// checkFile turns read failures and panics into findings on rel.
func (v *ArtifactValidator) checkFile(ctx context.Context, scope domain.Scope, rel string) (findings []domain.Finding) {
	defer func() {
		if r := recover(); r != nil {
			logger.G(ctx).WithField("validator", v.name).WithField("path", rel).
				Errorf("check panicked: %v\n%s", r, debug.Stack())
			findings = []domain.Finding{domain.Errorf(rel, validation.RuleInternalError, "internal error while checking file: %v", r)}
		}
	}()

	abs := filepath.Join(scope.Root, filepath.FromSlash(rel))
	content, err := v.fs.ReadFile(abs)
	if err != nil {
		return []domain.Finding{domain.Errorf(rel, validation.RuleReadError, "cannot read file: %v", unwrapPath(err))}
	}
	return v.check(scope, domain.Target{Path: rel, AbsPath: abs, Kind: v.kind, Content: content})
}

// unwrapPath drops the absolute path from fs errors so messages only name
// the root-relative path.
func unwrapPath(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
