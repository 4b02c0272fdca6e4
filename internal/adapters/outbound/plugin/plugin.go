// Package plugin runs executables named validate-<name> as validators. They
// receive the scan root as their only argument and report through ERROR and
// WARNING marker lines on stdout or stderr.
package plugin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/openkraft/dotcheck/internal/domain"
	"github.com/openkraft/dotcheck/internal/logger"
)

// Prefix marks an executable as a validator.
const Prefix = "validate-"

// WaitDelay bounds how long output pipes are drained after a plugin is killed.
var WaitDelay = 2 * time.Second

// Validator is an external executable adapted to domain.Validator.
type Validator struct {
	name string
	path string
}

// NewValidator wraps the executable at path.
func NewValidator(name, path string) *Validator {
	return &Validator{name: name, path: path}
}

func (v *Validator) Name() string              { return v.name }
func (v *Validator) Kind() domain.ArtifactKind { return domain.KindExternal }
func (v *Validator) Dir() string               { return "." }
func (v *Validator) Path() string              { return v.path }

// Run executes the plugin in root. A non-zero exit that reported at least
// one ERROR line is an ordinary failing report; any other non-zero exit is
// an error of the plugin itself.
func (v *Validator) Run(ctx context.Context, scope domain.Scope) (*domain.Report, error) {
	cmd := exec.CommandContext(ctx, v.path, scope.Root)
	cmd.Dir = scope.Root
	cmd.Env = append(os.Environ(),
		"DOTCHECK_ROOT="+scope.Root,
		"DOTCHECK_PATHS="+strings.Join(scope.Paths, "\n"),
	)
	cmd.WaitDelay = WaitDelay

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	runErr := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	text := out.String()
	report := &domain.Report{
		Validator: v.name,
		Kind:      domain.KindExternal,
		Output:    text,
		Findings:  domain.ParseMarkers(v.name, text),
	}
	logger.G(ctx).WithField("validator", v.name).WithField("exit", cmd.ProcessState.ExitCode()).Debug("plugin finished")

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, fmt.Errorf("running %s: %w", v.path, runErr)
		}
		if !report.HasErrors() {
			return nil, fmt.Errorf("%s exited with status %d without reporting an error", filepath.Base(v.path), exitErr.ExitCode())
		}
	}
	return report, nil
}

// Discover returns a validator for every executable validate-* file in dir,
// ordered by name. A missing dir yields no validators.
func Discover(dir string) ([]*Validator, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading plugin dir: %w", err)
	}

	var found []*Validator
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), Prefix) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
			continue
		}
		name := strings.TrimPrefix(e.Name(), Prefix)
		name = strings.TrimSuffix(name, filepath.Ext(name))
		if name == "" {
			continue
		}
		found = append(found, NewValidator(name, filepath.Join(dir, e.Name())))
	}
	return found, nil
}
