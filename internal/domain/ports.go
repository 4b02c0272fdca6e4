package domain

import (
	"context"
	"io/fs"
	"iter"
	"path"
	"strings"
)

// Validator inspects every artifact of one kind under a scope and returns a
// fresh Report. A non-nil error means the validator itself could not run;
// problems in artifacts are reported as findings.
type Validator interface {
	Name() string
	Kind() ArtifactKind
	// Dir is the root-relative directory the validator owns ("." for the whole tree).
	Dir() string
	Run(ctx context.Context, scope Scope) (*Report, error)
}

// Scope selects what to validate. Paths are root-relative and slash-separated;
// an empty Paths means the whole tree under Root.
type Scope struct {
	Root  string
	Paths []string
}

// Whole reports whether the scope covers the entire root.
func (s Scope) Whole() bool {
	for _, p := range s.Paths {
		if p == "." || p == "" {
			return true
		}
	}
	return len(s.Paths) == 0
}

// Starts returns the walk starting points for a validator owning dir. When
// the scope is the whole tree this is dir itself. An empty result means the
// validator does not apply to the scope.
func (s Scope) Starts(dir string) []string {
	dir = path.Clean(dir)
	if s.Whole() {
		return []string{dir}
	}
	var starts []string
	for _, p := range s.Paths {
		p = path.Clean(p)
		switch {
		case within(p, dir):
			starts = append(starts, p)
		case within(dir, p):
			starts = append(starts, dir)
		}
	}
	return dedupe(starts)
}

// within reports whether child equals parent or lies below it.
func within(child, parent string) bool {
	if parent == "." || child == parent {
		return true
	}
	return strings.HasPrefix(child, parent+"/")
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// FileSystem is the read-only file access every validator goes through.
type FileSystem interface {
	// Files yields root-relative, slash-separated paths of regular files under
	// root/start accepted by match, in lexical order. A missing start yields
	// nothing.
	Files(ctx context.Context, root, start string, match func(rel string) bool) iter.Seq[string]
	// Stat follows symlinks.
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	// RealPath resolves the symlinks in name.
	RealPath(name string) (string, error)
}

// ConfigLoader loads project configuration from a root directory.
type ConfigLoader interface {
	Load(root string) (ProjectConfig, error)
}

// RepoLocator finds the repository that contains a path.
type RepoLocator interface {
	RepoRoot(path string) (string, error)
	CommitHash(root string) (string, error)
}
