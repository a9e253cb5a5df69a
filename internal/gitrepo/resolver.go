// Package gitrepo resolves a working directory to its canonical
// repository identity, collapsing linked worktrees to the parent
// repository so every checkout of a project routes to the same channel.
package gitrepo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/thebtf/beacon/pkg/models"
)

// ErrRepositoryNotFound means no ancestor directory carries a .git
// marker. Callers fall back to the working directory itself.
var ErrRepositoryNotFound = errors.New("no git repository found")

// Resolve walks up from cwd to the nearest .git marker. A .git
// directory makes its parent the root; a .git pointer file (linked
// worktree) is followed to the common metadata directory, whose parent
// is the root.
func Resolve(cwd string) (models.RepositoryIdentity, error) {
	dir, err := filepath.Abs(cwd)
	if err != nil {
		return models.RepositoryIdentity{}, ErrRepositoryNotFound
	}

	for {
		marker := filepath.Join(dir, ".git")
		info, statErr := os.Stat(marker)
		if statErr == nil {
			root := dir
			if !info.IsDir() {
				if resolved, ok := resolveWorktree(dir, marker); ok {
					root = resolved
				}
			}
			return identityFor(root), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return models.RepositoryIdentity{}, ErrRepositoryNotFound
		}
		dir = parent
	}
}

// Fallback builds an identity directly from a working directory, for the
// degenerate case where Resolve found no repository.
func Fallback(cwd string) models.RepositoryIdentity {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		abs = cwd
	}
	return identityFor(abs)
}

func identityFor(root string) models.RepositoryIdentity {
	return models.RepositoryIdentity{
		RootPath:    root,
		DisplayName: filepath.Base(root),
	}
}

// resolveWorktree follows a .git pointer file to the common git
// directory and returns its parent. Returns ok=false if the pointer is
// unreadable, leaving the caller to use the worktree directory itself.
func resolveWorktree(worktreeDir, markerPath string) (string, bool) {
	gitdir, ok := readPointerFile(markerPath, "gitdir:")
	if !ok {
		return "", false
	}
	if !filepath.IsAbs(gitdir) {
		gitdir = filepath.Clean(filepath.Join(worktreeDir, gitdir))
	}

	// The worktree's git dir holds a commondir file pointing (usually
	// relatively) at the shared .git directory.
	if common, ok := readPointerFile(filepath.Join(gitdir, "commondir"), ""); ok {
		if !filepath.IsAbs(common) {
			common = filepath.Clean(filepath.Join(gitdir, common))
		}
		return filepath.Dir(common), true
	}

	// No commondir: fall back on the conventional
	// <root>/.git/worktrees/<name> layout.
	if idx := strings.LastIndex(gitdir, string(filepath.Separator)+"worktrees"+string(filepath.Separator)); idx >= 0 {
		commonGitDir := gitdir[:idx]
		return filepath.Dir(commonGitDir), true
	}

	return "", false
}

// readPointerFile reads a small git pointer file and strips the given
// prefix. An empty prefix returns the trimmed first line as-is.
func readPointerFile(path, prefix string) (string, bool) {
	data, err := os.ReadFile(path) // #nosec G304 -- path derives from the marker location
	if err != nil {
		return "", false
	}

	line, _, _ := strings.Cut(strings.TrimSpace(string(data)), "\n")
	if prefix != "" {
		if !strings.HasPrefix(line, prefix) {
			return "", false
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, prefix))
	}
	if line == "" {
		return "", false
	}
	return line, true
}
