// Package workspace inspects the target project directory before an
// implementation run. Failed runs leave applied edits behind, so forge
// warns before editing into a dirty git worktree.
package workspace

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
)

// ErrDirtyWorktree indicates the target has uncommitted changes and the
// run is configured to require a clean worktree.
var ErrDirtyWorktree = errors.New("target worktree has uncommitted changes")

// Status describes the target directory's git state.
type Status struct {
	// IsRepo reports whether the directory is inside a git repository.
	IsRepo bool

	// Branch is the checked-out branch name, empty on detached HEAD or
	// outside a repository.
	Branch string

	// Clean reports whether the worktree has no uncommitted changes.
	// Always true outside a repository.
	Clean bool
}

// Inspect reports the git state of dir. A directory that is not a
// repository is not an error; edits into it are simply unprotected.
func Inspect(dir string) (Status, error) {
	if info, err := os.Stat(dir); err != nil {
		return Status{}, fmt.Errorf("target directory %s: %w", dir, err)
	} else if !info.IsDir() {
		return Status{}, fmt.Errorf("target %s is not a directory", dir)
	}

	repo, err := git.PlainOpen(dir)
	if err != nil {
		// Not a git repository.
		return Status{Clean: true}, nil
	}

	status := Status{IsRepo: true, Clean: true}

	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		status.Branch = head.Name().Short()
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return status, nil
	}
	wtStatus, err := worktree.Status()
	if err != nil {
		return status, nil
	}
	status.Clean = wtStatus.IsClean()

	return status, nil
}
