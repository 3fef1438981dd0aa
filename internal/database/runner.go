package database

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CommandRunner abstracts the package-runner invocations (npx supabase
// ...) so provisioning can be tested without the CLI.
type CommandRunner interface {
	// Run executes the command with args in dir and returns combined
	// output.
	Run(ctx context.Context, dir string, name string, args ...string) (string, error)
}

// execRunner runs commands through os/exec.
type execRunner struct {
	timeout time.Duration
}

// NewRunner creates the real command runner. timeout bounds each
// invocation; zero disables the bound.
func NewRunner(timeout time.Duration) CommandRunner {
	return &execRunner{timeout: timeout}
}

func (r *execRunner) Run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return buf.String(), fmt.Errorf("%s %s timed out after %s", name, strings.Join(args, " "), r.timeout)
		}
		return buf.String(), fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(buf.String()))
	}
	return buf.String(), nil
}
