package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/fyrsmithlabs/forge/internal/config"
)

// claudeAgent drives the claude CLI as a subprocess bound to the target
// project directory. The first call creates the session with --session-id;
// later calls resume it so the agent keeps its context across the run.
type claudeAgent struct {
	command        string
	model          string
	permissionMode string
	dir            string
	timeout        time.Duration
	sessionID      string
	started        bool
}

// NewClaude creates an agent session for the project at dir.
func NewClaude(cfg config.AgentConfig, dir string) Agent {
	return &claudeAgent{
		command:        cfg.Command,
		model:          cfg.Model,
		permissionMode: cfg.PermissionMode,
		dir:            dir,
		timeout:        cfg.Timeout.Duration(),
		sessionID:      uuid.NewString(),
	}
}

func (a *claudeAgent) SessionID() string { return a.sessionID }

func (a *claudeAgent) Execute(ctx context.Context, instruction string) (string, error) {
	out, err := a.send(ctx, instruction)
	if err != nil {
		return "", err
	}
	return parseResult(out), nil
}

func (a *claudeAgent) Plan(ctx context.Context, instruction string) (*EditPlan, error) {
	out, err := a.send(ctx, instruction)
	if err != nil {
		return nil, err
	}
	return parsePlan(out), nil
}

func (a *claudeAgent) EditFile(ctx context.Context, path, content string) error {
	_, err := a.send(ctx, editInstruction(path, content))
	return err
}

func (a *claudeAgent) Close() error { return nil }

// send runs one claude invocation and returns its stdout.
func (a *claudeAgent) send(ctx context.Context, instruction string) ([]byte, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	args := []string{"-p"}
	if a.started {
		args = append(args, "--resume", a.sessionID)
	} else {
		args = append(args, "--session-id", a.sessionID)
	}
	args = append(args, "--output-format", "json")
	if a.model != "" {
		args = append(args, "--model", a.model)
	}
	if a.permissionMode != "" {
		args = append(args, "--permission-mode", a.permissionMode)
	}
	args = append(args, instruction)

	cmd := exec.CommandContext(ctx, a.command, args...)
	cmd.Dir = a.dir
	cmd.Env = envWithout("CLAUDECODE")
	// SIGTERM on cancellation so the CLI can release its session lock;
	// SIGKILL after the wait delay.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = 5 * time.Second

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: call timed out after %s", ErrAgentFailed, a.timeout)
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("%w: %s", ErrAgentFailed, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%w: %v", ErrAgentFailed, err)
	}

	a.started = true
	return output, nil
}

// parseResult extracts the reply text from the CLI's JSON wrapper,
// falling back to the raw output when it does not parse.
func parseResult(output []byte) string {
	var wrapper struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(output, &wrapper); err == nil && wrapper.Result != "" {
		return wrapper.Result
	}
	return strings.TrimSpace(string(output))
}

// parsePlan extracts an EditPlan from the CLI reply. The plan may arrive
// as structured output, as JSON inside the result string, or not at all;
// an unparseable reply is an empty plan.
func parsePlan(output []byte) *EditPlan {
	var wrapper struct {
		StructuredOutput *EditPlan `json:"structured_output"`
		Result           string    `json:"result"`
	}
	if err := json.Unmarshal(output, &wrapper); err == nil {
		if wrapper.StructuredOutput != nil {
			return wrapper.StructuredOutput
		}
		if wrapper.Result != "" {
			if plan := planFromText(wrapper.Result); plan != nil {
				return plan
			}
			return &EditPlan{}
		}
	}

	if plan := planFromText(string(output)); plan != nil {
		return plan
	}
	return &EditPlan{}
}

// planFromText parses plan JSON, tolerating a markdown fence.
func planFromText(text string) *EditPlan {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var plan EditPlan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		return nil
	}
	return &plan
}

func envWithout(key string) []string {
	prefix := key + "="
	var env []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, prefix) {
			env = append(env, e)
		}
	}
	return env
}

var _ Agent = (*claudeAgent)(nil)
