package llm

import (
	"context"
	"fmt"
	log "log/slog"
	"os/exec"
	"strings"
)

// CLI is a backend that shells out to a local coding-agent binary for
// each turn. The tool keeps its own conversation state on disk; the
// continue flag resumes it so follow-up turns carry context.
type CLI struct {
	bin     string
	args    []string
	started bool
}

// NewCLI builds a CLI backend around the given binary. Extra args are
// appended to every invocation (e.g. "--allowedTools", "Read" so the
// tool can open captured images).
func NewCLI(bin string, extraArgs ...string) *CLI {
	if bin == "" {
		bin = "claude"
	}
	return &CLI{bin: bin, args: extraArgs}
}

// Init runs the system prompt as the opening turn and returns the tool's
// reply as the greeting.
func (c *CLI) Init(systemPrompt string) (string, error) {
	out, err := c.run(context.Background(), systemPrompt+"\n\n"+greetingPrompt, false)
	if err != nil {
		return "", fmt.Errorf("backend init: %w", err)
	}
	c.started = true
	return out, nil
}

func (c *CLI) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := c.run(ctx, prompt, c.started)
	if err != nil {
		return "", err
	}
	c.started = true
	return out, nil
}

// Reset starts a fresh conversation on the next turn.
func (c *CLI) Reset() { c.started = false }

func (c *CLI) run(ctx context.Context, prompt string, cont bool) (string, error) {
	args := make([]string, 0, len(c.args)+3)
	if cont {
		args = append(args, "-c")
	}
	args = append(args, "-p", prompt)
	args = append(args, c.args...)

	log.Debug("Running backend command", "bin", c.bin, "continue", cont)

	out, err := exec.CommandContext(ctx, c.bin, args...).Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return "", fmt.Errorf("%s: %s", c.bin, strings.TrimSpace(string(ee.Stderr)))
		}
		return "", fmt.Errorf("%s: %w", c.bin, err)
	}
	return strings.TrimSpace(string(out)), nil
}
