package platform

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// commandTimeout bounds every helper process.
var commandTimeout = 3 * time.Second

func commandOutput(name string, args ...string) ([]byte, error) {
	return runWithTimeout(func(cmd *exec.Cmd) ([]byte, error) { return cmd.Output() }, name, args...)
}

func commandCombinedOutput(name string, args ...string) ([]byte, error) {
	return runWithTimeout(func(cmd *exec.Cmd) ([]byte, error) { return cmd.CombinedOutput() }, name, args...)
}

func runWithTimeout(run func(*exec.Cmd) ([]byte, error), name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	output, err := run(exec.CommandContext(ctx, name, args...))
	if ctx.Err() != nil {
		return output, fmt.Errorf("run %s: %w", name, ctx.Err())
	}
	return output, err
}
