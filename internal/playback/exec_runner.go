package playback

import (
	"context"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// ExecRunner plays media by running an external player such as mpv
type ExecRunner struct {
	command string
	args    []string
	logger  *zap.Logger
}

func NewExecRunner(command string, args []string, logger *zap.Logger) *ExecRunner {
	return &ExecRunner{command: command, args: args, logger: logger}
}

// Run blocks until the player exits; cancelling ctx kills the process
func (r *ExecRunner) Run(ctx context.Context, url string, volume int) error {
	cmd := exec.CommandContext(ctx, r.command, r.commandArgs(url, volume)...)

	r.logger.Debug("Starting player process",
		zap.String("command", r.command),
		zap.Strings("args", cmd.Args[1:]),
	)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("player %s: %w", r.command, err)
	}
	return nil
}

func (r *ExecRunner) commandArgs(url string, volume int) []string {
	args := append([]string(nil), r.args...)
	if volume >= 0 {
		args = append(args, fmt.Sprintf("--volume=%d", volume))
	}
	return append(args, url)
}
