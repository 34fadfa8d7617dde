// Package shell runs the compiler and built artifacts as child processes.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"go.trai.ch/hashbang/internal/core/domain"
	"go.trai.ch/hashbang/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewExecutor creates an Executor whose children inherit the process's standard streams.
func NewExecutor(logger ports.Logger) *Executor {
	return NewExecutorWithStreams(logger, os.Stdin, os.Stdout, os.Stderr)
}

// NewExecutorWithStreams creates an Executor attaching the given streams to its children.
func NewExecutorWithStreams(logger ports.Logger, stdin io.Reader, stdout, stderr io.Writer) *Executor {
	return &Executor{
		logger: logger,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
}

// Run executes artifact with args and waits for it to finish.
//
// Interrupt and terminate signals received while the child runs no longer terminate
// this process. Only terminate is relayed: the terminal already delivers Ctrl-C to
// the whole foreground process group, child included.
func (e *Executor) Run(ctx context.Context, artifact string, args []string) (int, error) {
	cmd := exec.CommandContext(ctx, artifact, args...) //nolint:gosec // artifact was built from the user's script
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	e.logger.Debug("running artifact", "path", artifact, "args", len(args))
	if err := cmd.Start(); err != nil {
		return domain.ExitToolFailure, zerr.With(zerr.Wrap(err, domain.ErrArtifactStart.Error()), "path", artifact)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-signals:
				if relayed(sig) {
					_ = cmd.Process.Signal(sig)
				}
			case <-done:
				return
			}
		}
	}()

	err := cmd.Wait()
	close(done)

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return domain.ExitToolFailure, zerr.With(zerr.Wrap(err, domain.ErrArtifactStart.Error()), "path", artifact)
	}

	code := exitCode(cmd.ProcessState)
	e.logger.Debug("artifact finished", "exit_code", code)
	return code, nil
}

func relayed(sig os.Signal) bool {
	return sig == syscall.SIGTERM
}
