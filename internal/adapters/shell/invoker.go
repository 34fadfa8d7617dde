package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.trai.ch/hashbang/internal/core/domain"
	"go.trai.ch/hashbang/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Invoker = (*Invoker)(nil)

// Invoker runs the compiler with stdout and stderr attached to a single pipe.
//
// Sharing one pipe keeps the interleaving of the two streams in the order the
// compiler produced them.
type Invoker struct {
	logger ports.Logger
}

// NewInvoker creates a new Invoker.
func NewInvoker(logger ports.Logger) *Invoker {
	return &Invoker{logger: logger}
}

// Invoke runs compiler in dir, capturing the merged output and copying it to passthrough.
func (i *Invoker) Invoke(
	ctx context.Context,
	compiler []string,
	dir string,
	passthrough io.Writer,
) (domain.BuildResult, error) {
	if len(compiler) == 0 {
		return domain.BuildResult{}, zerr.Wrap(errors.New("empty compiler command"), domain.ErrCompilerStart.Error())
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return domain.BuildResult{}, zerr.Wrap(err, domain.ErrCompilerOutput.Error())
	}

	cmd := exec.CommandContext(ctx, compiler[0], compiler[1:]...) //nolint:gosec // compiler is configured by the user
	cmd.Dir = dir
	cmd.Stdout = pw
	cmd.Stderr = pw

	i.logger.Debug("starting compiler", "command", strings.Join(compiler, " "), "dir", dir)
	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return domain.BuildResult{}, zerr.With(zerr.Wrap(err, domain.ErrCompilerStart.Error()), "command", compiler[0])
	}

	// The child holds its own copy of the write end. Closing ours lets the
	// reader see EOF once the compiler and its descendants are done.
	_ = pw.Close()

	tee := NewTee(passthrough)
	var g errgroup.Group
	g.Go(func() error {
		defer func() { _ = pr.Close() }()
		_, err := io.Copy(tee, pr)
		return err
	})

	waitErr := cmd.Wait()
	// Returns at pipe EOF, so a background descendant still holding the write end
	// delays the build until it exits or closes it.
	copyErr := g.Wait()

	if copyErr != nil {
		return domain.BuildResult{}, zerr.Wrap(copyErr, domain.ErrCompilerOutput.Error())
	}
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return domain.BuildResult{}, zerr.Wrap(waitErr, domain.ErrCompilerOutput.Error())
	}

	result := domain.BuildResult{
		Log:      tee.Bytes(),
		ExitCode: exitCode(cmd.ProcessState),
	}
	i.logger.Debug("compiler finished", "exit_code", result.ExitCode, "log_bytes", len(result.Log))
	return result, nil
}
