// Package app implements the application layer for hashbang.
package app

import (
	"context"
	"io"
	"os"

	"go.trai.ch/hashbang/internal/core/domain"
	"go.trai.ch/hashbang/internal/core/ports"
	"go.trai.ch/hashbang/internal/engine/buildcache"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	reader    ports.SourceReader
	store     ports.Store
	populator *buildcache.Populator
	replayer  *buildcache.Replayer
	executor  ports.Executor
	logger    ports.Logger
	stdout    io.Writer
	stderr    io.Writer
}

// New creates a new App instance.
func New(
	reader ports.SourceReader,
	store ports.Store,
	populator *buildcache.Populator,
	replayer *buildcache.Replayer,
	executor ports.Executor,
	log ports.Logger,
) *App {
	return &App{
		reader:    reader,
		store:     store,
		populator: populator,
		replayer:  replayer,
		executor:  executor,
		logger:    log,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
}

// WithStreams replaces the streams compiler output is written to.
// This is primarily used for testing.
func (a *App) WithStreams(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// Run builds or replays the script named by args[0] and executes it with the remaining args.
// An empty args or a leading "-" reads the script from standard input.
//
// The returned code is the one the process should exit with: the artifact's exit code,
// or the compiler's when the build failed. An error means the tool itself failed.
func (a *App) Run(ctx context.Context, cfg domain.Config, args []string) (int, error) {
	path, scriptArgs := splitArgs(args)

	raw, err := a.reader.Read(path)
	if err != nil {
		return domain.ExitToolFailure, err
	}
	source, err := domain.DecodeScript(raw)
	if err != nil {
		return domain.ExitToolFailure, zerr.With(err, "path", displayPath(path))
	}
	fp := domain.ComputeFingerprint(raw)

	entry, err := a.store.Lookup(cfg.CacheDir, fp)
	if err != nil {
		return domain.ExitToolFailure, zerr.With(err, "cache_dir", cfg.CacheDir)
	}
	if entry != nil {
		a.logger.Info("cache hit", "fingerprint", fp.Short(), "exit_code", entry.ExitCode)
		return a.replay(ctx, cfg, fp, *entry, scriptArgs)
	}

	a.logger.Info("cache miss", "fingerprint", fp.Short())
	script, err := domain.ParseScript(source)
	if err != nil {
		return domain.ExitToolFailure, zerr.With(err, "path", displayPath(path))
	}
	return a.build(ctx, cfg, fp, script, scriptArgs)
}

func (a *App) replay(
	ctx context.Context,
	cfg domain.Config,
	fp domain.Fingerprint,
	entry domain.CacheEntry,
	args []string,
) (int, error) {
	var scratch string
	if entry.Succeeded() {
		dir, err := os.MkdirTemp(cfg.TempDir, "hashbang-run-")
		if err != nil {
			return domain.ExitToolFailure, zerr.Wrap(err, domain.ErrWorkspaceIO.Error())
		}
		defer a.remove(dir)
		scratch = dir
	}

	outcome, err := a.replayer.Replay(ctx, cfg.CacheDir, fp, entry, scratch, a.stderr)
	if err != nil {
		return domain.ExitToolFailure, err
	}
	if !outcome.Succeeded() {
		return outcome.ExitCode, nil
	}
	return a.executor.Run(ctx, outcome.Artifact, args)
}

func (a *App) build(
	ctx context.Context,
	cfg domain.Config,
	fp domain.Fingerprint,
	script domain.Script,
	args []string,
) (int, error) {
	passthrough := io.Discard
	if cfg.Verbose() {
		passthrough = a.stdout
	}

	outcome, err := a.populator.Populate(ctx, cfg, fp, script, passthrough)
	if err != nil {
		return domain.ExitToolFailure, err
	}
	defer func() {
		if err := outcome.Workspace.Cleanup(); err != nil {
			a.logger.Warn("failed to remove workspace", "dir", outcome.Workspace.Dir, "error", err)
		}
	}()

	if !outcome.Succeeded() {
		// The first failing run prints exactly what a replay would. Verbose runs
		// already streamed it.
		if cfg.Verbose() {
			return outcome.ExitCode, nil
		}
		if _, err := a.stderr.Write(outcome.Log); err != nil {
			return domain.ExitToolFailure, zerr.Wrap(err, "failed to write compiler output")
		}
		return outcome.ExitCode, nil
	}
	return a.executor.Run(ctx, outcome.Artifact, args)
}

func (a *App) remove(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		a.logger.Warn("failed to remove directory", "dir", dir, "error", err)
	}
}

func splitArgs(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}
	return args[0], args[1:]
}

func displayPath(path string) string {
	if path == "" || path == domain.StdinPath {
		return "<stdin>"
	}
	return path
}
