package buildcache

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"

	"go.trai.ch/hashbang/internal/core/domain"
	"go.trai.ch/hashbang/internal/core/ports"
	"go.trai.ch/zerr"
)

// Populator builds a script on a cache miss and commits the result.
type Populator struct {
	stager  ports.Stager
	invoker ports.Invoker
	store   ports.Store
	logger  ports.Logger
}

// NewPopulator creates a new Populator with the given dependencies.
func NewPopulator(stager ports.Stager, invoker ports.Invoker, store ports.Store, logger ports.Logger) *Populator {
	return &Populator{
		stager:  stager,
		invoker: invoker,
		store:   store,
		logger:  logger,
	}
}

// Populate stages script, runs the compiler and records the outcome under fp.
//
// The log is always committed. The artifact is read and committed only when the
// compiler exits with 0; a failed build records an empty data blob. The compiler
// output is copied to passthrough while it runs.
//
// On success the workspace is returned still materialized so the fresh artifact
// can run from it. It is removed on every error path.
func (p *Populator) Populate(
	ctx context.Context,
	cfg domain.Config,
	fp domain.Fingerprint,
	script domain.Script,
	passthrough io.Writer,
) (*Outcome, error) {
	ws, err := p.stager.Stage(ctx, cfg.TempDir, script)
	if err != nil {
		return nil, err
	}

	outcome, err := p.build(ctx, cfg, fp, ws, passthrough)
	if err != nil {
		if cleanupErr := ws.Cleanup(); cleanupErr != nil {
			p.logger.Warn("failed to remove workspace", "dir", ws.Dir, "error", cleanupErr)
		}
		return nil, zerr.With(err, "fingerprint", fp.Short())
	}
	return outcome, nil
}

func (p *Populator) build(
	ctx context.Context,
	cfg domain.Config,
	fp domain.Fingerprint,
	ws *domain.Workspace,
	passthrough io.Writer,
) (*Outcome, error) {
	result, err := p.invoker.Invoke(ctx, cfg.CompilerArgs(), ws.Dir, passthrough)
	if err != nil {
		return nil, err
	}

	logID, err := p.store.WriteByContentHash(cfg.CacheDir, result.Log)
	if err != nil {
		return nil, err
	}
	entry := domain.CacheEntry{OutputID: logID, ExitCode: result.ExitCode}

	if !entry.Succeeded() {
		if err := p.store.WriteByKey(cfg.CacheDir, fp, entry, bytes.NewReader(nil)); err != nil {
			return nil, err
		}
		p.logger.Info("build failed", "fingerprint", fp.Short(), "exit_code", result.ExitCode)
		return &Outcome{ExitCode: result.ExitCode, Log: result.Log, Workspace: ws}, nil
	}

	artifact, err := os.Open(ws.ArtifactPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrBuildArtifactMissing.Error()), "path", ws.ArtifactPath())
		}
		return nil, zerr.Wrap(err, domain.ErrWorkspaceIO.Error())
	}
	defer func() { _ = artifact.Close() }()

	if err := p.store.WriteByKey(cfg.CacheDir, fp, entry, artifact); err != nil {
		return nil, err
	}
	p.logger.Info("build cached", "fingerprint", fp.Short())

	return &Outcome{
		ExitCode:  domain.ExitSuccess,
		Artifact:  ws.ArtifactPath(),
		Log:       result.Log,
		Workspace: ws,
	}, nil
}
