package buildcache

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/hashbang/internal/core/domain"
	"go.trai.ch/hashbang/internal/core/ports"
	"go.trai.ch/zerr"
)

// Replayer reproduces a cached build without invoking the compiler.
type Replayer struct {
	store  ports.Store
	logger ports.Logger
}

// NewReplayer creates a new Replayer.
func NewReplayer(store ports.Store, logger ports.Logger) *Replayer {
	return &Replayer{store: store, logger: logger}
}

// Replay restores the outcome recorded in entry.
//
// A successful build is materialized as an executable under scratch. A failed build
// has its log written verbatim to stderr and reports the recorded exit code.
func (r *Replayer) Replay(
	ctx context.Context,
	root string,
	fp domain.Fingerprint,
	entry domain.CacheEntry,
	scratch string,
	stderr io.Writer,
) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !entry.Succeeded() {
		log, err := r.store.ReadContent(root, entry.OutputID)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrReplayFailed.Error()), "fingerprint", fp.Short())
		}
		if _, err := stderr.Write(log); err != nil {
			return nil, zerr.Wrap(err, domain.ErrReplayFailed.Error())
		}
		r.logger.Debug("replayed failed build", "fingerprint", fp.Short(), "exit_code", entry.ExitCode)
		return &Outcome{ExitCode: entry.ExitCode, Log: log}, nil
	}

	dst := filepath.Join(scratch, domain.ArtifactName)
	if err := r.store.CopyTo(root, fp, dst); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrReplayFailed.Error()), "fingerprint", fp.Short())
	}
	if err := os.Chmod(dst, domain.ExecPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrReplayFailed.Error()), "path", dst)
	}
	r.logger.Debug("materialized cached artifact", "fingerprint", fp.Short(), "path", dst)
	return &Outcome{ExitCode: domain.ExitSuccess, Artifact: dst}, nil
}
