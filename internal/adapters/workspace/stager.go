// Package workspace stages scripts into disposable build directories.
package workspace

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/hashbang/internal/core/domain"
	"go.trai.ch/hashbang/internal/core/ports"
	"go.trai.ch/zerr"
)

const dirPattern = "hashbang-"

var _ ports.Stager = (*Stager)(nil)

// Stager writes a manifest and source body into a fresh temporary directory.
type Stager struct{}

// NewStager creates a new Stager.
func NewStager() *Stager {
	return &Stager{}
}

// Stage creates a workspace under tempDir for script.
//
// The manifest is validated before anything touches the filesystem. On failure no
// directory is left behind.
func (s *Stager) Stage(ctx context.Context, tempDir string, script domain.Script) (*domain.Workspace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manifest, err := DecodeManifest(script.Frontmatter)
	if err != nil {
		return nil, err
	}
	rendered, err := EncodeManifest(manifest)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp(tempDir, dirPattern)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrWorkspaceIO.Error()), "temp_dir", tempDir)
	}
	ws := &domain.Workspace{Dir: dir}

	if err := populate(ws, rendered, script.Body); err != nil {
		_ = ws.Cleanup()
		return nil, err
	}
	return ws, nil
}

func populate(ws *domain.Workspace, manifest []byte, body string) error {
	if err := os.WriteFile(ws.ManifestPath(), manifest, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWorkspaceIO.Error()), "path", ws.ManifestPath())
	}
	if err := os.MkdirAll(filepath.Dir(ws.SourcePath()), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWorkspaceIO.Error()), "path", filepath.Dir(ws.SourcePath()))
	}
	if err := os.WriteFile(ws.SourcePath(), []byte(body), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWorkspaceIO.Error()), "path", ws.SourcePath())
	}
	return nil
}
