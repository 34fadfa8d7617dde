package ports

import (
	"context"

	"go.trai.ch/hashbang/internal/core/domain"
)

// Stager materializes a script as a buildable workspace.
//
//go:generate go run go.uber.org/mock/mockgen -source=stager.go -destination=mocks/mock_stager.go -package=mocks
type Stager interface {
	// Stage creates a fresh workspace under tempDir holding the manifest and source body.
	// An empty tempDir uses the OS default. The caller owns the returned workspace.
	Stage(ctx context.Context, tempDir string, script domain.Script) (*domain.Workspace, error)
}
