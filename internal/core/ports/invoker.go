package ports

import (
	"context"
	"io"

	"go.trai.ch/hashbang/internal/core/domain"
)

// Invoker runs the external compiler inside a workspace.
//
//go:generate go run go.uber.org/mock/mockgen -source=invoker.go -destination=mocks/mock_invoker.go -package=mocks
type Invoker interface {
	// Invoke runs compiler in dir with stdout and stderr merged into one stream.
	//
	// The stream is captured in full and copied to passthrough as it is produced.
	// A non-zero exit is reported in the result, not as an error.
	Invoke(ctx context.Context, compiler []string, dir string, passthrough io.Writer) (domain.BuildResult, error)
}
