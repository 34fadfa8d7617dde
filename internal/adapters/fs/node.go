package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hashbang/internal/core/ports"
)

// ReaderNodeID is the unique identifier for the source reader Graft node.
const ReaderNodeID graft.ID = "adapter.fs.reader"

func init() {
	graft.Register(graft.Node[ports.SourceReader]{
		ID:        ReaderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SourceReader, error) {
			return NewReader(), nil
		},
	})
}
