package workspace

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hashbang/internal/core/ports"
)

// NodeID is the unique identifier for the workspace stager Graft node.
const NodeID graft.ID = "adapter.workspace"

func init() {
	graft.Register(graft.Node[ports.Stager]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Stager, error) {
			return NewStager(), nil
		},
	})
}
