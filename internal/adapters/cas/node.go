package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hashbang/internal/core/ports"
)

// NodeID is the unique identifier for the store Graft node.
const NodeID graft.ID = "adapter.store"

func init() {
	graft.Register(graft.Node[ports.Store]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Store, error) {
			store, err := NewStore()
			if err != nil {
				return nil, err
			}
			return store, nil
		},
	})
}
