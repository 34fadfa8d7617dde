package buildcache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hashbang/internal/adapters/cas"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hashbang/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hashbang/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hashbang/internal/adapters/workspace" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hashbang/internal/core/ports"
)

const (
	// PopulatorNodeID is the unique identifier for the populator Graft node.
	PopulatorNodeID graft.ID = "engine.populator"

	// ReplayerNodeID is the unique identifier for the replayer Graft node.
	ReplayerNodeID graft.ID = "engine.replayer"
)

func init() {
	graft.Register(graft.Node[*Populator]{
		ID:        PopulatorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			workspace.NodeID,
			shell.InvokerNodeID,
			cas.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Populator, error) {
			stager, err := graft.Dep[ports.Stager](ctx)
			if err != nil {
				return nil, err
			}

			invoker, err := graft.Dep[ports.Invoker](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.Store](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewPopulator(stager, invoker, store, log), nil
		},
	})

	graft.Register(graft.Node[*Replayer]{
		ID:        ReplayerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cas.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Replayer, error) {
			store, err := graft.Dep[ports.Store](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewReplayer(store, log), nil
		},
	})
}
