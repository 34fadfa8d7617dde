package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hashbang/internal/adapters/logger"
	"go.trai.ch/hashbang/internal/core/ports"
)

const (
	// ExecutorNodeID is the unique identifier for the executor Graft node.
	ExecutorNodeID graft.ID = "adapter.executor"

	// InvokerNodeID is the unique identifier for the compiler invoker Graft node.
	InvokerNodeID graft.ID = "adapter.invoker"
)

func init() {
	graft.Register(graft.Node[ports.Executor]{
		ID:        ExecutorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Executor, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewExecutor(log), nil
		},
	})

	graft.Register(graft.Node[ports.Invoker]{
		ID:        InvokerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Invoker, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewInvoker(log), nil
		},
	})
}
