package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hashbang/internal/adapters/cas"    //nolint:depguard // Wired in app layer
	"go.trai.ch/hashbang/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.trai.ch/hashbang/internal/adapters/fs"     //nolint:depguard // Wired in app layer
	"go.trai.ch/hashbang/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/hashbang/internal/adapters/shell"  //nolint:depguard // Wired in app layer
	"go.trai.ch/hashbang/internal/core/ports"
	"go.trai.ch/hashbang/internal/engine/buildcache"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.ReaderNodeID,
			cas.NodeID,
			buildcache.PopulatorNodeID,
			buildcache.ReplayerNodeID,
			shell.ExecutorNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	reader, err := graft.Dep[ports.SourceReader](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.Store](ctx)
	if err != nil {
		return nil, err
	}

	populator, err := graft.Dep[*buildcache.Populator](ctx)
	if err != nil {
		return nil, err
	}

	replayer, err := graft.Dep[*buildcache.Replayer](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(reader, store, populator, replayer, executor, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	return NewComponents(app, log, loader), nil
}
