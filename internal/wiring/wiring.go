// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/hashbang/internal/adapters/cas"
	_ "go.trai.ch/hashbang/internal/adapters/config"
	_ "go.trai.ch/hashbang/internal/adapters/fs"
	_ "go.trai.ch/hashbang/internal/adapters/logger"
	_ "go.trai.ch/hashbang/internal/adapters/shell"
	_ "go.trai.ch/hashbang/internal/adapters/workspace"
	// Register app and engine nodes.
	_ "go.trai.ch/hashbang/internal/app"
	_ "go.trai.ch/hashbang/internal/engine/buildcache"
)
