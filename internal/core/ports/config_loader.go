package ports

import "go.trai.ch/hashbang/internal/core/domain"

// ConfigLoader resolves the configuration of one invocation.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load merges command line options, environment and the optional config file.
	Load(opts domain.ConfigOptions) (domain.Config, error)
}
