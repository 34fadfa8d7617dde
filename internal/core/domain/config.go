package domain

import "slices"

// Config is the resolved, immutable configuration of one invocation.
type Config struct {
	// CacheDir is the root of the content-addressed store.
	CacheDir string
	// TempDir is where workspaces are created. Empty means the OS default.
	TempDir string
	// Compiler is the argv of the external compiler.
	Compiler []string
	// Verbosity is the number of -v flags given.
	Verbosity int
	// LogJSON selects JSON diagnostics instead of the pretty format.
	LogJSON bool
}

// Verbose reports whether compiler output should be streamed while building.
func (c Config) Verbose() bool {
	return c.Verbosity > 0
}

// CompilerArgs returns a copy of the compiler argv, falling back to DefaultCompiler.
func (c Config) CompilerArgs() []string {
	if len(c.Compiler) == 0 {
		return DefaultCompiler()
	}
	return slices.Clone(c.Compiler)
}

// ConfigOptions are the command line inputs the configuration is resolved from.
type ConfigOptions struct {
	// ConfigFile is an explicit config file path. Empty means discover it.
	ConfigFile string
	// CacheDir is the --cache-dir flag value. Empty means unset.
	CacheDir string
	// Verbosity is the number of -v flags given.
	Verbosity int
	// LogJSON is the --log-json flag value.
	LogJSON bool
}
