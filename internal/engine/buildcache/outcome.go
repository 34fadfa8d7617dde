// Package buildcache decides between building a script and replaying a cached build.
package buildcache

import "go.trai.ch/hashbang/internal/core/domain"

// Outcome is the result of populating or replaying a cache entry.
type Outcome struct {
	// ExitCode is the compiler exit code, fresh or recorded.
	ExitCode int
	// Artifact is the path of an executable ready to run. Empty when the build failed.
	Artifact string
	// Log is the combined compiler output.
	Log []byte
	// Workspace is the build directory of a fresh build. The caller cleans it up.
	Workspace *domain.Workspace
}

// Succeeded reports whether an artifact is available.
func (o *Outcome) Succeeded() bool {
	return o.ExitCode == domain.ExitSuccess && o.Artifact != ""
}
