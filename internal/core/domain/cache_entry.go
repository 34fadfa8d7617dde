package domain

// CacheEntry is the metadata recorded for a fingerprint after its first build.
type CacheEntry struct {
	// OutputID references the log blob holding the combined compiler output.
	OutputID ContentHash `json:"output_id"`
	// ExitCode is the normalized compiler exit code.
	ExitCode int `json:"exit_code"`
}

// Succeeded reports whether the recorded build produced an artifact.
func (e CacheEntry) Succeeded() bool {
	return e.ExitCode == 0
}

// BuildResult is the outcome of one compiler invocation.
type BuildResult struct {
	// Log is the merged stdout and stderr of the compiler, in production order.
	Log []byte
	// ExitCode is the normalized exit code of the compiler.
	ExitCode int
}
