package domain

import (
	"os"
	"path/filepath"
)

const (
	// DefaultCacheDirName is the cache directory created under the user's home directory.
	DefaultCacheDirName = ".hashbang-cache"

	// CacheDirEnv overrides the cache directory.
	CacheDirEnv = "HASHBANG_DIR"

	// ConfigFileEnv points at an explicit config file.
	ConfigFileEnv = "HASHBANG_CONFIG"

	// ConfigDirName is the directory under the user config dir holding the config file.
	ConfigDirName = "hashbang"

	// ConfigFileName is the name of the optional config file.
	ConfigFileName = "config.yaml"

	// LogFormatPretty and LogFormatJSON are the accepted log_format config values.
	LogFormatPretty = "pretty"
	LogFormatJSON   = "json"

	// ManifestFileName is the build manifest written into each workspace.
	ManifestFileName = "Cargo.toml"

	// SourceDirName holds the script body inside the workspace.
	SourceDirName = "src"

	// SourceFileName is the file the script body is written to.
	SourceFileName = "main.rs"

	// ArtifactName is the file name a replayed artifact is materialized under.
	ArtifactName = ManifestPackageName

	// StdinPath selects standard input as the script source.
	StdinPath = "-"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// ExecPerm is the permission given to replayed artifacts (rwxr-xr-x).
	ExecPerm = 0o755
)

// ArtifactRelPath is where the compiler leaves the executable, relative to the workspace.
func ArtifactRelPath() string {
	return filepath.Join("target", "release", ManifestPackageName)
}

// DefaultCompiler is the compiler command run inside the workspace.
func DefaultCompiler() []string {
	return []string{"cargo", "--color", "always", "build", "--release"}
}

// Workspace is an ephemeral build directory owned by one invocation.
type Workspace struct {
	Dir string
}

// ManifestPath returns the path of the generated manifest.
func (w *Workspace) ManifestPath() string {
	return filepath.Join(w.Dir, ManifestFileName)
}

// SourcePath returns the path of the script body.
func (w *Workspace) SourcePath() string {
	return filepath.Join(w.Dir, SourceDirName, SourceFileName)
}

// ArtifactPath returns the path the compiler is expected to write the executable to.
func (w *Workspace) ArtifactPath() string {
	return filepath.Join(w.Dir, ArtifactRelPath())
}

// Cleanup removes the workspace directory.
func (w *Workspace) Cleanup() error {
	if w == nil || w.Dir == "" {
		return nil
	}
	return os.RemoveAll(w.Dir)
}
