package domain

import "go.trai.ch/zerr"

var (
	// ErrInputReadFailed is returned when the script source cannot be read.
	ErrInputReadFailed = zerr.New("failed to read input source")

	// ErrInputNotText is returned when the script source is not valid UTF-8 text.
	ErrInputNotText = zerr.New("input source is not valid UTF-8 text")

	// ErrFrontmatterUnterminated is returned when a frontmatter block has no closing delimiter.
	ErrFrontmatterUnterminated = zerr.New("hit end of input before finding the closing frontmatter delimiter \"+++\"")

	// ErrManifestInvalid is returned when the frontmatter is not a well-formed manifest mapping.
	ErrManifestInvalid = zerr.New("frontmatter is not a valid manifest")

	// ErrManifestRenderFailed is returned when the merged manifest cannot be serialized.
	ErrManifestRenderFailed = zerr.New("failed to render build manifest")

	// ErrWorkspaceIO is returned when the build workspace cannot be created or written.
	ErrWorkspaceIO = zerr.New("failed to prepare build workspace")

	// ErrCompilerStart is returned when the external compiler cannot be started.
	ErrCompilerStart = zerr.New("failed to start compiler")

	// ErrCompilerOutput is returned when the compiler output stream cannot be drained.
	ErrCompilerOutput = zerr.New("failed to capture compiler output")

	// ErrBuildArtifactMissing is returned when a successful build left no artifact behind.
	ErrBuildArtifactMissing = zerr.New("build artifact not found")

	// ErrArtifactStart is returned when the built artifact cannot be started.
	ErrArtifactStart = zerr.New("failed to start artifact")

	// ErrStoreNotFound is returned when a requested key or content hash is absent from the store.
	ErrStoreNotFound = zerr.New("entry not found in store")

	// ErrStoreCorrupted is returned when stored content does not match its recorded digest.
	ErrStoreCorrupted = zerr.New("store content failed integrity check")

	// ErrStoreReadFailed is returned when the store cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read from store")

	// ErrStoreWriteFailed is returned when the store cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write to store")

	// ErrStoreUnmarshalFailed is returned when an index record cannot be decoded.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal store index record")

	// ErrStoreMarshalFailed is returned when an index record cannot be encoded.
	ErrStoreMarshalFailed = zerr.New("failed to marshal store index record")

	// ErrInvalidContentHash is returned when a content hash string is malformed.
	ErrInvalidContentHash = zerr.New("invalid content hash")

	// ErrReplayFailed is returned when a cache entry cannot be replayed.
	ErrReplayFailed = zerr.New("failed to replay cached build")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrNoHomeDir is returned when no cache directory is given and the home directory is unknown.
	ErrNoHomeDir = zerr.New("cannot determine home directory for the default cache location")
)
