package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"go.trai.ch/zerr"
)

// Fingerprint identifies a cache entry. It is the hex encoded SHA-256 digest of the
// raw script bytes exactly as read, shebang and frontmatter included.
type Fingerprint string

// ComputeFingerprint hashes the raw input bytes.
func ComputeFingerprint(raw []byte) Fingerprint {
	sum := sha256.Sum256(raw)
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// String returns the fingerprint as a string.
func (f Fingerprint) String() string {
	return string(f)
}

// Short returns an abbreviated fingerprint for log output.
func (f Fingerprint) Short() string {
	if len(f) <= 12 {
		return string(f)
	}
	return string(f[:12])
}

// ContentHashAlgorithm prefixes every ContentHash.
const ContentHashAlgorithm = "sha256"

// ContentHash addresses an immutable blob by its own digest, formatted as "sha256:<hex>".
type ContentHash string

// ComputeContentHash returns the content hash of data.
func ComputeContentHash(data []byte) ContentHash {
	sum := sha256.Sum256(data)
	return NewContentHash(sum[:])
}

// NewContentHash formats a raw SHA-256 digest as a ContentHash.
func NewContentHash(digest []byte) ContentHash {
	return ContentHash(ContentHashAlgorithm + ":" + hex.EncodeToString(digest))
}

// ParseContentHash validates s and returns it as a ContentHash.
func ParseContentHash(s string) (ContentHash, error) {
	algo, digest, ok := strings.Cut(s, ":")
	if !ok || algo != ContentHashAlgorithm {
		return "", zerr.With(ErrInvalidContentHash, "content_hash", s)
	}
	decoded, err := hex.DecodeString(digest)
	if err != nil || len(decoded) != sha256.Size {
		return "", zerr.With(ErrInvalidContentHash, "content_hash", s)
	}
	return ContentHash(s), nil
}

// Hex returns the hex digest without the algorithm prefix.
func (c ContentHash) Hex() string {
	_, digest, _ := strings.Cut(string(c), ":")
	return digest
}

// String returns the content hash as a string.
func (c ContentHash) String() string {
	return string(c)
}
