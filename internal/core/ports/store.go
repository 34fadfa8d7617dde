package ports

import (
	"io"

	"go.trai.ch/hashbang/internal/core/domain"
)

// Store is a content-addressed store shared by concurrent processes.
//
// Every operation takes the store root explicitly.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type Store interface {
	// Lookup returns the metadata recorded under key.
	// Returns nil, nil if not found.
	Lookup(root string, key domain.Fingerprint) (*domain.CacheEntry, error)

	// Read returns the data blob recorded under key.
	Read(root string, key domain.Fingerprint) ([]byte, error)

	// ReadContent returns the blob addressed by hash.
	ReadContent(root string, hash domain.ContentHash) ([]byte, error)

	// CopyTo materializes the data blob recorded under key at dst.
	CopyTo(root string, key domain.Fingerprint, dst string) error

	// WriteByKey records entry and the contents of data under key, replacing any prior record.
	WriteByKey(root string, key domain.Fingerprint, entry domain.CacheEntry, data io.Reader) error

	// WriteByContentHash stores data addressed by its own digest and returns that digest.
	WriteByContentHash(root string, data []byte) (domain.ContentHash, error)
}
