// Package cas implements the content-addressed build cache store.
package cas

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"go.trai.ch/hashbang/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	contentDir = "content"
	indexDir   = "index"
	tmpDir     = "tmp"
)

// record is the index entry written for a key.
type record struct {
	Key       string             `json:"key"`
	Integrity domain.ContentHash `json:"integrity"`
	Size      int64              `json:"size"`
	Time      time.Time          `json:"time"`
	Metadata  domain.CacheEntry  `json:"metadata"`
}

// Store implements ports.Store on the local filesystem.
//
// Blobs are zstd compressed and addressed by the SHA-256 of their uncompressed bytes.
// Index records are bucketed by the xxhash of their key. Every file is staged in the
// tmp directory and renamed into place, so readers never observe a partial write.
type Store struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	now     func() time.Time
}

// NewStore creates a new Store. The root is passed to each operation.
func NewStore() (*Store, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create zstd encoder")
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create zstd decoder")
	}
	return &Store{
		encoder: encoder,
		decoder: decoder,
		now:     time.Now,
	}, nil
}

// Lookup returns the metadata recorded under key.
// Returns nil, nil if not found.
func (s *Store) Lookup(root string, key domain.Fingerprint) (*domain.CacheEntry, error) {
	rec, err := s.readRecord(root, key)
	if err != nil || rec == nil {
		return nil, err
	}
	entry := rec.Metadata
	return &entry, nil
}

// Read returns the data blob recorded under key.
func (s *Store) Read(root string, key domain.Fingerprint) ([]byte, error) {
	rec, err := s.readRecord(root, key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, zerr.With(domain.ErrStoreNotFound, "key", key.String())
	}
	data, err := s.ReadContent(root, rec.Integrity)
	if err != nil {
		return nil, zerr.With(err, "key", key.String())
	}
	return data, nil
}

// ReadContent returns the blob addressed by hash after verifying its digest.
func (s *Store) ReadContent(root string, hash domain.ContentHash) ([]byte, error) {
	path, err := s.contentPath(root, hash)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // Path is constructed from trusted root and validated digest
	compressed, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrStoreNotFound, "content_hash", hash.String())
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	data, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreCorrupted.Error()), "content_hash", hash.String())
	}
	if got := domain.ComputeContentHash(data); got != hash {
		err := zerr.With(domain.ErrStoreCorrupted, "content_hash", hash.String())
		return nil, zerr.With(err, "actual", got.String())
	}
	return data, nil
}

// CopyTo materializes the data blob recorded under key at dst.
func (s *Store) CopyTo(root string, key domain.Fingerprint, dst string) error {
	data, err := s.Read(root, key)
	if err != nil {
		return err
	}
	//nolint:gosec // Destination is chosen by the caller
	if err := os.WriteFile(dst, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", dst)
	}
	return nil
}

// WriteByKey records entry and the contents of data under key, replacing any prior record.
func (s *Store) WriteByKey(root string, key domain.Fingerprint, entry domain.CacheEntry, data io.Reader) error {
	buf, err := io.ReadAll(data)
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	hash, err := s.WriteByContentHash(root, buf)
	if err != nil {
		return err
	}

	rec := record{
		Key:       key.String(),
		Integrity: hash,
		Size:      int64(len(buf)),
		Time:      s.now().UTC(),
		Metadata:  entry,
	}
	encoded, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	return writeAtomic(root, s.indexPath(root, key), encoded)
}

// WriteByContentHash stores data addressed by its own digest and returns that digest.
// Content already present is left untouched.
func (s *Store) WriteByContentHash(root string, data []byte) (domain.ContentHash, error) {
	hash := domain.ComputeContentHash(data)
	path, err := s.contentPath(root, hash)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err == nil {
		return hash, nil
	}

	if err := writeAtomic(root, path, s.encoder.EncodeAll(data, nil)); err != nil {
		return "", err
	}
	return hash, nil
}

func (s *Store) readRecord(root string, key domain.Fingerprint) (*record, error) {
	//nolint:gosec // Path is constructed from trusted root and hashed key
	data, err := os.ReadFile(s.indexPath(root, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "key", key.String())
	}

	// Bucket collision: the file belongs to another key.
	if rec.Key != key.String() {
		return nil, nil
	}
	return &rec, nil
}

func (s *Store) indexPath(root string, key domain.Fingerprint) string {
	bucket := fmt.Sprintf("%016x", xxhash.Sum64String(key.String()))
	return filepath.Join(root, indexDir, bucket[:2], bucket+".json")
}

func (s *Store) contentPath(root string, hash domain.ContentHash) (string, error) {
	if _, err := domain.ParseContentHash(hash.String()); err != nil {
		return "", err
	}
	digest := hash.Hex()
	return filepath.Join(root, contentDir, digest[:2], digest[2:]), nil
}

// writeAtomic stages data under the store's tmp directory and renames it to path.
func writeAtomic(root, path string, data []byte) error {
	staging := filepath.Join(root, tmpDir)
	for _, dir := range []string{staging, filepath.Dir(path)} {
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", dir)
		}
	}

	f, err := os.CreateTemp(staging, filepath.Base(path)+".*")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	tmpName := f.Name()

	_, err = io.Copy(f, bytes.NewReader(data))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, domain.FilePerm)
	}
	if err == nil {
		err = os.Rename(tmpName, path)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	return nil
}
