// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const manifestKeyPrefix = "file:"

// ErrNotInManifest is returned when a file has never been fetched.
var ErrNotInManifest = errors.New("file not in manifest")

// ManifestEntry describes the last successful fetch of one dataset file.
type ManifestEntry struct {
	// Name is the remote file name, e.g. "title.basics.tsv.gz".
	Name string `json:"name"`

	// URL is the URL the file was fetched from.
	URL string `json:"url"`

	// ETag is the validator returned by the server, if any.
	ETag string `json:"etag,omitempty"`

	// LastModified is the Last-Modified header returned by the server, if any.
	LastModified string `json:"last_modified,omitempty"`

	// CompressedBytes is the number of bytes received.
	CompressedBytes int64 `json:"compressed_bytes"`

	// Bytes is the size of the decompressed TSV.
	Bytes int64 `json:"bytes"`

	// FetchedAt is when the file was downloaded or last revalidated.
	FetchedAt time.Time `json:"fetched_at"`
}

// Manifest records dataset fetch metadata in BadgerDB.
type Manifest struct {
	db     *badger.DB
	closer bool
}

// OpenManifest opens (or creates) a manifest database in dir.
func OpenManifest(dir string) (*Manifest, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for manifest: %w", err)
	}
	return &Manifest{db: db, closer: true}, nil
}

// NewManifest wraps an already open database. Close does not close it.
func NewManifest(db *badger.DB) *Manifest {
	return &Manifest{db: db}
}

// Close closes the database if the manifest opened it.
func (m *Manifest) Close() error {
	if m.closer {
		return m.db.Close()
	}
	return nil
}

// Get returns the entry for a file name.
func (m *Manifest) Get(name string) (*ManifestEntry, error) {
	var entry ManifestEntry
	err := m.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(manifestKeyPrefix + name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotInManifest
		}
		if err != nil {
			return fmt.Errorf("get manifest entry: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Put stores or replaces an entry.
func (m *Manifest) Put(entry *ManifestEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal manifest entry: %w", err)
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(manifestKeyPrefix+entry.Name), data)
	})
}

// Delete removes an entry. Deleting a missing entry is not an error.
func (m *Manifest) Delete(name string) error {
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(manifestKeyPrefix + name))
	})
}

// List returns all entries ordered by name.
func (m *Manifest) List() ([]ManifestEntry, error) {
	var entries []ManifestEntry
	err := m.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(manifestKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var entry ManifestEntry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				key := strings.TrimPrefix(string(it.Item().Key()), manifestKeyPrefix)
				return fmt.Errorf("decode manifest entry %s: %w", key, err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
