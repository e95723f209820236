// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrNoSnapshot is returned when no snapshot exists for a name.
var ErrNoSnapshot = errors.New("no snapshot found")

const snapshotExt = ".gob.gz"

// SnapshotMetadata describes a stored snapshot.
type SnapshotMetadata struct {
	// Name groups versions of the same index (e.g. "movies").
	Name string `json:"name"`

	// Version is monotonically increasing per name.
	Version int `json:"version"`

	// BuiltAt is when the index was built.
	BuiltAt time.Time `json:"built_at"`

	// SavedAt is when the snapshot was written.
	SavedAt time.Time `json:"saved_at"`

	// DatasetChecksum identifies the dataset the index was built from.
	DatasetChecksum string `json:"dataset_checksum"`

	// ProfileFingerprint identifies the profile settings the index was
	// built with.
	ProfileFingerprint string `json:"profile_fingerprint"`

	// Items is the number of corpus rows.
	Items int `json:"items"`

	// VocabularySize is the number of vocabulary terms.
	VocabularySize int `json:"vocabulary_size"`

	// Checksum is the SHA-256 of the uncompressed payload.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size.
	SizeBytes int64 `json:"size_bytes"`
}

// ItemRecord is the persisted form of one corpus row.
// Field kinds follow recommend.FieldKind numbering.
type ItemRecord struct {
	ID            string
	Title         string
	NumVotes      int64
	AverageRating float64
	Score         float64

	Cast          []string
	CastKind      int
	Directors     []string
	DirectorsKind int
	Genres        []string
	GenresKind    int
	Keywords      []string
	KeywordsKind  int
}

// IndexSnapshot is the persisted form of a built index.
type IndexSnapshot struct {
	DatasetChecksum    string
	ProfileFingerprint string
	Source             string
	BuiltAt            time.Time
	EmptyProfiles      int

	Items []ItemRecord
	Terms []string

	// Upper is the row-major upper triangle (diagonal included) of the
	// len(Items)×len(Items) similarity matrix.
	Upper []float64
}

// storedFile is the on-disk envelope.
type storedFile struct {
	Metadata       SnapshotMetadata
	CompressedData []byte
}

// Store manages snapshot files in one directory.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// latest version per name
	versions map[string]int
}

// NewStore opens (creating if needed) a snapshot directory.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}

	all, err := s.scan()
	if err != nil {
		return nil, fmt.Errorf("scan snapshots: %w", err)
	}
	for name, versions := range all {
		s.versions[name] = versions[0]
	}
	return s, nil
}

// scan returns every version per name, newest first.
func (s *Store) scan() (map[string][]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]int)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, version, ok := parseSnapshotFilename(entry.Name())
		if !ok {
			continue
		}
		out[name] = append(out[name], version)
	}
	for name := range out {
		sort.Sort(sort.Reverse(sort.IntSlice(out[name])))
	}
	return out, nil
}

// parseSnapshotFilename splits "movies_v3.gob.gz" into ("movies", 3).
func parseSnapshotFilename(filename string) (name string, version int, ok bool) {
	base, found := strings.CutSuffix(filename, snapshotExt)
	if !found {
		return "", 0, false
	}
	i := strings.LastIndex(base, "_v")
	if i <= 0 {
		return "", 0, false
	}
	version, err := strconv.Atoi(base[i+2:])
	if err != nil || version < 1 {
		return "", 0, false
	}
	return base[:i], version, true
}

// Save writes snap as the next version of name.
func (s *Store) Save(ctx context.Context, name string, snap *IndexSnapshot) (*SnapshotMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(snap); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	hash := sha256.Sum256(raw.Bytes())

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		return nil, fmt.Errorf("compress snapshot: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	version := s.versions[name] + 1
	meta := SnapshotMetadata{
		Name:               name,
		Version:            version,
		BuiltAt:            snap.BuiltAt,
		SavedAt:            time.Now().UTC(),
		DatasetChecksum:    snap.DatasetChecksum,
		ProfileFingerprint: snap.ProfileFingerprint,
		Items:              len(snap.Items),
		VocabularySize:     len(snap.Terms),
		Checksum:           hex.EncodeToString(hash[:]),
		SizeBytes:          int64(compressed.Len()),
	}

	if err := s.writeFile(s.path(name, version), &storedFile{Metadata: meta, CompressedData: compressed.Bytes()}); err != nil {
		return nil, err
	}
	s.versions[name] = version
	return &meta, nil
}

func (s *Store) writeFile(path string, sf *storedFile) error {
	tmp, err := os.CreateTemp(s.baseDir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() //nolint:errcheck // no-op after a successful rename

	if err := gob.NewEncoder(tmp).Encode(sf); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write snapshot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("publish snapshot file: %w", err)
	}
	return nil
}

// Load reads a snapshot into target. Version 0 loads the latest.
func (s *Store) Load(ctx context.Context, name string, version int, target *IndexSnapshot) (*SnapshotMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		var ok bool
		if version, ok = s.versions[name]; !ok {
			return nil, fmt.Errorf("%w for %s", ErrNoSnapshot, name)
		}
	}

	sf, err := readEnvelope(s.path(name, version))
	if err != nil {
		return nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // read-only

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed snapshot: %w", err)
	}

	hash := sha256.Sum256(raw)
	if got := hex.EncodeToString(hash[:]); got != sf.Metadata.Checksum {
		return nil, fmt.Errorf("checksum mismatch: expected %s, got %s", sf.Metadata.Checksum, got)
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &sf.Metadata, nil
}

func readEnvelope(path string) (*storedFile, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from the store directory
	if err != nil {
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}
	return &sf, nil
}

// LatestVersion returns the newest version stored for name.
func (s *Store) LatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.versions[name]
	return v, ok
}

// Latest returns the metadata of the newest snapshot for name.
func (s *Store) Latest(name string) (*SnapshotMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.versions[name]
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoSnapshot, name)
	}
	sf, err := readEnvelope(s.path(name, version))
	if err != nil {
		return nil, err
	}
	return &sf.Metadata, nil
}

// List returns metadata for every stored snapshot, grouped by name with the
// newest version first. Unreadable files are skipped.
func (s *Store) List(ctx context.Context) ([]SnapshotMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.scan()
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []SnapshotMetadata
	for _, name := range names {
		for _, v := range all[name] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			sf, err := readEnvelope(s.path(name, v))
			if err != nil {
				continue
			}
			out = append(out, sf.Metadata)
		}
	}
	return out, nil
}

// Prune removes all but the newest keep versions of name.
func (s *Store) Prune(ctx context.Context, name string, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.scan()
	if err != nil {
		return 0, fmt.Errorf("read directory: %w", err)
	}

	removed := 0
	versions := all[name]
	for i := keep; i < len(versions); i++ {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := os.Remove(s.path(name, versions[i])); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("remove snapshot v%d: %w", versions[i], err)
		}
		removed++
	}
	return removed, nil
}

func (s *Store) path(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, snapshotExt))
}
