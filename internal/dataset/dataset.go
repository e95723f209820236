// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package dataset

import (
	"bufio"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// Column names in file order.
const (
	ColumnID       = "id"
	ColumnTitle    = "title"
	ColumnDirector = "director"
	ColumnGenres   = "genres"
	ColumnKeywords = "keywords"
	ColumnScore    = "score"
	ColumnActors   = "actors"
)

// Header is the header row of a reduced dataset file.
var Header = []string{
	ColumnID, ColumnTitle, ColumnDirector, ColumnGenres, ColumnKeywords, ColumnScore, ColumnActors,
}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// ParseError reports a malformed row.
type ParseError struct {
	// Line is the 1-based line of the record, counting the header.
	Line int

	// Column names the offending column.
	Column string

	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %s: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Write writes items as CSV in descending score order. Items with equal
// scores keep their relative input order. The input slice is not modified.
func Write(w io.Writer, items []recommend.ScoredItem) error {
	sorted := make([]recommend.ScoredItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(Header))
	for i := range sorted {
		if err := encodeRow(&sorted[i], row); err != nil {
			return fmt.Errorf("encode %s: %w", sorted[i].ID, err)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes items to path through a temporary file and rename, so
// readers never observe a partially written dataset.
func WriteFile(path string, items []recommend.ScoredItem) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create dataset directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck // no-op after a successful rename

	bw := bufio.NewWriter(tmp)
	if err := Write(bw, items); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush dataset: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close dataset: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename dataset: %w", err)
	}
	return nil
}

func encodeRow(item *recommend.ScoredItem, row []string) error {
	genres, err := encodeList(item.Genres)
	if err != nil {
		return err
	}
	keywords, err := encodeList(item.Keywords)
	if err != nil {
		return err
	}
	actors, err := encodeList(item.Cast)
	if err != nil {
		return err
	}

	director := ""
	if vs := item.Directors.Values(); len(vs) > 0 {
		director = vs[0]
	}

	row[0] = item.ID
	row[1] = item.Title
	row[2] = director
	row[3] = genres
	row[4] = keywords
	row[5] = strconv.FormatFloat(item.Score, 'g', -1, 64)
	row[6] = actors
	return nil
}

// encodeList renders a field as a JSON array; missing fields are an empty cell.
func encodeList(f recommend.Field) (string, error) {
	if f.Kind() == recommend.FieldMissing {
		return "", nil
	}
	values := f.Values()
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Read parses a reduced dataset. Rows are decoded by up to workers goroutines
// (0 uses runtime.NumCPU()); the result is always in file order.
func Read(r io.Reader, workers int) ([]recommend.ScoredItem, error) {
	cr := csv.NewReader(bufio.NewReader(r))

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: %w", io.ErrUnexpectedEOF)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	return decodeRecords(records, cols, workers)
}

// ReadFile reads a reduced dataset from path.
func ReadFile(path string, workers int) ([]recommend.ScoredItem, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	items, err := Read(f, workers)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// Checksum returns the hex sha256 of the file at path.
func Checksum(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return "", fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash dataset: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// columnIndex maps required column names to record offsets. Extra columns,
// such as a leading unnamed index column, are ignored.
func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	for _, name := range Header {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return cols, nil
}

func decodeRecords(records [][]string, cols map[string]int, workers int) ([]recommend.ScoredItem, error) {
	n := len(records)
	items := make([]recommend.ScoredItem, n)
	if n == 0 {
		return items, nil
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, n)
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				// +2: 1-based and the header line
				if err := decodeRecord(records[i], cols, i+2, &items[i]); err != nil {
					errs[w] = err
					return
				}
			}
		}(w, lo, hi)
	}
	wg.Wait()

	// chunks are ordered, so the first non-nil error is the earliest line
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}

func decodeRecord(rec []string, cols map[string]int, line int, item *recommend.ScoredItem) error {
	get := func(col string) string {
		if i := cols[col]; i < len(rec) {
			return rec[i]
		}
		return ""
	}

	title := get(ColumnTitle)
	if title == "" {
		return &ParseError{Line: line, Column: ColumnTitle, Err: errors.New("empty title")}
	}

	score, err := strconv.ParseFloat(get(ColumnScore), 64)
	if err != nil {
		return &ParseError{Line: line, Column: ColumnScore, Err: err}
	}

	genres, err := decodeList(get(ColumnGenres))
	if err != nil {
		return &ParseError{Line: line, Column: ColumnGenres, Err: err}
	}
	keywords, err := decodeList(get(ColumnKeywords))
	if err != nil {
		return &ParseError{Line: line, Column: ColumnKeywords, Err: err}
	}
	actors, err := decodeList(get(ColumnActors))
	if err != nil {
		return &ParseError{Line: line, Column: ColumnActors, Err: err}
	}

	director := recommend.Missing()
	if d := get(ColumnDirector); d != "" {
		director = recommend.Scalar(d)
	}

	*item = recommend.ScoredItem{
		RawItem: recommend.RawItem{
			ID:        get(ColumnID),
			Title:     title,
			Cast:      actors,
			Directors: director,
			Genres:    genres,
			Keywords:  keywords,
		},
		Score: score,
	}
	return nil
}

func decodeList(cell string) (recommend.Field, error) {
	if cell == "" {
		return recommend.Missing(), nil
	}
	var values []string
	if err := json.Unmarshal([]byte(cell), &values); err != nil {
		return recommend.Missing(), fmt.Errorf("invalid list: %w", err)
	}
	return recommend.List(values...), nil
}
