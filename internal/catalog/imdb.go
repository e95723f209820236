// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// ErrMissingFile is returned when a required TSV file is absent.
var ErrMissingFile = errors.New("dataset file missing")

// listSeparator joins cast names inside SQL; IMDb names never contain it.
const listSeparator = "\x1f"

// SourceConfig configures an IMDbSource.
type SourceConfig struct {
	// Dir holds the decompressed .tsv files.
	Dir string

	// CastCategories are title.principals categories treated as cast.
	// Default: ["actor"].
	CastCategories []string

	// Threads bounds DuckDB parallelism. 0 lets DuckDB decide.
	Threads int

	// MaxMemory bounds DuckDB memory, e.g. "2GB". Empty lets DuckDB decide.
	MaxMemory string
}

// IMDbSource loads raw items from IMDb TSV dumps with DuckDB.
type IMDbSource struct {
	cfg    SourceConfig
	logger zerolog.Logger
}

// NewIMDbSource creates a source over the files in cfg.Dir.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewIMDbSource(cfg SourceConfig, logger zerolog.Logger) *IMDbSource {
	if len(cfg.CastCategories) == 0 {
		cfg.CastCategories = []string{"actor"}
	}
	return &IMDbSource{
		cfg:    cfg,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// Files returns the TSV paths the source reads, keyed by remote file name.
func (s *IMDbSource) Files() map[string]string {
	out := make(map[string]string, len(DefaultFiles))
	for _, name := range DefaultFiles {
		out[name] = filepath.Join(s.cfg.Dir, strings.TrimSuffix(name, ".gz"))
	}
	return out
}

// Verify checks that every required file exists.
func (s *IMDbSource) Verify() error {
	var missing []string
	for _, name := range DefaultFiles {
		path := filepath.Join(s.cfg.Dir, strings.TrimSuffix(name, ".gz"))
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFile, strings.Join(missing, ", "))
	}
	return nil
}

// Load returns one raw item per movie with ratings and crew rows, ordered by
// tconst. An empty result is recommend.ErrEmptyCorpus.
func (s *IMDbSource) Load(ctx context.Context) ([]recommend.RawItem, error) {
	if err := s.Verify(); err != nil {
		return nil, err
	}

	db, err := sql.Open("duckdb", s.dsn())
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()

	query, args := s.query()

	start := time.Now()
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordDBQuery("SELECT", "imdb_movies", time.Since(start), err)
		return nil, fmt.Errorf("query imdb movies: %w", err)
	}
	defer rows.Close()

	var items []recommend.RawItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			metrics.RecordDBQuery("SELECT", "imdb_movies", time.Since(start), err)
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		metrics.RecordDBQuery("SELECT", "imdb_movies", time.Since(start), err)
		return nil, fmt.Errorf("iterate imdb movies: %w", err)
	}
	metrics.RecordDBQuery("SELECT", "imdb_movies", time.Since(start), nil)

	if len(items) == 0 {
		return nil, recommend.ErrEmptyCorpus
	}

	s.logger.Info().
		Int("movies", len(items)).
		Dur("duration", time.Since(start)).
		Msg("imdb catalog loaded")
	return items, nil
}

// dsn opens an in-memory database; the TSV files are read in place.
func (s *IMDbSource) dsn() string {
	var params []string
	if s.cfg.Threads > 0 {
		params = append(params, fmt.Sprintf("threads=%d", s.cfg.Threads))
	}
	if s.cfg.MaxMemory != "" {
		params = append(params, "max_memory="+s.cfg.MaxMemory)
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + strings.Join(params, "&")
}

func (s *IMDbSource) query() (string, []any) {
	files := s.Files()
	placeholders := make([]string, len(s.cfg.CastCategories))
	args := make([]any, len(s.cfg.CastCategories))
	for i, c := range s.cfg.CastCategories {
		placeholders[i] = "?"
		args[i] = c
	}

	q := fmt.Sprintf(`
WITH
basics AS (
	SELECT tconst, primaryTitle, genres
	FROM %s
	WHERE titleType = 'movie'
),
ratings AS (
	SELECT tconst,
	       TRY_CAST(averageRating AS DOUBLE) AS averageRating,
	       TRY_CAST(numVotes AS BIGINT) AS numVotes
	FROM %s
),
crew AS (
	SELECT tconst, NULLIF(split_part(directors, ',', 1), '') AS director_id
	FROM %s
),
names AS (
	SELECT nconst, primaryName FROM %s
),
cast_lists AS (
	SELECT p.tconst,
	       string_agg(n.primaryName, '%s' ORDER BY TRY_CAST(p.ordering AS INTEGER)) AS cast_names
	FROM %s p
	JOIN names n ON n.nconst = p.nconst
	WHERE p.category IN (%s) AND n.primaryName IS NOT NULL
	GROUP BY p.tconst
)
SELECT b.tconst, b.primaryTitle,
       COALESCE(r.numVotes, 0), COALESCE(r.averageRating, 0),
       dn.primaryName, b.genres, c.cast_names
FROM basics b
JOIN ratings r ON r.tconst = b.tconst
JOIN crew cr ON cr.tconst = b.tconst
LEFT JOIN names dn ON dn.nconst = cr.director_id
LEFT JOIN cast_lists c ON c.tconst = b.tconst
ORDER BY b.tconst`,
		readTSV(files[FileTitleBasics]),
		readTSV(files[FileTitleRatings]),
		readTSV(files[FileTitleCrew]),
		readTSV(files[FileNameBasics]),
		listSeparator,
		readTSV(files[FileTitlePrincipals]),
		strings.Join(placeholders, ", "),
	)
	return q, args
}

// readTSV returns a read_csv call for an IMDb dump: tab separated, unquoted,
// \N for null, every column as text.
func readTSV(path string) string {
	return fmt.Sprintf(`read_csv(%s, delim='\t', header=true, quote='', escape='', nullstr='\N', all_varchar=true)`,
		quoteLiteral(path))
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(rows rowScanner) (recommend.RawItem, error) {
	var (
		id, title        string
		votes            int64
		rating           float64
		director, genres sql.NullString
		castNames        sql.NullString
	)
	if err := rows.Scan(&id, &title, &votes, &rating, &director, &genres, &castNames); err != nil {
		return recommend.RawItem{}, fmt.Errorf("scan imdb movie: %w", err)
	}

	item := recommend.RawItem{
		ID:            id,
		Title:         title,
		NumVotes:      votes,
		AverageRating: rating,
		Cast:          splitField(castNames, listSeparator),
		Genres:        splitField(genres, ","),
		Keywords:      recommend.Missing(),
		Directors:     recommend.Missing(),
	}
	if director.Valid && director.String != "" {
		item.Directors = recommend.Scalar(director.String)
	}
	return item, nil
}

func splitField(v sql.NullString, sep string) recommend.Field {
	if !v.Valid || v.String == "" {
		return recommend.Missing()
	}
	return recommend.List(strings.Split(v.String, sep)...)
}
