// Copyright 2025 CineFeed Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file defines the load stage of the ETL pipeline.
//
// Logic Flow:
// The loader replaces, never appends: both the movies table and the
// movie_features table are dropped and recreated inside one transaction,
// so a repeated run leaves exactly one copy of each row and a failed run
// leaves the previous contents untouched. The feature table's schema is
// dynamic (five scalar columns plus one column per genre token observed
// in this run's dataset), so it is created and filled with generated SQL
// rather than a static gorm model. After both tables are written the two
// derived views are created with IF NOT EXISTS semantics:
//
//   - top_rated_movies: rows whose vote_count exceeds the dataset average,
//     ordered by vote_average descending, capped at 100;
//   - genre_stats: one row per distinct joined genre string with movie
//     count and average rating/popularity. The view deliberately groups by
//     the joined string (so "Action,Drama" and "Drama,Action" are distinct
//     groups) even though the feature table one-hot-expands individual
//     tokens; the two behaviors are part of the observed contract.
//
// Any storage failure is fatal to the run.
package commands

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/cinefeed/movie-etl/internal/core/cor"
	"github.com/cinefeed/movie-etl/internal/core/model"
	"github.com/cinefeed/movie-etl/internal/store"
)

const (
	// viewTopRated keeps the exact shape of the original view: the filter
	// compares against the dataset-wide average vote count and the result
	// is capped at 100 rows.
	viewTopRated = `
CREATE VIEW IF NOT EXISTS top_rated_movies AS
SELECT movie_id, title, vote_average, vote_count, popularity
FROM movies
WHERE vote_count > (SELECT AVG(vote_count) FROM movies)
ORDER BY vote_average DESC
LIMIT 100`

	// viewGenreStats groups by the joined genre string, not by token.
	viewGenreStats = `
CREATE VIEW IF NOT EXISTS genre_stats AS
SELECT
    genres,
    COUNT(*) as movie_count,
    AVG(vote_average) as avg_rating,
    AVG(popularity) as avg_popularity
FROM movies
GROUP BY genres`
)

// movieRow is the gorm mapping for one row of the movies table.
type movieRow struct {
	MovieID     int64      `gorm:"column:movie_id;primaryKey"`
	Title       string     `gorm:"column:title"`
	ReleaseDate *time.Time `gorm:"column:release_date"`
	ReleaseYear *int       `gorm:"column:release_year"`
	Popularity  float64    `gorm:"column:popularity"`
	VoteAverage float64    `gorm:"column:vote_average"`
	VoteCount   float64    `gorm:"column:vote_count"`
	Genres      string     `gorm:"column:genres"`
	Runtime     float64    `gorm:"column:runtime"`
	Budget      int64      `gorm:"column:budget"`
	Revenue     int64      `gorm:"column:revenue"`
	ROI         float64    `gorm:"column:roi"`
	Director    *string    `gorm:"column:director"`
	Cast        string     `gorm:"column:cast"`
	Keywords    string     `gorm:"column:keywords"`
}

// TableName pins the gorm table name to the original schema.
func (movieRow) TableName() string { return "movies" }

// MoviePersistToSQLite is the command that writes the dataset into the
// SQLite store. Its input is *model.Dataset; it emits nothing.
type MoviePersistToSQLite struct {
	cor.BaseCommand
	dbPath string
}

// NewMoviePersistToSQLite creates the load command for the given database
// path. The connection itself is acquired per execution and released when
// the load finishes.
func NewMoviePersistToSQLite(name string, dbPath string) *MoviePersistToSQLite {
	return &MoviePersistToSQLite{BaseCommand: *cor.NewBaseCommand(name), dbPath: dbPath}
}

// IsExecutable requires the transformed dataset on the context.
func (c *MoviePersistToSQLite) IsExecutable(context cor.Context) bool {
	if context == nil || context.GetContext() == nil {
		return false
	}
	_, ok := context.Get(c.GetInputParam()).(*model.Dataset)
	return ok
}

// Execute opens the store, replaces both tables transactionally, and
// creates the derived views. A zero-row dataset still produces both
// (empty) tables and both views.
func (c *MoviePersistToSQLite) Execute(chCtx cor.Context) {
	ctx := chCtx.GetContext()
	dataset := chCtx.Get(c.GetInputParam()).(*model.Dataset)

	db, err := store.Open(c.dbPath)
	if err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		chCtx.AddError(c.GetName(), err)
		return
	}
	defer func() {
		if err := store.Close(db); err != nil {
			slog.WarnContext(ctx, "failed to close store", "error", err)
		}
	}()

	if err := Load(db.WithContext(ctx), dataset); err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		chCtx.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(ctx, 1)
	slog.InfoContext(ctx, "load complete",
		"path", c.dbPath, "movies", len(dataset.Movies), "feature_columns", len(dataset.Features.Columns))
}

// Load replaces the movies and movie_features tables with the dataset's
// contents and (re)creates the derived views. It is exported so tests and
// the reader-side fixtures can load a database without running the whole
// pipeline. The table replacement is atomic: either both tables are
// swapped or neither is.
func Load(db *gorm.DB, dataset *model.Dataset) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := replaceMovieTable(tx, dataset.Movies); err != nil {
			return err
		}
		if err := replaceFeatureTable(tx, dataset.Features); err != nil {
			return err
		}
		if err := tx.Exec(viewTopRated).Error; err != nil {
			return fmt.Errorf("create top_rated_movies view: %w", err)
		}
		if err := tx.Exec(viewGenreStats).Error; err != nil {
			return fmt.Errorf("create genre_stats view: %w", err)
		}
		return nil
	})
	if err != nil {
		return &store.StorageError{Op: "replace-tables", Err: err}
	}
	return nil
}

// replaceMovieTable drops and recreates the primary table, then inserts
// every enriched row.
func replaceMovieTable(tx *gorm.DB, movies []*model.EnrichedMovie) error {
	if err := tx.Migrator().DropTable(&movieRow{}); err != nil {
		return fmt.Errorf("drop movies table: %w", err)
	}
	if err := tx.Migrator().CreateTable(&movieRow{}); err != nil {
		return fmt.Errorf("create movies table: %w", err)
	}
	if len(movies) == 0 {
		return nil
	}

	rows := make([]movieRow, 0, len(movies))
	for _, m := range movies {
		rows = append(rows, movieRow{
			MovieID:     m.MovieID,
			Title:       m.Title,
			ReleaseDate: m.ReleaseDate,
			ReleaseYear: m.ReleaseYear,
			Popularity:  m.Popularity,
			VoteAverage: m.VoteAverage,
			VoteCount:   m.VoteCount,
			Genres:      m.Genres,
			Runtime:     m.Runtime,
			Budget:      m.Budget,
			Revenue:     m.Revenue,
			ROI:         m.ROI,
			Director:    m.Director,
			Cast:        m.Cast,
			Keywords:    m.Keywords,
		})
	}
	if err := tx.CreateInBatches(rows, 100).Error; err != nil {
		return fmt.Errorf("insert movies: %w", err)
	}
	return nil
}

// replaceFeatureTable drops and recreates the feature table with this
// run's dynamic column set, then inserts the rows positionally. The table
// intentionally has no id column; rows align with the movies table by
// position.
func replaceFeatureTable(tx *gorm.DB, features *model.FeatureTable) error {
	if err := tx.Exec(`DROP TABLE IF EXISTS movie_features`).Error; err != nil {
		return fmt.Errorf("drop movie_features table: %w", err)
	}

	quoted := make([]string, 0, len(features.Columns))
	for _, col := range features.Columns {
		quoted = append(quoted, quoteIdent(col))
	}

	createStmt := fmt.Sprintf(`CREATE TABLE movie_features (%s REAL)`,
		strings.Join(quoted, " REAL, "))
	if err := tx.Exec(createStmt).Error; err != nil {
		return fmt.Errorf("create movie_features table: %w", err)
	}

	if len(features.Rows) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(features.Columns)), ", ")
	insertStmt := fmt.Sprintf(`INSERT INTO movie_features (%s) VALUES (%s)`,
		strings.Join(quoted, ", "), placeholders)

	for _, row := range features.Rows {
		args := make([]interface{}, len(row))
		for i, v := range row {
			args[i] = v
		}
		if err := tx.Exec(insertStmt, args...).Error; err != nil {
			return fmt.Errorf("insert movie_features row: %w", err)
		}
	}
	return nil
}

// quoteIdent double-quotes an identifier for SQLite; genre tokens may
// contain spaces or other punctuation.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
