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

// Package services_test contains the test suite for the report service.
// The tests seed an in-memory SQLite database directly with known rows so
// every query's arithmetic and ordering can be asserted exactly, without
// running the pipeline.
package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/zeebo/assert"

	"github.com/cinefeed/movie-etl/internal/core/services"
	"github.com/cinefeed/movie-etl/internal/store"
	test "github.com/cinefeed/movie-etl/internal/testutil"
)

// seedRow is one movies-table fixture row. Only the columns the report
// queries touch are modeled.
type seedRow struct {
	MovieID     int64      `gorm:"column:movie_id;primaryKey"`
	Title       string     `gorm:"column:title"`
	ReleaseDate *time.Time `gorm:"column:release_date"`
	ReleaseYear *int       `gorm:"column:release_year"`
	Popularity  float64    `gorm:"column:popularity"`
	VoteAverage float64    `gorm:"column:vote_average"`
	VoteCount   float64    `gorm:"column:vote_count"`
	Genres      string     `gorm:"column:genres"`
}

func (seedRow) TableName() string { return "movies" }

// newReportService creates a uniquely named in-memory database, creates
// the movies table, inserts the given rows, and wraps the database in a
// report service.
func newReportService(t *testing.T, name string, rows []seedRow) *services.MovieReportService {
	db, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	test.HandleErr(err, t)
	t.Cleanup(func() {
		if err := store.Close(db); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	test.HandleErr(db.Migrator().CreateTable(&seedRow{}), t)
	if len(rows) > 0 {
		test.HandleErr(db.Create(&rows).Error, t)
	}
	return &services.MovieReportService{DB: db}
}

func intPtr(i int) *int { return &i }

// fixtureRows is the standard five-movie fixture. Vote counts average to
// 300, so exactly the rows above that line qualify as top rated.
func fixtureRows() []seedRow {
	return []seedRow{
		{MovieID: 1, Title: "Alpha Heist", ReleaseYear: intPtr(2020), Popularity: 50, VoteAverage: 8.5, VoteCount: 500, Genres: "Action,Drama"},
		{MovieID: 2, Title: "Beta Romance", ReleaseYear: intPtr(2020), Popularity: 30, VoteAverage: 7.0, VoteCount: 400, Genres: "Romance"},
		{MovieID: 3, Title: "Gamma Action", ReleaseYear: intPtr(2021), Popularity: 20, VoteAverage: 9.0, VoteCount: 350, Genres: "Action,Drama"},
		{MovieID: 4, Title: "Delta Quiet", ReleaseYear: intPtr(2021), Popularity: 10, VoteAverage: 6.0, VoteCount: 150, Genres: "Drama"},
		{MovieID: 5, Title: "Epsilon Undated", ReleaseYear: nil, Popularity: 40, VoteAverage: 5.0, VoteCount: 100, Genres: "documentary"},
	}
}

// TestTopMovies verifies the above-average vote-count filter, the rating
// ordering, and the caller-supplied limit.
func TestTopMovies(t *testing.T) {
	svc := newReportService(t, "reports-top", fixtureRows())
	ctx := context.Background()

	out, err := svc.TopMovies(ctx, 10)
	assert.NoError(t, err)

	// Average vote count is 300; rows with 500, 400 and 350 qualify,
	// ordered by vote average descending.
	assert.Equal(t, 3, len(out))
	assert.Equal(t, "Gamma Action", out[0].Title)
	assert.Equal(t, "Alpha Heist", out[1].Title)
	assert.Equal(t, "Beta Romance", out[2].Title)

	// The limit caps the result after filtering and ordering.
	out, err = svc.TopMovies(ctx, 2)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(out))
	assert.Equal(t, "Gamma Action", out[0].Title)
}

// TestGenreStatistics verifies grouping by the joined genre string and
// the two-decimal rounding of the averages.
func TestGenreStatistics(t *testing.T) {
	svc := newReportService(t, "reports-genres", fixtureRows())

	out, err := svc.GenreStatistics(context.Background())
	assert.NoError(t, err)

	// Four distinct joined strings; "Action,Drama" is one group of two,
	// the rest are singletons. The biggest group sorts first.
	assert.Equal(t, 4, len(out))
	assert.Equal(t, "Action,Drama", out[0].Genres)
	assert.Equal(t, 2, out[0].MovieCount)
	// Rating (8.5 + 9.0) / 2 and popularity (50 + 20) / 2.
	assert.Equal(t, 8.75, out[0].AvgRating)
	assert.Equal(t, 35.0, out[0].AvgPopularity)
}

// TestYearlyTrends verifies per-year aggregation, the exclusion of rows
// without a release year, and the descending year order.
func TestYearlyTrends(t *testing.T) {
	svc := newReportService(t, "reports-years", fixtureRows())

	out, err := svc.YearlyTrends(context.Background())
	assert.NoError(t, err)

	// 2020 and 2021 only; the undated row contributes to neither.
	assert.Equal(t, 2, len(out))
	assert.Equal(t, 2021, out[0].ReleaseYear)
	assert.Equal(t, 2, out[0].MovieCount)
	assert.Equal(t, 7.5, out[0].AvgRating) // (9.0 + 6.0) / 2
	assert.Equal(t, 2020, out[1].ReleaseYear)
	assert.Equal(t, 2, out[1].MovieCount)
}

// TestSearch verifies the case-insensitive substring match over both the
// title and the joined genre string.
func TestSearch(t *testing.T) {
	svc := newReportService(t, "reports-search", fixtureRows())
	ctx := context.Background()

	// Title match, case-insensitive.
	out, err := svc.Search(ctx, "alpha")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out))
	assert.Equal(t, "Alpha Heist", out[0].Title)

	// Genre match: "drama" hits the three Drama rows regardless of case,
	// ordered by vote average descending.
	out, err = svc.Search(ctx, "drama")
	assert.NoError(t, err)
	assert.Equal(t, 3, len(out))
	assert.Equal(t, "Gamma Action", out[0].Title)

	// The release year is nullable in search results.
	out, err = svc.Search(ctx, "documentary")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out))
	assert.Nil(t, out[0].ReleaseYear)

	// No match yields an empty, non-nil slice.
	out, err = svc.Search(ctx, "zzzz")
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out))
}

// TestGetSummary verifies the database-wide statistics over the fixture.
func TestGetSummary(t *testing.T) {
	svc := newReportService(t, "reports-summary", fixtureRows())

	out, err := svc.GetSummary(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, 5, out.TotalMovies)
	assert.Equal(t, 4, out.UniqueGenreCombinations)
	assert.NotNil(t, out.AverageRating)
	assert.Equal(t, 7.1, *out.AverageRating) // (8.5+7+9+6+5)/5 rounded
	assert.Equal(t, 2020, *out.EarliestYear)
	assert.Equal(t, 2021, *out.LatestYear)
	assert.Equal(t, "2020 - 2021", out.YearRange)
}

// TestGetSummaryEmpty verifies the nullable fields over an empty table:
// averages and year bounds are nil and the formatted range stays empty.
func TestGetSummaryEmpty(t *testing.T) {
	svc := newReportService(t, "reports-empty", nil)

	out, err := svc.GetSummary(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, 0, out.TotalMovies)
	assert.Equal(t, 0, out.UniqueGenreCombinations)
	assert.Nil(t, out.AverageRating)
	assert.Nil(t, out.EarliestYear)
	assert.Nil(t, out.LatestYear)
	assert.Equal(t, "", out.YearRange)
}
