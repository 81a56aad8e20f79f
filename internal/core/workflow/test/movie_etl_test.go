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

// Package workflow_test contains the end-to-end test for the movie ETL
// workflow: a fake catalog on one side, an in-memory SQLite database on
// the other, and the full three-stage chain in between.
package workflow_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/contrib/bridges/otelslog"

	"github.com/cinefeed/movie-etl/internal/core/services"
	"github.com/cinefeed/movie-etl/internal/core/workflow"
	"github.com/cinefeed/movie-etl/internal/store"
	"github.com/cinefeed/movie-etl/internal/telemetry"
	test "github.com/cinefeed/movie-etl/internal/testutil"
	"github.com/cinefeed/movie-etl/internal/tmdb"
)

const tName = "github.com/cinefeed/movie-etl/tests/workflow"

var logger = otelslog.NewLogger(tName)

// TestMain initializes logging and telemetry once for the package and
// flushes the telemetry pipeline after the run.
func TestMain(m *testing.M) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := test.GetConfig()

	telemetry.SetupLogging()

	shutdown, err := telemetry.SetupOpenTelemetry(ctx, cfg)
	if err != nil {
		panic(err)
	}
	logger.Info("completed test setup")

	exitCode := m.Run()

	if err := shutdown(ctx); err != nil {
		logger.Error("failed to shutdown telemetry", "error", err)
	}
	os.Exit(exitCode)
}

// fakeCatalog serves two popular pages of one movie each, with the second
// page's item failing enrichment so the graceful-degradation path is part
// of the end-to-end run.
type fakeCatalog struct{}

func (f *fakeCatalog) FetchPopularPage(_ context.Context, page int) ([]*tmdb.ItemSummary, error) {
	strPtr := func(s string) *string { return &s }
	f64Ptr := func(v float64) *float64 { return &v }
	i64Ptr := func(v int64) *int64 { return &v }

	switch page {
	case 1:
		return []*tmdb.ItemSummary{{
			ID:          10,
			Title:       "First Feature",
			ReleaseDate: strPtr("2019-03-01"),
			Popularity:  f64Ptr(40),
			VoteAverage: f64Ptr(7.5),
			VoteCount:   i64Ptr(800),
		}, {
			ID:          20,
			Title:       "Second Feature",
			ReleaseDate: strPtr("2021-09-10"),
			Popularity:  f64Ptr(60),
			VoteAverage: f64Ptr(6.5),
			VoteCount:   i64Ptr(200),
		}}, nil
	default:
		return []*tmdb.ItemSummary{{ID: 30, Title: "Unenrichable"}}, nil
	}
}

func (f *fakeCatalog) FetchMovieDetail(_ context.Context, id int64) (*tmdb.ItemDetail, error) {
	if id == 30 {
		return nil, &tmdb.HTTPError{URL: "fake", StatusCode: 404}
	}

	f64Ptr := func(v float64) *float64 { return &v }
	i64Ptr := func(v int64) *int64 { return &v }

	d := &tmdb.ItemDetail{
		Runtime: f64Ptr(100 + float64(id)),
		Budget:  i64Ptr(1000 * id),
		Revenue: i64Ptr(3000 * id),
	}
	d.Genres = []*tmdb.Genre{{Name: "Drama"}}
	if id == 10 {
		d.Genres = append(d.Genres, &tmdb.Genre{Name: "Action"})
	}
	d.Credits.Crew = []*tmdb.CrewMember{{Name: "Dana Director", Job: "Director"}}
	d.Credits.Cast = []*tmdb.CastMember{{Name: "Lead Actor"}}
	d.Keywords.Keywords = []*tmdb.Keyword{{Name: "heist"}}
	return d, nil
}

// TestMovieETLWorkflow runs the whole pipeline against the fake catalog
// and asserts on what a reader of the resulting database sees.
func TestMovieETLWorkflow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := test.GetConfig()
	cfg.Database.Path = "file:etl-workflow?mode=memory&cache=shared"
	cfg.TMDB.PageCount = 2

	// Hold a connection so the shared in-memory database outlives the
	// load stage's own open/close cycle.
	holder, err := store.Open(cfg.Database.Path)
	test.HandleErr(err, t)
	defer func() { _ = store.Close(holder) }()

	etl := workflow.NewMovieETLWorkflow(cfg, &fakeCatalog{})
	test.HandleErr(etl.Run(ctx, cfg.TMDB.PageCount), t)

	// Two of the three catalog items survived enrichment.
	var movieCount, featureCount int
	test.HandleErr(holder.Raw(`SELECT COUNT(*) FROM movies`).Scan(&movieCount).Error, t)
	test.HandleErr(holder.Raw(`SELECT COUNT(*) FROM movie_features`).Scan(&featureCount).Error, t)
	assert.Equal(t, 2, movieCount)
	assert.Equal(t, 2, featureCount)

	// The loaded rows are readable through the report service.
	svc := &services.MovieReportService{DB: holder}

	results, err := svc.Search(ctx, "feature")
	test.HandleErr(err, t)
	assert.Len(t, results, 2)

	stats, err := svc.GenreStatistics(ctx)
	test.HandleErr(err, t)
	assert.Len(t, stats, 2)

	sum, err := svc.GetSummary(ctx)
	test.HandleErr(err, t)
	assert.Equal(t, 2, sum.TotalMovies)
	assert.Equal(t, "2019 - 2021", sum.YearRange)

	// Rerunning the pipeline replaces rather than appends.
	test.HandleErr(etl.Run(ctx, cfg.TMDB.PageCount), t)
	test.HandleErr(holder.Raw(`SELECT COUNT(*) FROM movies`).Scan(&movieCount).Error, t)
	assert.Equal(t, 2, movieCount)
}
