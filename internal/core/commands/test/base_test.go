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

// Package commands_test contains the test suite for the pipeline stage
// commands. This file provides the shared setup: TestMain initializes
// configuration, logging and telemetry once for the whole package, and
// the helpers here build chain contexts and fake catalog responses used
// across the stage tests.
package commands_test

import (
	"context"
	"os"
	"testing"

	"github.com/cinefeed/movie-etl/internal/config"
	"github.com/cinefeed/movie-etl/internal/core/cor"
	"github.com/cinefeed/movie-etl/internal/core/model"
	"github.com/cinefeed/movie-etl/internal/telemetry"
	test "github.com/cinefeed/movie-etl/internal/testutil"
	"github.com/cinefeed/movie-etl/internal/tmdb"
)

// Shared resources for the test suite, initialized once in TestMain.
var (
	ctx context.Context
	cfg *config.Config
)

// TestMain sets up configuration and telemetry for every test in the
// package and tears the telemetry down after the run.
func TestMain(m *testing.M) {
	var cancel context.CancelFunc
	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()

	cfg = test.GetConfig()

	telemetry.SetupLogging()

	shutdown, err := telemetry.SetupOpenTelemetry(ctx, cfg)
	if err != nil {
		panic(err)
	}

	exitCode := m.Run()

	if err := shutdown(ctx); err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}

// newChainContext builds a chain context carrying the suite's Go context
// and the given input value under the default piping key.
func newChainContext(input interface{}) cor.Context {
	chCtx := cor.NewBaseContext()
	chCtx.SetContext(ctx)
	chCtx.Add(cor.CtxIn, input)
	return chCtx
}

// strPtr, f64Ptr and i64Ptr build pointers for optional payload fields.
func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func i64Ptr(i int64) *int64     { return &i }

// summary builds a fully-populated catalog summary item.
func summary(id int64, title string, date string, pop, avg float64, votes int64) *tmdb.ItemSummary {
	return &tmdb.ItemSummary{
		ID:          id,
		Title:       title,
		ReleaseDate: strPtr(date),
		Popularity:  f64Ptr(pop),
		VoteAverage: f64Ptr(avg),
		VoteCount:   i64Ptr(votes),
	}
}

// detail builds a catalog detail payload with the given genres and a
// standard credits block.
func detail(runtime float64, budget, revenue int64, genres ...string) *tmdb.ItemDetail {
	d := &tmdb.ItemDetail{
		Runtime: f64Ptr(runtime),
		Budget:  i64Ptr(budget),
		Revenue: i64Ptr(revenue),
	}
	for _, name := range genres {
		d.Genres = append(d.Genres, &tmdb.Genre{Name: name})
	}
	d.Credits.Crew = []*tmdb.CrewMember{
		{Name: "Pat Producer", Job: "Producer"},
		{Name: "Dana Director", Job: "Director"},
	}
	d.Credits.Cast = []*tmdb.CastMember{{Name: "Lead Actor"}}
	d.Keywords.Keywords = []*tmdb.Keyword{{Name: "heist"}}
	return d
}

// record builds a raw movie record for transformer tests. Optional fields
// default to present; tests null them out explicitly where the case needs
// it.
func record(id int64, title, date, genres string, runtime float64, budget, revenue int64, pop, avg float64, votes int64) *model.MovieRecord {
	return &model.MovieRecord{
		MovieID:     id,
		Title:       title,
		ReleaseDate: strPtr(date),
		Popularity:  pop,
		VoteAverage: avg,
		VoteCount:   votes,
		Genres:      genres,
		Runtime:     f64Ptr(runtime),
		Budget:      i64Ptr(budget),
		Revenue:     i64Ptr(revenue),
		Cast:        "Lead Actor",
		Keywords:    "heist",
	}
}
