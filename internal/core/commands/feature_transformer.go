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

// This file defines the transformation stage of the ETL pipeline.
//
// Logic Flow, in an order that matters for the downstream statistics:
//  1. Parse release_date; unparsable values become nil, release_year is
//     the year component or nil.
//  2. Impute runtime with the arithmetic mean of the non-null runtimes,
//     computed before imputation (0 when every runtime is null).
//  3. Impute budget and revenue with 0.
//  4. Compute roi = (revenue - budget) / budget, or 0 when budget is 0.
//  5. Min-max normalize popularity, vote_average, vote_count, runtime and
//     roi jointly over the whole dataset; a constant column normalizes to
//     all zeros rather than dividing by zero.
//  6. Expand the genres string into one binary column per distinct token
//     across the dataset (case-sensitive, exact, no trimming), columns in
//     lexicographic order.
//
// The normalized scalars overwrite the enriched rows' values, so the
// primary table and the feature table carry the same numbers. An empty
// record set yields empty outputs (the feature table still names its five
// scalar columns) without error.
package commands

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/cinefeed/movie-etl/internal/core/cor"
	"github.com/cinefeed/movie-etl/internal/core/model"
)

// releaseDateLayout is the calendar date format the catalog API uses.
const releaseDateLayout = "2006-01-02"

// FeatureTransformer is the command that turns the raw record set into the
// cleaned primary table and the numeric feature table. Its input is
// []*model.MovieRecord and its output is *model.Dataset.
type FeatureTransformer struct {
	cor.BaseCommand
}

// NewFeatureTransformer creates the transformation command.
func NewFeatureTransformer(name string) *FeatureTransformer {
	return &FeatureTransformer{BaseCommand: *cor.NewBaseCommand(name)}
}

// IsExecutable requires the raw record set on the context.
func (c *FeatureTransformer) IsExecutable(context cor.Context) bool {
	if context == nil || context.GetContext() == nil {
		return false
	}
	_, ok := context.Get(c.GetInputParam()).([]*model.MovieRecord)
	return ok
}

// Execute runs the transformation steps in order and emits the dataset.
func (c *FeatureTransformer) Execute(chCtx cor.Context) {
	ctx := chCtx.GetContext()
	records := chCtx.Get(c.GetInputParam()).([]*model.MovieRecord)

	dataset := transform(records)

	c.GetSuccessCounter().Add(ctx, 1)
	slog.InfoContext(ctx, "transformation complete",
		"rows", len(dataset.Movies), "feature_columns", len(dataset.Features.Columns))
	chCtx.Add(c.GetOutputParam(), dataset)
}

// transform is the pure transformation pipeline, separated from the
// command plumbing.
func transform(records []*model.MovieRecord) *model.Dataset {
	movies := make([]*model.EnrichedMovie, 0, len(records))

	// Step 2's mean is computed over the pre-imputation values only.
	runtimeMean := meanRuntime(records)

	for _, rec := range records {
		m := &model.EnrichedMovie{
			MovieID:     rec.MovieID,
			Title:       rec.Title,
			Popularity:  rec.Popularity,
			VoteAverage: rec.VoteAverage,
			VoteCount:   float64(rec.VoteCount),
			Genres:      rec.Genres,
			Director:    rec.Director,
			Cast:        rec.Cast,
			Keywords:    rec.Keywords,
		}
		m.ReleaseDate, m.ReleaseYear = parseReleaseDate(rec.ReleaseDate)
		if rec.Runtime != nil {
			m.Runtime = *rec.Runtime
		} else {
			m.Runtime = runtimeMean
		}
		if rec.Budget != nil {
			m.Budget = *rec.Budget
		}
		if rec.Revenue != nil {
			m.Revenue = *rec.Revenue
		}
		if m.Budget != 0 {
			m.ROI = float64(m.Revenue-m.Budget) / float64(m.Budget)
		}
		movies = append(movies, m)
	}

	normalizeScalars(movies)

	return &model.Dataset{
		Movies:   movies,
		Features: buildFeatureTable(movies),
	}
}

// parseReleaseDate parses the raw date text. Absent or malformed dates
// propagate as nil rather than surfacing an error.
func parseReleaseDate(raw *string) (*time.Time, *int) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(releaseDateLayout, *raw)
	if err != nil {
		return nil, nil
	}
	year := parsed.Year()
	return &parsed, &year
}

// meanRuntime averages the non-null runtimes; 0 when there are none.
func meanRuntime(records []*model.MovieRecord) float64 {
	var sum float64
	var n int
	for _, rec := range records {
		if rec.Runtime != nil {
			sum += *rec.Runtime
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// normalizeScalars min-max rescales the five scalar columns in place over
// the full dataset. A column with max == min maps every row to 0.
func normalizeScalars(movies []*model.EnrichedMovie) {
	if len(movies) == 0 {
		return
	}

	scalars := []struct {
		get func(*model.EnrichedMovie) float64
		set func(*model.EnrichedMovie, float64)
	}{
		{func(m *model.EnrichedMovie) float64 { return m.Popularity }, func(m *model.EnrichedMovie, v float64) { m.Popularity = v }},
		{func(m *model.EnrichedMovie) float64 { return m.VoteAverage }, func(m *model.EnrichedMovie, v float64) { m.VoteAverage = v }},
		{func(m *model.EnrichedMovie) float64 { return m.VoteCount }, func(m *model.EnrichedMovie, v float64) { m.VoteCount = v }},
		{func(m *model.EnrichedMovie) float64 { return m.Runtime }, func(m *model.EnrichedMovie, v float64) { m.Runtime = v }},
		{func(m *model.EnrichedMovie) float64 { return m.ROI }, func(m *model.EnrichedMovie, v float64) { m.ROI = v }},
	}

	for _, col := range scalars {
		min, max := col.get(movies[0]), col.get(movies[0])
		for _, m := range movies[1:] {
			v := col.get(m)
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		span := max - min
		for _, m := range movies {
			if span == 0 {
				col.set(m, 0)
				continue
			}
			col.set(m, (col.get(m)-min)/span)
		}
	}
}

// splitGenres splits a joined genre string into its tokens. Tokens are
// taken verbatim: comparison downstream is case-sensitive and untrimmed.
func splitGenres(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}

// buildFeatureTable assembles the feature matrix: the five normalized
// scalar columns followed by one binary column per distinct genre token,
// row-aligned with movies by position.
func buildFeatureTable(movies []*model.EnrichedMovie) *model.FeatureTable {
	seen := make(map[string]bool)
	tokens := make([]string, 0)
	for _, m := range movies {
		for _, tok := range splitGenres(m.Genres) {
			if !seen[tok] {
				seen[tok] = true
				tokens = append(tokens, tok)
			}
		}
	}
	sort.Strings(tokens)

	columns := append(append([]string{}, model.ScalarFeatureColumns...), tokens...)

	rows := make([][]float64, 0, len(movies))
	for _, m := range movies {
		row := make([]float64, 0, len(columns))
		row = append(row, m.Popularity, m.VoteAverage, m.VoteCount, m.Runtime, m.ROI)

		membership := make(map[string]bool)
		for _, tok := range splitGenres(m.Genres) {
			membership[tok] = true
		}
		for _, tok := range tokens {
			if membership[tok] {
				row = append(row, 1)
			} else {
				row = append(row, 0)
			}
		}
		rows = append(rows, row)
	}

	return &model.FeatureTable{Columns: columns, Rows: rows}
}
