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

// This file holds the transformed shapes: EnrichedMovie (the cleaned
// primary-table row) and FeatureTable (the numeric feature matrix). Both
// are produced fresh each run and never mutated afterwards; the loader
// replaces whatever a previous run stored.
package model

import "time"

// ScalarFeatureColumns lists the five scalar columns that are min-max
// normalized jointly and lead the feature table, in their fixed order.
var ScalarFeatureColumns = []string{"popularity", "vote_average", "vote_count", "runtime", "roi"}

// EnrichedMovie is one row of the cleaned primary table. The five scalar
// feature columns carry their normalized values: the transformation
// rescales them in place, so the stored table and the feature table share
// the same numbers (ordering-based queries are unaffected because min-max
// scaling is monotonic).
type EnrichedMovie struct {
	MovieID     int64
	Title       string
	ReleaseDate *time.Time // Parsed calendar date; nil if absent or unparsable.
	ReleaseYear *int       // Year component of ReleaseDate; nil alongside it.
	Popularity  float64    // Normalized into [0,1].
	VoteAverage float64    // Normalized into [0,1].
	VoteCount   float64    // Normalized into [0,1].
	Genres      string     // Joined genre string, unchanged from the raw record.
	Runtime     float64    // Mean-imputed, then normalized into [0,1].
	Budget      int64      // Zero-imputed, not normalized.
	Revenue     int64      // Zero-imputed, not normalized.
	ROI         float64    // (revenue-budget)/budget (0 when budget is 0), then normalized.
	Director    *string
	Cast        string
	Keywords    string
}

// FeatureTable is the numeric feature matrix, row-aligned by position with
// the enriched movie slice it was derived from. Columns holds the five
// scalar names followed by one column per distinct genre token observed
// across the dataset; Rows is row-major. There is no id column, by
// contract with the original schema.
type FeatureTable struct {
	Columns []string
	Rows    [][]float64
}

// Dataset bundles the two outputs of the transformation stage so they can
// travel through the pipeline as a single value.
type Dataset struct {
	Movies   []*EnrichedMovie
	Features *FeatureTable
}
