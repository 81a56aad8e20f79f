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

// Package model defines the core data structures for the pipeline. This
// file holds MovieRecord, the raw flat record the extractor assembles from
// one summary item plus its detail payload. A record exists only when both
// the summary and the detail call for that item succeeded. Nullable fields
// are pointers: nil means the API omitted the value, which is distinct
// from zero or an empty string. List-valued fields are comma-joined text
// in the API's order; absence yields the empty string.
package model

// MovieRecord is one raw, fully enriched catalog item.
type MovieRecord struct {
	MovieID     int64    // Unique key within a pipeline run.
	Title       string   // Movie title from the summary item.
	ReleaseDate *string  // Raw calendar date text ("2006-01-02"); nil if absent.
	Popularity  float64  // Popularity score, >= 0.
	VoteAverage float64  // Average vote on the 0-10 scale.
	VoteCount   int64    // Number of votes, >= 0.
	Genres      string   // Comma-joined genre names in API order.
	Runtime     *float64 // Runtime in minutes; nil if absent.
	Budget      *int64   // Budget in currency units; nil if absent.
	Revenue     *int64   // Revenue in currency units; nil if absent.
	Director    *string  // First crew member whose job is "Director"; nil if none.
	Cast        string   // Comma-joined names of up to 5 leading cast members.
	Keywords    string   // Comma-joined keyword names in API order.
}
