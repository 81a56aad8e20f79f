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

// Package tmdb implements the catalog client for the external movie API.
// This file defines the typed response schema. Fields the API may omit are
// declared as pointers so absence is represented as nil rather than a zero
// value; list-valued fields decode to empty slices. Every field access
// downstream is therefore a checked lookup with explicit null propagation
// instead of an arbitrary key probe into untyped JSON.
package tmdb

// ItemSummary is one entry of a "popular movies" page.
type ItemSummary struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	ReleaseDate *string  `json:"release_date"`
	Popularity  *float64 `json:"popularity"`
	VoteAverage *float64 `json:"vote_average"`
	VoteCount   *int64   `json:"vote_count"`
}

// popularPageResponse is the envelope of the paginated popular listing.
type popularPageResponse struct {
	Page    int            `json:"page"`
	Results []*ItemSummary `json:"results"`
}

// Genre is a single genre entry on a movie detail.
type Genre struct {
	Name string `json:"name"`
}

// CrewMember is one crew credit. Job distinguishes directors, writers, etc.
type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// CastMember is one cast credit, in the API's billing order.
type CastMember struct {
	Name string `json:"name"`
}

// Credits holds the crew and cast lists embedded in a detail response when
// it is requested with append_to_response=credits.
type Credits struct {
	Crew []*CrewMember `json:"crew"`
	Cast []*CastMember `json:"cast"`
}

// KeywordList holds the keyword names embedded in a detail response when it
// is requested with append_to_response=keywords.
type KeywordList struct {
	Keywords []*Keyword `json:"keywords"`
}

// Keyword is a single keyword entry.
type Keyword struct {
	Name string `json:"name"`
}

// ItemDetail is the per-movie detail payload, including the credits and
// keywords sub-resources fetched in the same call.
type ItemDetail struct {
	Genres   []*Genre    `json:"genres"`
	Runtime  *float64    `json:"runtime"`
	Budget   *int64      `json:"budget"`
	Revenue  *int64      `json:"revenue"`
	Credits  Credits     `json:"credits"`
	Keywords KeywordList `json:"keywords"`
}
