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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// extraction stage of the ETL pipeline.
//
// Logic Flow:
// The extractor drives the catalog client across pages 1..N in order. For
// every summary item on a page it fetches the item's detail payload and
// flattens the pair into one model.MovieRecord. Failures degrade
// asymmetrically and never abort the run:
//   - a failed page fetch skips that whole page (zero items contributed);
//   - a failed detail fetch skips that one item: the summary alone is
//     discarded, never emitted as a partial record.
//
// The output is the raw record set for the run, possibly partial, placed
// on the context for the transformation stage.
package commands

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cinefeed/movie-etl/internal/core/cor"
	"github.com/cinefeed/movie-etl/internal/core/model"
	"github.com/cinefeed/movie-etl/internal/tmdb"
)

// maxCastMembers is how many leading cast names are kept, in billing order.
const maxCastMembers = 5

// directorJob is the crew job title that identifies a director credit.
const directorJob = "Director"

// CatalogClient is the slice of the tmdb client the extractor depends on.
// Declaring it here keeps the command testable with a fake.
type CatalogClient interface {
	FetchPopularPage(ctx context.Context, page int) ([]*tmdb.ItemSummary, error)
	FetchMovieDetail(ctx context.Context, id int64) (*tmdb.ItemDetail, error)
}

// MovieExtractor is the command that assembles the raw record set. Its
// input is the page count (an int) and its output is []*model.MovieRecord.
type MovieExtractor struct {
	cor.BaseCommand
	client CatalogClient
}

// NewMovieExtractor creates the extraction command around a catalog client.
func NewMovieExtractor(name string, client CatalogClient) *MovieExtractor {
	return &MovieExtractor{BaseCommand: *cor.NewBaseCommand(name), client: client}
}

// IsExecutable requires the page count to be present on the context.
func (c *MovieExtractor) IsExecutable(context cor.Context) bool {
	if context == nil || context.GetContext() == nil {
		return false
	}
	_, ok := context.Get(c.GetInputParam()).(int)
	return ok
}

// Execute iterates the configured number of pages and emits the raw record
// set. Page order only matters for progress reporting; the dataset itself
// is order-independent downstream.
func (c *MovieExtractor) Execute(chCtx cor.Context) {
	ctx := chCtx.GetContext()
	pageCount := chCtx.Get(c.GetInputParam()).(int)

	records := make([]*model.MovieRecord, 0)
	for page := 1; page <= pageCount; page++ {
		summaries, err := c.client.FetchPopularPage(ctx, page)
		if err != nil {
			// A failed page contributes zero items; the run continues.
			slog.WarnContext(ctx, "skipping popular page after fetch failure",
				"page", page, "error", err)
			c.GetErrorCounter().Add(ctx, 1)
			continue
		}

		for _, summary := range summaries {
			detail, err := c.client.FetchMovieDetail(ctx, summary.ID)
			if err != nil {
				// A record requires successful enrichment to exist at all;
				// the bare summary is discarded.
				slog.WarnContext(ctx, "skipping movie after detail fetch failure",
					"movie_id", summary.ID, "error", err)
				c.GetErrorCounter().Add(ctx, 1)
				continue
			}
			records = append(records, buildRecord(summary, detail))
		}

		slog.InfoContext(ctx, "processed page", "page", page, "pages", pageCount)
	}

	c.GetSuccessCounter().Add(ctx, 1)
	slog.InfoContext(ctx, "extraction complete", "records", len(records))
	chCtx.Add(c.GetOutputParam(), records)
}

// buildRecord flattens one summary item and its detail payload into a raw
// record. Scalar fields absent from the payload stay nil; list-valued
// fields join to an empty string.
func buildRecord(summary *tmdb.ItemSummary, detail *tmdb.ItemDetail) *model.MovieRecord {
	rec := &model.MovieRecord{
		MovieID:     summary.ID,
		Title:       summary.Title,
		ReleaseDate: summary.ReleaseDate,
		Genres:      joinGenres(detail.Genres),
		Runtime:     detail.Runtime,
		Budget:      detail.Budget,
		Revenue:     detail.Revenue,
		Director:    firstDirector(detail.Credits.Crew),
		Cast:        leadingCast(detail.Credits.Cast),
		Keywords:    joinKeywords(detail.Keywords.Keywords),
	}
	if summary.Popularity != nil {
		rec.Popularity = *summary.Popularity
	}
	if summary.VoteAverage != nil {
		rec.VoteAverage = *summary.VoteAverage
	}
	if summary.VoteCount != nil {
		rec.VoteCount = *summary.VoteCount
	}
	return rec
}

// joinGenres joins genre names with commas, preserving API order.
func joinGenres(genres []*tmdb.Genre) string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return strings.Join(names, ",")
}

// firstDirector returns the name of the first crew member, in API order,
// whose job equals "Director", or nil when there is none.
func firstDirector(crew []*tmdb.CrewMember) *string {
	for _, member := range crew {
		if member.Job == directorJob {
			name := member.Name
			return &name
		}
	}
	return nil
}

// leadingCast joins the first five cast names in API order.
func leadingCast(cast []*tmdb.CastMember) string {
	limit := len(cast)
	if limit > maxCastMembers {
		limit = maxCastMembers
	}
	names := make([]string, 0, limit)
	for _, member := range cast[:limit] {
		names = append(names, member.Name)
	}
	return strings.Join(names, ",")
}

// joinKeywords joins keyword names with commas, preserving API order.
func joinKeywords(keywords []*tmdb.Keyword) string {
	names := make([]string, 0, len(keywords))
	for _, k := range keywords {
		names = append(names, k.Name)
	}
	return strings.Join(names, ",")
}
