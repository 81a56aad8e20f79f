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

// This file defines the MovieReportService, the read-only consumer of the
// stored schema. It runs the parameterized read queries against the store
// and returns plain result structs for the API layer to render. It never
// writes; the pipeline owns all mutation.
package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// MovieReportService encapsulates read access to the movie database.
type MovieReportService struct {
	DB *gorm.DB
}

// TopMovie is one row of the top-rated listing.
type TopMovie struct {
	Title       string  `json:"title"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   float64 `json:"vote_count"`
	Popularity  float64 `json:"popularity"`
	Genres      string  `json:"genres"`
}

// GenreStat is one aggregate row per distinct joined genre string.
type GenreStat struct {
	Genres        string  `json:"genres"`
	MovieCount    int     `json:"movie_count"`
	AvgRating     float64 `json:"avg_rating"`
	AvgPopularity float64 `json:"avg_popularity"`
}

// YearlyTrend is one aggregate row per release year.
type YearlyTrend struct {
	ReleaseYear   int     `json:"release_year"`
	MovieCount    int     `json:"movie_count"`
	AvgRating     float64 `json:"avg_rating"`
	AvgPopularity float64 `json:"avg_popularity"`
}

// SearchResult is one row of a title/genre substring search.
type SearchResult struct {
	Title       string  `json:"title"`
	ReleaseYear *int    `json:"release_year"`
	Genres      string  `json:"genres"`
	VoteAverage float64 `json:"vote_average"`
	Popularity  float64 `json:"popularity"`
}

// Summary holds the database-wide statistics. Average and year fields are
// pointers because they are undefined over an empty table.
type Summary struct {
	TotalMovies             int      `json:"total_movies"`
	UniqueGenreCombinations int      `json:"unique_genre_combinations"`
	AverageRating           *float64 `json:"average_rating"`
	EarliestYear            *int     `json:"earliest_year"`
	LatestYear              *int     `json:"latest_year"`
	YearRange               string   `json:"year_range"`
}

// TopMovies returns up to limit movies whose vote_count exceeds the
// dataset average, best-rated first.
func (s *MovieReportService) TopMovies(ctx context.Context, limit int) ([]TopMovie, error) {
	out := make([]TopMovie, 0, limit)
	if err := s.DB.WithContext(ctx).Raw(QryTopMovies, limit).Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("top movies query: %w", err)
	}
	return out, nil
}

// GenreStatistics returns per-genre-string aggregates, most populous
// first.
func (s *MovieReportService) GenreStatistics(ctx context.Context) ([]GenreStat, error) {
	out := make([]GenreStat, 0)
	if err := s.DB.WithContext(ctx).Raw(QryGenreStats).Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("genre statistics query: %w", err)
	}
	return out, nil
}

// YearlyTrends returns per-year aggregates, most recent year first.
func (s *MovieReportService) YearlyTrends(ctx context.Context) ([]YearlyTrend, error) {
	out := make([]YearlyTrend, 0)
	if err := s.DB.WithContext(ctx).Raw(QryYearlyTrends).Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("yearly trends query: %w", err)
	}
	return out, nil
}

// Search performs a case-insensitive substring search over title and the
// joined genre string.
func (s *MovieReportService) Search(ctx context.Context, keyword string) ([]SearchResult, error) {
	pattern := "%" + keyword + "%"
	out := make([]SearchResult, 0)
	if err := s.DB.WithContext(ctx).Raw(QrySearchMovies, pattern, pattern).Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	return out, nil
}

// GetSummary collects the database-wide statistics: row count, distinct
// genre-string count, average rating, and the known release-year range.
func (s *MovieReportService) GetSummary(ctx context.Context) (*Summary, error) {
	db := s.DB.WithContext(ctx)
	out := &Summary{}

	var count struct{ Count int }
	if err := db.Raw(QryMovieCount).Scan(&count).Error; err != nil {
		return nil, fmt.Errorf("movie count query: %w", err)
	}
	out.TotalMovies = count.Count

	if err := db.Raw(QryGenreComboCount).Scan(&count).Error; err != nil {
		return nil, fmt.Errorf("genre combination count query: %w", err)
	}
	out.UniqueGenreCombinations = count.Count

	var avg struct{ Avg *float64 }
	if err := db.Raw(QryAvgRating).Scan(&avg).Error; err != nil {
		return nil, fmt.Errorf("average rating query: %w", err)
	}
	out.AverageRating = avg.Avg

	var years struct {
		Earliest *int
		Latest   *int
	}
	if err := db.Raw(QryYearRange).Scan(&years).Error; err != nil {
		return nil, fmt.Errorf("year range query: %w", err)
	}
	out.EarliestYear = years.Earliest
	out.LatestYear = years.Latest
	if years.Earliest != nil && years.Latest != nil {
		out.YearRange = fmt.Sprintf("%d - %d", *years.Earliest, *years.Latest)
	}

	return out, nil
}
