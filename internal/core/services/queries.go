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

// Package services contains the business logic for reading the stored
// data. This file centralizes the SQL query strings used by the report
// service. Storing queries as constants in a dedicated file keeps them
// reviewable in one place; `?` placeholders are bound at runtime.
package services

const (
	// QryTopMovies mirrors the top_rated_movies view predicate but with a
	// caller-supplied row cap: only movies whose vote_count exceeds the
	// dataset-wide average qualify, best-rated first.
	QryTopMovies = `
SELECT title, vote_average, vote_count, popularity, genres
FROM movies
WHERE vote_count > (SELECT AVG(vote_count) FROM movies)
ORDER BY vote_average DESC
LIMIT ?`

	// QryGenreStats aggregates per distinct joined genre string, not per
	// genre token. This matches the genre_stats view's grouping. Averages are
	// rounded to two decimals for presentation.
	QryGenreStats = `
SELECT
    genres,
    COUNT(*) as movie_count,
    ROUND(AVG(vote_average), 2) as avg_rating,
    ROUND(AVG(popularity), 2) as avg_popularity
FROM movies
GROUP BY genres
ORDER BY movie_count DESC`

	// QryYearlyTrends aggregates per release year, most recent first. Rows
	// with an unknown release year are excluded.
	QryYearlyTrends = `
SELECT
    release_year,
    COUNT(*) as movie_count,
    ROUND(AVG(vote_average), 2) as avg_rating,
    ROUND(AVG(popularity), 2) as avg_popularity
FROM movies
WHERE release_year IS NOT NULL
GROUP BY release_year
ORDER BY release_year DESC`

	// QrySearchMovies is a case-insensitive substring search over both the
	// title and the joined genre string. Both placeholders receive the same
	// "%keyword%" pattern.
	QrySearchMovies = `
SELECT title, release_year, genres, vote_average, popularity
FROM movies
WHERE LOWER(title) LIKE LOWER(?)
OR LOWER(genres) LIKE LOWER(?)
ORDER BY vote_average DESC`

	// QryMovieCount counts the loaded rows.
	QryMovieCount = `SELECT COUNT(*) as count FROM movies`

	// QryGenreComboCount counts distinct joined genre strings ("Action,Drama"
	// and "Drama,Action" count separately, by contract with the schema).
	QryGenreComboCount = `SELECT COUNT(DISTINCT genres) as count FROM movies`

	// QryAvgRating averages the stored vote_average column, rounded to two
	// decimals. NULL on an empty table.
	QryAvgRating = `SELECT ROUND(AVG(vote_average), 2) as avg FROM movies`

	// QryYearRange returns the earliest and latest known release years.
	QryYearRange = `
SELECT
    MIN(release_year) as earliest,
    MAX(release_year) as latest
FROM movies
WHERE release_year IS NOT NULL`
)
