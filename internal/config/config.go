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

// Package config defines the data structures for application configuration,
// loaded from TOML files. It covers the catalog API client, the SQLite
// destination, and the report server. There is no process-wide mutable
// state: the loaded Config struct is passed explicitly to the components
// that need it.
package config

import "time"

// Application holds general application settings.
type Application struct {
	Name string `toml:"name"` // The service name used in logs, traces and metrics.
}

// TMDB holds the settings for the external movie catalog API.
type TMDB struct {
	BaseURL           string `toml:"base_url"`            // The root URL of the catalog API (e.g. "https://api.themoviedb.org/3").
	APIKey            string `toml:"api_key"`             // The api_key query parameter sent with every request.
	PageCount         int    `toml:"page_count"`          // How many "popular" pages to extract per run.
	RequestCooldownMS int    `toml:"request_cooldown_ms"` // Minimum spacing between detail requests, in milliseconds.
	TimeoutInSeconds  int    `toml:"timeout_in_seconds"`  // Per-request HTTP timeout.
}

// RequestCooldown returns the inter-request spacing as a time.Duration.
func (t TMDB) RequestCooldown() time.Duration {
	return time.Duration(t.RequestCooldownMS) * time.Millisecond
}

// RequestTimeout returns the per-request HTTP timeout as a time.Duration.
func (t TMDB) RequestTimeout() time.Duration {
	return time.Duration(t.TimeoutInSeconds) * time.Second
}

// Database holds the settings for the structured store.
type Database struct {
	Path string `toml:"path"` // Filesystem path of the SQLite database file.
}

// Server holds the settings for the read-side report API.
type Server struct {
	Port int `toml:"port"` // TCP port the gin server listens on.
}

// Config is the top-level struct that aggregates all other configuration
// structs. It is populated by LoadConfig from a base TOML file plus an
// optional environment-specific override file.
type Config struct {
	Application Application `toml:"application"`
	TMDB        TMDB        `toml:"tmdb"`
	Database    Database    `toml:"database"`
	Server      Server      `toml:"server"`
}

// NewConfig creates a Config pre-populated with the defaults the original
// pipeline shipped with. Values from the TOML files overwrite these.
func NewConfig() *Config {
	cfg := &Config{}
	cfg.Application.Name = "movie-etl"
	cfg.TMDB.BaseURL = "https://api.themoviedb.org/3"
	cfg.TMDB.PageCount = 5
	cfg.TMDB.RequestCooldownMS = 250
	cfg.TMDB.TimeoutInSeconds = 30
	cfg.Database.Path = "movie_recommendations.db"
	cfg.Server.Port = 8080
	return cfg
}
