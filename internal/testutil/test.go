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

// Package test provides utility functions and sample data to support the
// application's test suite. It sets up a consistent test environment,
// loads the test-specific configuration, and supplies canned catalog API
// payloads for the extraction tests.
package test

import (
	"log"
	"os"
	"testing"

	"github.com/cinefeed/movie-etl/internal/config"
)

// StateManager acts as a simple in-memory cache for the application
// configuration during test runs, so the TOML files are parsed only once
// per test binary.
type StateManager struct {
	config *config.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is non-nil. It exists to reduce
// boilerplate error checking in tests.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// GetTestPopularPageText returns a hardcoded JSON payload matching one
// page of the catalog's "popular" listing, including a result with null
// optional fields.
func GetTestPopularPageText() string {
	return `{
  "page": 1,
  "results": [
    {
      "id": 27205,
      "title": "Inception",
      "release_date": "2010-07-15",
      "popularity": 83.5,
      "vote_average": 8.4,
      "vote_count": 34562
    },
    {
      "id": 99901,
      "title": "Obscure Short",
      "release_date": null,
      "popularity": null,
      "vote_average": null,
      "vote_count": null
    }
  ],
  "total_pages": 500
}`
}

// GetTestMovieDetailText returns a hardcoded JSON payload matching the
// catalog's movie detail response with credits and keywords appended.
func GetTestMovieDetailText() string {
	return `{
  "genres": [{ "id": 28, "name": "Action" }, { "id": 878, "name": "Science Fiction" }],
  "runtime": 148,
  "budget": 160000000,
  "revenue": 825532764,
  "credits": {
    "crew": [
      { "name": "Emma Thomas", "job": "Producer" },
      { "name": "Christopher Nolan", "job": "Director" },
      { "name": "Wally Pfister", "job": "Director of Photography" }
    ],
    "cast": [
      { "name": "Leonardo DiCaprio" },
      { "name": "Joseph Gordon-Levitt" },
      { "name": "Elliot Page" },
      { "name": "Tom Hardy" },
      { "name": "Ken Watanabe" },
      { "name": "Cillian Murphy" }
    ]
  },
  "keywords": {
    "keywords": [{ "id": 1, "name": "dream" }, { "id": 2, "name": "heist" }]
  }
}`
}

// SetupOS configures the environment variables the configuration loader
// depends on, directing it at the test override file
// (configs/.env.test.toml).
func SetupOS() (err error) {
	err = os.Setenv(config.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(config.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration. The
// configuration is loaded from the TOML files once and cached for
// subsequent calls.
func GetConfig() *config.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		cfg := config.NewConfig()
		config.LoadConfig(cfg)
		state.config = cfg
	}
	return state.config
}
