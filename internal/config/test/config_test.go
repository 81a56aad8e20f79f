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

// Package config_test contains unit tests for the configuration defaults
// and the hierarchical TOML loader.
package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cinefeed/movie-etl/internal/config"
)

// TestNewConfigDefaults verifies the shipped defaults, which apply when
// no configuration file is present at all.
func TestNewConfigDefaults(t *testing.T) {
	cfg := config.NewConfig()

	assert.Equal(t, "movie-etl", cfg.Application.Name)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, 5, cfg.TMDB.PageCount)
	assert.Equal(t, 250*time.Millisecond, cfg.TMDB.RequestCooldown())
	assert.Equal(t, 30*time.Second, cfg.TMDB.RequestTimeout())
	assert.Equal(t, "movie_recommendations.db", cfg.Database.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
}

// TestLoadConfigHierarchy verifies the two-layer loading: the base file
// overrides the defaults, and the runtime-specific file overrides the
// base file, while untouched values survive each layer.
func TestLoadConfigHierarchy(t *testing.T) {
	dir := t.TempDir()

	base := `
[tmdb]
api_key = "base-key"
page_count = 7

[database]
path = "base.db"
`
	override := `
[tmdb]
api_key = "staging-key"
`
	err := os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(base), 0o600)
	assert.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, ".env.staging.toml"), []byte(override), 0o600)
	assert.NoError(t, err)

	t.Setenv(config.EnvConfigFilePrefix, dir)
	t.Setenv(config.EnvConfigRuntime, "staging")

	cfg := config.NewConfig()
	config.LoadConfig(cfg)

	// The override file wins for the key it sets.
	assert.Equal(t, "staging-key", cfg.TMDB.APIKey)
	// The base file wins where the override is silent.
	assert.Equal(t, 7, cfg.TMDB.PageCount)
	assert.Equal(t, "base.db", cfg.Database.Path)
	// Defaults survive where both files are silent.
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	assert.Equal(t, 8080, cfg.Server.Port)
}

// TestLoadConfigMissingFiles verifies that absent files leave the
// defaults untouched instead of failing.
func TestLoadConfigMissingFiles(t *testing.T) {
	t.Setenv(config.EnvConfigFilePrefix, t.TempDir())
	t.Setenv(config.EnvConfigRuntime, "nowhere")

	cfg := config.NewConfig()
	config.LoadConfig(cfg)

	assert.Equal(t, 5, cfg.TMDB.PageCount)
	assert.Equal(t, "movie_recommendations.db", cfg.Database.Path)
}
