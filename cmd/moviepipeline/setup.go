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

package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/cinefeed/movie-etl/internal/config"
	"github.com/cinefeed/movie-etl/internal/core/services"
	"github.com/cinefeed/movie-etl/internal/store"
)

// StateManager holds the shared components for the serve command.
type StateManager struct {
	config        *config.Config
	db            *gorm.DB
	reportService *services.MovieReportService
}

var state = &StateManager{}

// SetupOS points the config loader at the local configs directory unless the
// caller already set the environment variables.
func SetupOS() (err error) {
	if os.Getenv(config.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(config.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(config.EnvConfigRuntime) == "" {
		err = os.Setenv(config.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig loads the application configuration once and caches it.
func GetConfig() *config.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup env: %v\n", err)
		}
		cfg := config.NewConfig()
		config.LoadConfig(cfg)
		state.config = cfg
	}
	return state.config
}

// applyPipelineFlags overlays run-command flags on the loaded config.
func applyPipelineFlags(cmd *cobra.Command, cfg *config.Config) {
	if pages, err := cmd.Flags().GetInt("pages"); err == nil && pages > 0 {
		cfg.TMDB.PageCount = pages
	}
	if path, err := cmd.Flags().GetString("db"); err == nil && path != "" {
		cfg.Database.Path = path
	}
}

// applyServerFlags overlays serve-command flags on the loaded config.
func applyServerFlags(cmd *cobra.Command, cfg *config.Config) {
	if path, err := cmd.Flags().GetString("db"); err == nil && path != "" {
		cfg.Database.Path = path
	}
	if port, err := cmd.Flags().GetInt("port"); err == nil && port > 0 {
		cfg.Server.Port = port
	}
}

// InitState opens the database and wires the report service.
func InitState(_ context.Context) error {
	cfg := GetConfig()
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.Database.Path, "error", err)
		return err
	}
	state.db = db
	state.reportService = &services.MovieReportService{DB: db}
	return nil
}

// CloseState releases the database connection held by the serve command.
func CloseState() {
	if state.db == nil {
		return
	}
	if err := store.Close(state.db); err != nil {
		slog.Warn("failed to close database", "error", err)
	}
	state.db = nil
}
