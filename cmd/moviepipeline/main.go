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

// The moviepipeline binary has two faces: "run" executes the
// extract-transform-load pipeline against the catalog API, and "serve"
// exposes the loaded database through a read-only report API.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cinefeed/movie-etl/internal/core/workflow"
	"github.com/cinefeed/movie-etl/internal/telemetry"
	"github.com/cinefeed/movie-etl/internal/tmdb"
)

var rootCmd = &cobra.Command{
	Use:   "moviepipeline",
	Short: "Movie catalog ETL pipeline and report server",
	Long: `moviepipeline extracts popular movies from a TMDB-compatible catalog API,
derives machine-learning-ready features from them, loads everything into a
SQLite database, and can serve reports over that database.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the extract-transform-load pipeline",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		cfg := GetConfig()
		applyPipelineFlags(cmd, cfg)

		shutdown, err := telemetry.SetupOpenTelemetry(ctx, cfg)
		if err != nil {
			slog.Error("failed to setup OpenTelemetry", "error", err)
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Warn("telemetry shutdown", "error", err)
			}
		}()
		slog.Info("tracing initialized")

		client := tmdb.NewClient(cfg.TMDB)
		etl := workflow.NewMovieETLWorkflow(cfg, client)

		slog.InfoContext(ctx, "starting pipeline",
			"pages", cfg.TMDB.PageCount,
			"database", cfg.Database.Path)
		if err := etl.Run(ctx, cfg.TMDB.PageCount); err != nil {
			slog.ErrorContext(ctx, "pipeline failed", "error", err)
			return err
		}
		slog.InfoContext(ctx, "pipeline complete", "database", cfg.Database.Path)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reports over the loaded database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		cfg := GetConfig()
		applyServerFlags(cmd, cfg)

		shutdown, err := telemetry.SetupOpenTelemetry(ctx, cfg)
		if err != nil {
			slog.Error("failed to setup OpenTelemetry", "error", err)
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Warn("telemetry shutdown", "error", err)
			}
		}()

		if err := InitState(ctx); err != nil {
			return err
		}
		defer CloseState()
		slog.Info("initialized state", "database", cfg.Database.Path)

		return serve(ctx, cfg)
	},
}

func init() {
	runCmd.Flags().Int("pages", 0, "number of popular pages to extract (overrides config)")
	runCmd.Flags().String("db", "", "path of the SQLite database file (overrides config)")
	serveCmd.Flags().String("db", "", "path of the SQLite database file (overrides config)")
	serveCmd.Flags().Int("port", 0, "TCP port to listen on (overrides config)")
	rootCmd.AddCommand(runCmd, serveCmd)
}

func main() {
	telemetry.SetupLogging()
	slog.Info("logging initialized")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
