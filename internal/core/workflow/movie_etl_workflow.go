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

// Package workflow defines the high-level business logic orchestrations,
// combining commands into coherent pipelines. This file implements the
// movie ETL workflow: extract the raw record set, transform it into the
// enriched and feature tables, load both into the store.
//
// The error policy differs per stage: the extractor swallows per-page and
// per-item failures internally (the run completes with a partial dataset),
// while any error recorded by the transform or load command stops the
// chain and fails the run.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cinefeed/movie-etl/internal/config"
	"github.com/cinefeed/movie-etl/internal/core/commands"
	"github.com/cinefeed/movie-etl/internal/core/cor"
)

// MovieETLWorkflow orchestrates one full extract-transform-load run as a
// Chain of Responsibility.
type MovieETLWorkflow struct {
	cor.BaseCommand
	cfg   *config.Config
	chain cor.Chain
}

// Execute runs the entire workflow by invoking the underlying chain.
func (w *MovieETLWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// Run executes the workflow once for the given page count. Each run is
// tagged with a fresh run id that appears on every log record the stages
// emit. The returned error joins whatever the chain collected; nil means
// the run completed and the store was replaced.
func (w *MovieETLWorkflow) Run(ctx context.Context, pageCount int) error {
	runID := uuid.NewString()
	slog.InfoContext(ctx, "starting pipeline run",
		"run_id", runID, "pages", pageCount, "db", w.cfg.Database.Path)

	chCtx := cor.NewBaseContext()
	chCtx.SetContext(ctx)
	chCtx.Add(cor.CtxIn, pageCount)

	w.Execute(chCtx)

	if chCtx.HasErrors() {
		errs := make([]error, 0, len(chCtx.GetErrors()))
		for name, err := range chCtx.GetErrors() {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		joined := errors.Join(errs...)
		slog.ErrorContext(ctx, "pipeline run failed", "run_id", runID, "error", joined)
		return joined
	}

	slog.InfoContext(ctx, "pipeline run complete", "run_id", runID)
	return nil
}

// initializeChain builds the three-stage command sequence. The chain's
// default piping moves each command's output into the next command's
// input: page count -> raw records -> dataset -> store.
func (w *MovieETLWorkflow) initializeChain(client commands.CatalogClient) {
	out := cor.NewBaseChain(w.GetName())

	// Stage 1: drive the catalog client across the popular pages and
	// assemble the raw record set, skipping failed pages and items.
	out.AddCommand(commands.NewMovieExtractor("extract-movies", client))

	// Stage 2: impute, derive, normalize and one-hot expand.
	out.AddCommand(commands.NewFeatureTransformer("transform-features"))

	// Stage 3: replace the movies and movie_features tables and recreate
	// the derived views.
	out.AddCommand(commands.NewMoviePersistToSQLite("load-sqlite", w.cfg.Database.Path))

	w.chain = out
}

// NewMovieETLWorkflow wires the pipeline for the given configuration and
// catalog client.
func NewMovieETLWorkflow(cfg *config.Config, client commands.CatalogClient) *MovieETLWorkflow {
	pipeline := &MovieETLWorkflow{
		BaseCommand: *cor.NewBaseCommand("movie-etl-pipeline"),
		cfg:         cfg,
	}
	pipeline.initializeChain(client)
	return pipeline
}
