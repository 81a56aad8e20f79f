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
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/cinefeed/movie-etl/internal/config"
)

// serve runs the report API until an interrupt arrives, then shuts the
// server down with a five second grace period.
func serve(ctx context.Context, cfg *config.Config) error {
	r := gin.Default()

	r.Use(otelgin.Middleware(cfg.Application.Name))

	// Allow all origins for local development.
	r.Use(cors.Default())

	apiV1 := r.Group("/api/v1")
	{
		ReportRouter(apiV1)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to listen", "error", err)
		}
	}()
	slog.Info("server ready", "port", cfg.Server.Port)

	// Wait for an interrupt signal to gracefully shut down the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		return err
	}
	slog.Info("server exiting")
	return nil
}

// ReportRouter sets up the read-only report routes.
func ReportRouter(r *gin.RouterGroup) {
	movies := r.Group("/movies")
	{
		movies.GET("/top", func(c *gin.Context) {
			limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
			if err != nil || limit <= 0 {
				limit = 10
			}
			out, err := state.reportService.TopMovies(c, limit)
			if err != nil {
				slog.ErrorContext(c, "top movies failed", "error", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		movies.GET("/search", func(c *gin.Context) {
			keyword := c.Query("q")
			if len(keyword) == 0 {
				c.Status(http.StatusBadRequest)
				return
			}
			out, err := state.reportService.Search(c, keyword)
			if err != nil {
				slog.ErrorContext(c, "search failed", "keyword", keyword, "error", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, out)
		})
	}

	r.GET("/genres/stats", func(c *gin.Context) {
		out, err := state.reportService.GenreStatistics(c)
		if err != nil {
			slog.ErrorContext(c, "genre statistics failed", "error", err)
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	r.GET("/trends/yearly", func(c *gin.Context) {
		out, err := state.reportService.YearlyTrends(c)
		if err != nil {
			slog.ErrorContext(c, "yearly trends failed", "error", err)
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, out)
	})

	r.GET("/stats", func(c *gin.Context) {
		out, err := state.reportService.GetSummary(c)
		if err != nil {
			slog.ErrorContext(c, "summary failed", "error", err)
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, out)
	})
}
