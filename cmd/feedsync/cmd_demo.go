package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	generatorpkg "github.com/stormhead-org/feedsync/internal/generator"
	metricspkg "github.com/stormhead-org/feedsync/internal/metrics"
	middlewarepkg "github.com/stormhead-org/feedsync/internal/middleware"
	"github.com/stormhead-org/feedsync/internal/model"
	overlaypkg "github.com/stormhead-org/feedsync/internal/overlay"
	querypkg "github.com/stormhead-org/feedsync/internal/query"
	"github.com/stormhead-org/feedsync/internal/services"
	sessionpkg "github.com/stormhead-org/feedsync/internal/session"
	storepkg "github.com/stormhead-org/feedsync/internal/store"
	transportpkg "github.com/stormhead-org/feedsync/internal/transport"
)

var demoCommand = &cobra.Command{
	Use:   "demo",
	Short: "run a scripted feed session against the simulated backend",
	Long:  "",
	RunE: func(cmd *cobra.Command, args []string) error {
		return demoCommandImpl()
	},
}

func demoCommandImpl() error {
	if os.Getenv("DEBUG") == "1" {
		godotenv.Load()
	}

	application := fx.New(
		fx.NopLogger,
		fx.Provide(
			// Logger
			func() *zap.Logger {
				if os.Getenv("DEBUG") == "1" {
					logger, _ := zap.NewDevelopment()
					return logger
				}
				logger, _ := zap.NewProduction()
				return logger
			},

			// Metrics
			prometheus.NewRegistry,
			metricspkg.NewMetrics,

			// Engine
			generatorpkg.New,
			storepkg.NewStore,
			querypkg.NewPipeline,
			func(st *storepkg.Store, pipeline *querypkg.Pipeline, log *zap.Logger) services.Backend {
				latency := 50 * time.Millisecond
				if ms, err := strconv.Atoi(os.Getenv("FEEDSYNC_LATENCY_MS")); err == nil {
					latency = time.Duration(ms) * time.Millisecond
				}
				limiter := middlewarepkg.NewActionLimiter(20, 40)
				return transportpkg.NewBackend(st, pipeline, log, latency, limiter)
			},
		),
		fx.Invoke(runDemo),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := application.Start(startCtx); err != nil {
		return err
	}
	return application.Stop(startCtx)
}

func runDemo(backend services.Backend, log *zap.Logger) error {
	ctx := context.Background()

	region := os.Getenv("FEEDSYNC_REGION")
	if region == "" {
		region = "jp"
	}

	viewer := model.Author{ID: "user-demo", Name: "Demo User"}
	record := overlaypkg.NewInteractions()
	session := sessionpkg.NewSession(backend, record, viewer, region, log)

	if err := session.Load(ctx); err != nil {
		return err
	}
	snapshot := session.Snapshot()
	log.Info("feed loaded",
		zap.String("region", region),
		zap.Int("posts", len(snapshot.Posts)),
		zap.Int("total", snapshot.TotalCount),
		zap.Bool("has_more", snapshot.HasMore))

	session.Create(ctx, sessionpkg.Draft{
		Body:       "First day here, what should I absolutely not miss?",
		Category:   model.CategoryHelp,
		TagIDs:     []string{"tag-advice"},
		LocationID: region,
	})
	log.Info("optimistic post visible", zap.Int("posts", len(session.Snapshot().Posts)))

	session.Wait()
	log.Info("create reconciled", zap.Int("posts", len(session.Snapshot().Posts)))

	if len(snapshot.Posts) > 0 {
		session.SetInteraction(ctx, snapshot.Posts[0].ID, model.ActionLike)
		session.SetInteraction(ctx, snapshot.Posts[0].ID, model.ActionBookmark)
		session.Wait()
		log.Info("interactions applied", zap.String("post_id", snapshot.Posts[0].ID))
	}

	for session.Snapshot().HasMore {
		if err := session.LoadMore(ctx); err != nil {
			return err
		}
	}
	log.Info("feed fully paged", zap.Int("posts", len(session.Snapshot().Posts)))

	global := sessionpkg.NewSession(backend, record, viewer, model.RegionGlobal, log)
	if err := global.Load(ctx); err != nil {
		return err
	}
	log.Info("aggregate feed loaded", zap.Int("posts", len(global.Snapshot().Posts)))

	return nil
}

func init() {
	rootCommand.AddCommand(demoCommand)
}
