package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/coursekit/coursekit/internal/config"
	"github.com/coursekit/coursekit/internal/db"
	"github.com/coursekit/coursekit/internal/filestore"
	"github.com/coursekit/coursekit/internal/handler"
	"github.com/coursekit/coursekit/internal/job"
	"github.com/coursekit/coursekit/internal/middleware"
	"github.com/coursekit/coursekit/internal/registry"
	"github.com/coursekit/coursekit/internal/render"
	"github.com/coursekit/coursekit/internal/repo"
	"github.com/coursekit/coursekit/internal/schedule"
	"github.com/coursekit/coursekit/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "coursekit",
		Short: "coursekit backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run coursekit server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("db_host", cfg.Database.Host),
		zap.String("file_store", cfg.FileStore.Type),
	)

	userRepo := repo.NewUserRepo(conn)
	pageRepo := repo.NewPageRepo(conn)
	metaRepo := repo.NewMetaRepo(conn)
	revisionRepo := repo.NewRevisionRepo(conn)
	termRepo := repo.NewTermRepo(conn)
	pageTermRepo := repo.NewPageTermRepo(conn)
	templateRepo := repo.NewTemplateRepo(conn)

	reg := registry.New()
	renderer := render.New(reg)
	renderCache := render.NewCache(cfg.RenderCacheSize, 10*time.Minute)

	authService := service.NewAuthService(userRepo, []byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))
	pageService := service.NewPageService(pageRepo, metaRepo, pageTermRepo)
	termService := service.NewTermService(termRepo, pageTermRepo, pageRepo)
	templateService := service.NewTemplateService(templateRepo, reg)
	builderService := service.NewBuilderService(pageRepo, metaRepo, revisionRepo, reg, renderer, renderCache, cfg.RevisionMaxKeep)

	if err := templateService.SeedBuiltins(context.Background()); err != nil {
		return fmt.Errorf("seed builtin templates: %w", err)
	}

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	deps := handler.RouterDeps{
		Auth:      handler.NewAuthHandler(authService),
		Pages:     handler.NewPageHandler(pageService, termService),
		Builder:   handler.NewBuilderHandler(builderService, templateService, reg),
		Revisions: handler.NewRevisionHandler(builderService),
		Terms:     handler.NewTermHandler(termService),
		Templates: handler.NewTemplateHandler(templateService),
		Assets:    handler.NewAssetHandler(store),
		Render:    handler.NewRenderHandler(builderService),
		JWTSecret: []byte(cfg.JWTSecret),
	}

	scheduler := schedule.NewCronScheduler()
	pruneJob := job.NewRevisionPruneJob(revisionRepo, 90)
	if err := scheduler.AddJob(pruneJob, "30 3 * * *"); err != nil {
		return fmt.Errorf("schedule revision prune: %w", err)
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
