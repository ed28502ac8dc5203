package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"outfit-backend/internal/bodyshape"
	"outfit-backend/internal/llm"
	"outfit-backend/internal/llm/openai"
	"outfit-backend/internal/outfits"
	"outfit-backend/internal/recommendation"
	"outfit-backend/internal/services/health"
	"outfit-backend/internal/shared/config"
	"outfit-backend/internal/shared/server"
	"outfit-backend/internal/shared/storage/db"
	"outfit-backend/internal/shared/storage/object"
	localstore "outfit-backend/internal/shared/storage/object/local"
	s3store "outfit-backend/internal/shared/storage/object/s3"
	"outfit-backend/internal/shared/telemetry"
	"outfit-backend/internal/styleflow"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Store          object.ImageStore
	LLM            llm.Client
	OutfitsRepo    outfits.Repo
	OutfitsService *outfits.Service
	Flow           *styleflow.Flow
}

// Build prepares dependencies and registers routes. Database and gateway
// problems degrade to in-memory and unconfigured modes in dev-like envs.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		LLM:    buildLLM(cfg),
	}
	if sqlDB != nil {
		app.OutfitsRepo = outfits.NewPGRepo(sqlDB, db.DriverName)
	} else {
		app.OutfitsRepo = outfits.NewMemoryRepo()
	}
	app.OutfitsService = &outfits.Service{
		LLM:           app.LLM,
		Store:         store,
		Repo:          app.OutfitsRepo,
		ImageAttempts: cfg.ImageAttempts,
	}
	app.Flow = &styleflow.Flow{Provider: app.OutfitsService}

	// S3 hands out presigned URLs, so only the local store is served back.
	var served object.ImageStore
	if cfg.ImageStore == "local" {
		served = store
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:                app.Config,
		OutfitsHandler:        outfits.NewHandler(app.OutfitsService, served),
		StyleGuideHandler:     styleflow.NewHandler(app.Flow),
		BodyShapeHandler:      bodyshape.NewHandler(),
		RecommendationHandler: recommendation.NewHandler(),
		Health:                health.NewService(pinger(sqlDB), gatewayConfigured(app.LLM), cfg.ImageStore),
	})
	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repo", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		if err = db.RunMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repo", map[string]any{"reason": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ImageStore, error) {
	switch cfg.ImageStore {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("IMAGE_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.S3PresignTTL)
	case "local":
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL), nil
	default:
		return nil, nil
	}
}

func buildLLM(cfg config.Config) llm.Client {
	gw := cfg.Gateway
	client, err := openai.NewClient(openai.Config{
		BaseURL:    gw.URL,
		APIKey:     gw.APIKey,
		TextModel:  gw.TextModel,
		ImageModel: gw.ImageModel,
		Timeout:    gw.Timeout,
		OAuth: &openai.OAuthConfig{
			TokenURL:     gw.OAuthTokenURL,
			ClientID:     gw.OAuthClientID,
			ClientSecret: gw.OAuthClientSecret,
			Scopes:       gw.OAuthScopes,
		},
	})
	if err != nil {
		fields := map[string]any{"error": err.Error()}
		if errors.Is(err, llm.ErrNotConfigured) {
			telemetry.Warn("bootstrap.gateway_unconfigured", fields)
		} else {
			telemetry.Error("bootstrap.gateway_invalid", fields)
		}
		return llm.PlaceholderClient{}
	}
	return client
}

// pinger keeps a nil *sql.DB from becoming a non-nil interface.
func pinger(sqlDB *sql.DB) health.Pinger {
	if sqlDB == nil {
		return nil
	}
	return sqlDB
}

func gatewayConfigured(client llm.Client) bool {
	_, placeholder := client.(llm.PlaceholderClient)
	return !placeholder
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
