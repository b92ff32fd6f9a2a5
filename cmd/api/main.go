package main

import (
	"context"
	"log"

	"github.com/RoyWG925/geo-dashboard-demo/internal/ai"
	"github.com/RoyWG925/geo-dashboard-demo/internal/auth"
	"github.com/RoyWG925/geo-dashboard-demo/internal/config"
	"github.com/RoyWG925/geo-dashboard-demo/internal/database"
	"github.com/RoyWG925/geo-dashboard-demo/internal/handlers"
	"github.com/RoyWG925/geo-dashboard-demo/internal/pipeline"
	"github.com/RoyWG925/geo-dashboard-demo/internal/repository"
	"github.com/RoyWG925/geo-dashboard-demo/internal/routes"
	"github.com/RoyWG925/geo-dashboard-demo/internal/scraper"
	"github.com/joho/godotenv"
)

func main() {
	// --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// --- Database ---
	db, err := database.Open(cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.ApplySchema(db); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	// --- External services ---
	generator, err := ai.NewGenerator(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	defer generator.Close()

	collector := scraper.NewClient(cfg.ApifyAPIToken)

	// --- Repositories ---
	usageRepo := repository.NewUsageRepository(db, repository.UsageDefaults{
		DefaultMaxUsage: cfg.DefaultMaxUsage,
		AdminMaxUsage:   cfg.AdminMaxUsage,
		IsAdmin:         cfg.IsAdmin,
	})
	resultRepo := repository.NewResultRepository(db)
	keywordRepo := repository.NewKeywordRepository(db)
	refinementRepo := repository.NewRefinementRepository(db)

	// --- Pipeline ---
	geo := pipeline.New(usageRepo, resultRepo, refinementRepo, collector, generator, pipeline.Settings{
		ModelFallback:      cfg.ModelFallback,
		DefaultStreamModel: cfg.DefaultStreamModel,
		ContactEmail:       cfg.ContactEmail,
		ScrapeTimeout:      cfg.ScrapeTimeout,
		GenerateTimeout:    cfg.GenerateTimeout,
	})

	// --- Application Setup ---
	app := &handlers.Handlers{
		Cfg:      cfg,
		Pipeline: geo,
		Usage:    usageRepo,
		Keywords: keywordRepo,
		Results:  resultRepo,
	}

	tokens := auth.NewManager(cfg.JWTSecret)
	router := routes.SetupRouter(app, tokens)

	log.Printf("🚀 Starting GEO dashboard API on %s...", cfg.ListenAddr)
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
