package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"dealscope/adapters/llm"
	"dealscope/adapters/memory"
	"dealscope/adapters/postgres"
	"dealscope/adapters/sources"
	"dealscope/ai"
	"dealscope/app"
	"dealscope/internal/config"
	"dealscope/internal/migration"
	"dealscope/internal/quota"
	"dealscope/ports"
	"dealscope/ui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[Server] No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Server] Invalid configuration: %v", err)
	}

	reportRepo, quotaRepo, ownerRepo, err := setupStorage(cfg)
	if err != nil {
		log.Fatalf("[Server] Storage setup failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	owner, err := ownerRepo.GetOrCreateDefaultOwner(ctx)
	if err != nil {
		log.Fatalf("[Server] Default owner bootstrap failed: %v", err)
	}
	log.Printf("[Server] Default owner ready: %s", owner.ID)

	llmClient, err := llm.NewClient(cfg.AI)
	if err != nil {
		log.Fatalf("[Server] LLM client setup failed: %v", err)
	}

	adapters := []ports.SourceAdapter{
		sources.NewCompanyRegistryAdapter(cfg.Sources),
		sources.NewWebSearchAdapter(cfg.Sources),
		sources.NewSanctionsAdapter(cfg.Sources),
	}

	gate := quota.NewService(quotaRepo, cfg.Quota.DefaultPeriodLimit)
	evidenceSvc := app.NewEvidenceService(adapters, cfg.Sources.FetchTimeout)
	synthesizer := ai.NewSynthesizer(llmClient, cfg.AI.OpenAIModel, cfg.AI.MaxTokens)
	reportSvc := app.NewReportService(reportRepo)
	investigations := app.NewInvestigationService(gate, evidenceSvc, synthesizer, ai.NewReportParser(), reportSvc)

	webApp := ui.NewApp(investigations, reportSvc)

	addr := ":" + cfg.Server.Port
	log.Printf("[Server] DealScope listening on %s", addr)
	if err := http.ListenAndServe(addr, webApp.Router()); err != nil {
		log.Fatalf("[Server] Server failed: %v", err)
	}
}

// setupStorage picks the persistence backend. With DATABASE_URL set the
// service runs on Postgres with migrations applied at startup; without it
// everything lives in process memory, which is enough for local work.
func setupStorage(cfg *config.Config) (ports.ReportRepository, ports.QuotaRepository, ports.OwnerRepository, error) {
	if cfg.Database.URL == "" {
		log.Printf("[Server] DATABASE_URL not set, running with in-memory storage")
		return memory.NewReportRepository(), memory.NewQuotaRepository(), memory.NewOwnerRepository(), nil
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, nil, nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		return nil, nil, nil, err
	}

	return postgres.NewReportRepository(db), postgres.NewQuotaRepository(db), postgres.NewOwnerRepository(db), nil
}
