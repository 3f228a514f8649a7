package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/questra-ai/questra/internal/api/handlers"
	"github.com/questra-ai/questra/internal/config"
	"github.com/questra-ai/questra/internal/jobs"
	"github.com/questra-ai/questra/internal/llm"
	"github.com/questra-ai/questra/internal/repository"
	"github.com/questra-ai/questra/internal/server"
	"github.com/questra-ai/questra/internal/service"
	"github.com/questra-ai/questra/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the questra API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().Bool("no-worker", false, "Disable the async questionnaire job worker")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// The pipeline is built around the LLM provider; refusing to start
	// beats serving 502s for every question.
	if !cfg.HasLLM() {
		return fmt.Errorf("QUESTRA_LLM_API_KEY is required")
	}

	if cfg.SentryDSN != "" {
		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: cfg.TracesSampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Println("connected to database")

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	chunkRepo := repository.NewChunkRepository(pool)
	verifiedRepo := repository.NewVerifiedAnswerRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)
	jobRepo := repository.NewJobRepository(pool)

	llmClient := llm.NewClientWithConfig(llm.Config{
		APIKey:              cfg.LLMAPIKey,
		BaseURL:             cfg.LLMBaseURL,
		EmbeddingModel:      openai.EmbeddingModel(cfg.EmbeddingModel),
		ChatModel:           cfg.ChatModel,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})

	normalizer := service.NewNormalizer()
	cache := service.NewAnswerCache(verifiedRepo, llmClient, normalizer)
	retriever := service.NewEvidenceRetriever(llmClient, chunkRepo, cfg.RetrievalLimit)
	scorer := service.NewConfidenceScorer()
	judge := service.NewAnswerabilityJudge(llmClient)
	citations := service.NewCitationExtractor(llmClient)
	drafter := service.NewAnswerDrafter(llmClient)

	orchestrator := service.NewOrchestrator(service.OrchestratorConfig{
		BatchSize:           cfg.BatchSize,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		Concurrency:         cfg.Concurrency,
	}, normalizer, cache, retriever, scorer, judge, citations, drafter).
		WithStatsSources(chunkRepo, verifiedRepo, employeeRepo)

	router := service.NewEmployeeRouter(employeeRepo)
	escalations := service.NewEscalationService(llmClient, router, cfg.ConfidenceThreshold)

	var jobWorker *jobs.Worker
	noWorker, _ := cmd.Flags().GetBool("no-worker")
	if !noWorker {
		processor := jobs.NewQuestionnaireProcessor(jobRepo, orchestrator, escalations)
		jobWorker = jobs.NewWorker(processor, time.Duration(cfg.WorkerPollInterval)*time.Second)
		go jobWorker.Start(ctx)
		log.Println("questionnaire job worker started")
	}

	routerCfg := server.RouterConfig{
		APIKey:               cfg.APIKey,
		QuestionnaireHandler: handlers.NewQuestionnaireHandler(orchestrator, escalations, jobRepo),
		EscalationHandler:    handlers.NewEscalationHandler(escalations),
		FeedbackHandler:      handlers.NewFeedbackHandler(orchestrator),
		EmployeeHandler:      handlers.NewEmployeeHandler(employeeRepo),
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.NewRouter(routerCfg),
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if jobWorker != nil {
		jobWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
