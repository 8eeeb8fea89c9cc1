package server

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/app/agent"
	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/app/api"
	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/app/service"
	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/model"
	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/store"
	"github.com/Naveen-mishra11/Private-Knowledge-Q-A/types"
)

var config = fiber.Config{
	ErrorHandler: api.ErrorHandler,
	BodyLimit:    8 * 1024 * 1024,
}

type Server struct {
	cfg    types.Config
	logger *slog.Logger
	app    *fiber.App
}

func NewServer() *Server {
	return &Server{
		cfg:    configFromEnv(),
		logger: slog.Default(),
	}
}

func (s *Server) Stop() {
	if s.app != nil {
		if err := s.app.Shutdown(); err != nil {
			s.logger.Error("error during shutdown", "error", err.Error())
		}
	}
	s.logger.Info("server stopped")
}

func (s *Server) Run() {
	ctx := context.Background()
	port, _ := strconv.Atoi(os.Getenv("PG_PORT"))
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("PG_HOST"), port, os.Getenv("PG_USER"), os.Getenv("PG_PASS"), os.Getenv("PG_DB_NAME"))
	pool, err := store.NewPostgresStore(ctx, connStr)
	if err != nil {
		log.Fatal("error to connect to Postgres database", err)
		return
	}

	if err := pool.Init(ctx); err != nil {
		log.Fatal("error to create tables", err)
		return
	}

	embedder := model.NewHashEmbedder()
	llm := agent.NewLLMClient(s.cfg.LLMURL, s.cfg.LLMModel)
	svc := service.New(pool, embedder, llm, s.cfg)

	var (
		app             = fiber.New(config)
		checkHandler    = api.NewCheckHandler()
		configHandler   = api.NewConfigHandler(s.cfg)
		qaHandler       = api.NewQAHandler(svc, s.cfg.LLMModel)
		documentHandler = api.NewDocumentHandler(pool, svc)
		check           = app.Group("/check")
		apiv1           = app.Group("/api/v1")
	)

	app.Use(cors.New(cors.Config{
		AllowOrigins: s.cfg.AllowedOrigins,
	}))

	check.Get("/healthy", checkHandler.HandleHealthy)

	apiv1.Get("/config", configHandler.HandleConfig)
	apiv1.Get("/llm/healthy", qaHandler.HandleLLMHealthy)
	apiv1.Post("/qa", qaHandler.HandleAsk)
	apiv1.Post("/documents", documentHandler.HandleUpload)
	apiv1.Get("/documents", documentHandler.HandleList)
	apiv1.Get("/documents/:id", documentHandler.HandleGet)
	apiv1.Delete("/documents/:id", documentHandler.HandleDelete)
	apiv1.Post("/ingest/:id", documentHandler.HandleIngest)

	s.app = app

	if err := app.Listen(s.cfg.ListenAddr); err != nil {
		s.logger.Error("error to start server", "error", err.Error())
		return
	}
}

// configFromEnv resolves all tunables once at startup; nothing below the
// server reads the environment again.
func configFromEnv() types.Config {
	return types.Config{
		ListenAddr:     envString("SERVER_ADDR", ":8000"),
		AllowedOrigins: envString("ALLOWED_ORIGINS", "*"),
		ChunkSize:      envInt("CHUNK_SIZE", 900),
		ChunkOverlap:   envInt("CHUNK_OVERLAP", 120),
		TopKDefault:    envInt("TOP_K", 4),
		LLMURL:         envString("LLM_URL", "http://localhost:11434/api/generate"),
		LLMModel:       envString("LLM_MODEL", "llama3.1"),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
