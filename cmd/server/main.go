package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"movierec/internal/auth"
	"movierec/internal/capabilities"
	"movierec/internal/catalog"
	"movierec/internal/config"
	"movierec/internal/handler"
	"movierec/internal/handler/sse"
	"movierec/internal/middleware"
	"movierec/internal/repository/backend"
	"movierec/internal/repository/kvstore"
	authSvc "movierec/internal/service/auth"
	"movierec/internal/service/external/tmdb"
	"movierec/internal/service/history"
	"movierec/internal/service/llm/chat"
	"movierec/internal/service/llm/projection"
	"movierec/internal/service/llm/provider"
	"movierec/internal/service/llm/tools"
	"movierec/internal/service/llm/turn"
	"movierec/internal/service/movies"
	"movierec/internal/service/starters"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage", cfg.StorageBackend,
		"model", cfg.DefaultModel,
	)

	ctx := context.Background()

	// JWT verifier for Supabase authentication; without one every request is anonymous
	var jwtVerifier auth.JWTVerifier
	if cfg.AuthEnabled() {
		jwtVerifier, err = auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
	} else {
		logger.Warn("no JWKS URL configured, all requests are anonymous and chats are not saved")
	}

	// Storage
	store, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	chatRepo := kvstore.NewChatRepository(store.KV, store.Tx, logger)
	historyRepo := kvstore.NewHistoryRepository(store.KV)

	// Movie metadata: embedded catalog first, TMDB second
	movieCatalog, err := catalog.Load()
	if err != nil {
		log.Fatalf("Failed to load movie catalog: %v", err)
	}
	var movieService *movies.Service
	if cfg.TMDBAccessToken != "" {
		tmdbClient := tmdb.NewClient(tmdb.Config{
			AccessToken: cfg.TMDBAccessToken,
			BaseURL:     cfg.TMDBBaseURL,
			Timeout:     cfg.TMDBTimeout,
			RateLimit:   int(cfg.TMDBRateLimit),
		}, logger)
		movieService = movies.NewService(movieCatalog, tmdbClient, logger)
	} else {
		logger.Warn("TMDB_API_READ_ACCESS_TOKEN not set, only catalog movies will be enriched")
		movieService = movies.NewService(movieCatalog, nil, logger)
	}
	logger.Info("movie catalog loaded", "movies", movieCatalog.Len())

	// Model capabilities
	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}
	providerName := provider.ProviderName(cfg.DefaultModel)
	if caps, err := capabilityRegistry.GetModelCapabilities(providerName, cfg.DefaultModel); err != nil {
		logger.Warn("model not in capability registry", "model", cfg.DefaultModel, "error", err)
	} else if !caps.SupportsTools {
		log.Fatalf("Model %s does not support tool calls", cfg.DefaultModel)
	}

	// LLM
	model, err := provider.NewModel(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to set up LLM provider: %v", err)
	}
	toolRegistry := tools.NewToolRegistryBuilder().
		WithMovieTools(movieService).
		Build()

	// Services
	chatService := chat.NewService(chatRepo, authSvc.NewOwnerBasedAuthorizer(chatRepo), logger)
	historyService := history.NewService(historyRepo, logger)
	turnProcessor := turn.NewProcessor(model, toolRegistry, historyRepo, chatService, turn.Options{
		Provider:    providerName,
		Temperature: cfg.LLMTemperature,
	}, logger)
	refineService := chat.NewRefineService(turnProcessor)
	starterService, err := starters.NewService(movieService)
	if err != nil {
		log.Fatalf("Failed to load conversation starters: %v", err)
	}
	projector := projection.NewProjector(toolRegistry, logger)

	logger.Info("services initialized")

	// Handlers
	turnHandler := handler.NewTurnHandler(turnProcessor, refineService, chatService, sse.DefaultConfig(), logger)
	chatHandler := handler.NewChatHandler(chatService, projector, logger)
	historyHandler := handler.NewHistoryHandler(historyService, logger)
	moviesHandler := handler.NewMoviesHandler(movieService, starterService, logger)
	modelsHandler := handler.NewModelsHandler(cfg, logger, capabilityRegistry)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health)

	// Turn routes (SSE responses)
	mux.HandleFunc("POST /api/chats/{id}/messages", turnHandler.SubmitMessage)
	mux.HandleFunc("POST /api/chats/{id}/refine", turnHandler.Refine)

	// Chat routes
	mux.HandleFunc("GET /api/chats", chatHandler.ListChats)
	mux.HandleFunc("DELETE /api/chats", chatHandler.ClearChats)
	mux.HandleFunc("GET /api/chats/{id}", chatHandler.GetChat)
	mux.HandleFunc("DELETE /api/chats/{id}", chatHandler.DeleteChat)
	mux.HandleFunc("POST /api/chats/{id}/share", chatHandler.ShareChat)
	mux.HandleFunc("GET /api/share/{id}", chatHandler.GetSharedChat)

	// Watch history
	mux.HandleFunc("GET /api/users/me/history", historyHandler.GetHistory)
	mux.HandleFunc("PUT /api/users/me/history", historyHandler.PutHistory)

	// Movies and starters
	mux.HandleFunc("GET /api/starters", moviesHandler.GetStarters)
	mux.HandleFunc("GET /api/movies/trailer", moviesHandler.GetTrailer)

	// Model capabilities
	mux.HandleFunc("GET /api/models/capabilities", modelsHandler.GetCapabilities)

	// Build middleware chain
	// Order: CORS → Recovery → Auth → Routes
	var h http.Handler = mux
	h = middleware.OptionalAuth(jwtVerifier, logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.TurnTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
