// Command chat-cli runs recommendation turns from a terminal, without the
// HTTP server or persistent storage. Set DEFAULT_MODEL=lorem-fast to run offline.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"movierec/internal/catalog"
	"movierec/internal/config"
	"movierec/internal/domain/models"
	"movierec/internal/domain/repositories"
	"movierec/internal/domain/services"
	"movierec/internal/repository/kvstore"
	"movierec/internal/repository/memory"
	"movierec/internal/service/external/tmdb"
	"movierec/internal/service/llm/chat"
	"movierec/internal/service/llm/provider"
	"movierec/internal/service/llm/tools"
	"movierec/internal/service/llm/turn"
	"movierec/internal/service/movies"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

const helpText = `Commands:
  /cards <text>         ask and force movie cards
  /refine k=v;k=v       refine (genres, actors, director, keywords, language)
  /history <text>       set the watch history used in the prompt
  /reset                start a new chat
  /quit                 exit
Anything else is sent as a message.`

// cliSession is the fixed identity history is stored under.
var cliSession = &models.Session{User: models.SessionUser{ID: "cli", Email: "cli@localhost"}}

type CLI struct {
	turns   services.TurnProcessor
	refine  services.RefineService
	history repositories.HistoryRepository
	state   models.AIState
	logger  *slog.Logger
}

// setupLogger writes debug logs to a file so they don't interleave with the chat.
func setupLogger() (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll("logs", 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	name := filepath.Join("logs", fmt.Sprintf("chat_cli_%s.log", time.Now().Format("2006-01-02_15-04-05")))
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})), f, nil
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, logFile, err := setupLogger()
	if err != nil {
		fmt.Printf("%sFailed to setup logger: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
	defer logFile.Close()

	movieCatalog, err := catalog.Load()
	if err != nil {
		fmt.Printf("%sFailed to load catalog: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
	var movieService *movies.Service
	if cfg.TMDBAccessToken != "" {
		client := tmdb.NewClient(tmdb.Config{AccessToken: cfg.TMDBAccessToken, BaseURL: cfg.TMDBBaseURL, Timeout: cfg.TMDBTimeout}, logger)
		movieService = movies.NewService(movieCatalog, client, logger)
	} else {
		movieService = movies.NewService(movieCatalog, nil, logger)
	}

	model, err := provider.NewModel(cfg, logger)
	if err != nil {
		fmt.Printf("%sFailed to setup model: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}

	kv := memory.NewKV()
	historyRepo := kvstore.NewHistoryRepository(kv)
	registry := tools.NewToolRegistryBuilder().WithMovieTools(movieService).Build()
	processor := turn.NewProcessor(model, registry, historyRepo, nil, turn.Options{
		Provider:    provider.ProviderName(cfg.DefaultModel),
		Temperature: cfg.LLMTemperature,
	}, logger)

	cli := &CLI{
		turns:   processor,
		refine:  chat.NewRefineService(processor),
		history: historyRepo,
		logger:  logger,
	}

	fmt.Printf("%sMovie recommender (%s). Logs: %s%s\n%s\n\n", colorCyan, cfg.DefaultModel, logFile.Name(), colorReset, helpText)
	cli.run(context.Background(), bufio.NewScanner(os.Stdin))
}

func (c *CLI) run(ctx context.Context, scanner *bufio.Scanner) {
	for {
		fmt.Printf("%syou>%s ", colorGreen, colorReset)
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		var result *services.TurnResult
		var err error

		switch cmd {
		case "/quit", "/exit":
			return
		case "/help":
			fmt.Println(helpText)
			continue
		case "/reset":
			c.state = models.AIState{}
			fmt.Println("new chat")
			continue
		case "/history":
			if err := c.history.Set(ctx, cliSession.User.Email, arg); err != nil {
				fmt.Printf("%s%v%s\n", colorRed, err, colorReset)
			}
			continue
		case "/cards":
			result, err = c.turns.SubmitUserMessage(ctx, cliSession, c.state, arg, true, terminalDisplay{})
		case "/refine":
			result, err = c.refine.Refine(ctx, cliSession, c.state, parseRefine(arg), terminalDisplay{})
		default:
			result, err = c.turns.SubmitUserMessage(ctx, cliSession, c.state, line, false, terminalDisplay{})
		}

		if err != nil {
			c.logger.Error("turn failed", "error", err)
			fmt.Printf("\n%s%v%s\n", colorRed, err, colorReset)
			continue
		}
		c.state = result.State
	}
}

// parseRefine reads "genres=comedy,drama;director=Nora Ephron".
func parseRefine(arg string) models.RefineSearchQuery {
	var q models.RefineSearchQuery
	for _, pair := range strings.Split(arg, ";") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		list := strings.Split(value, ",")
		for i := range list {
			list[i] = strings.TrimSpace(list[i])
		}
		switch strings.TrimSpace(key) {
		case "genres":
			q.Genres = list
		case "actors":
			q.Actors = list
		case "keywords":
			q.Keywords = list
		case "like":
			q.LikeTitles = list
		case "director":
			q.Director = strings.TrimSpace(value)
		case "language":
			q.Language = strings.TrimSpace(value)
		}
	}
	return q
}

// terminalDisplay prints a turn as it progresses.
type terminalDisplay struct{}

func (terminalDisplay) Update(entry models.UIEntry) {
	if entry.Kind == models.UIEntryLoading {
		fmt.Printf("%s[%s...]%s\n", colorYellow, entry.ToolName, colorReset)
	}
}

func (terminalDisplay) Delta(text string) {
	fmt.Print(text)
}

func (terminalDisplay) Done(entry models.UIEntry) {
	switch entry.Kind {
	case models.UIEntryAssistantText:
		fmt.Println()
	case models.UIEntryMovieCards:
		if entry.Introduction != "" {
			fmt.Println(entry.Introduction)
		}
		for _, card := range entry.Movies {
			line := fmt.Sprintf("  %s (%s)", card.LLMData.Title, card.LLMData.Year)
			if card.Movie != nil {
				line += fmt.Sprintf(" dir. %s, %s/10", card.Movie.Director, card.Movie.RatingValue)
			}
			fmt.Printf("%s%s%s\n", colorCyan, line, colorReset)
		}
	case models.UIEntryConversationStarters:
		for _, s := range entry.Starters {
			fmt.Printf("%s  %s: %s%s\n", colorCyan, s.Heading, s.Prompt, colorReset)
		}
	}
}
