package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/StarRy7c/Gamebot/internal/app"
	"github.com/StarRy7c/Gamebot/internal/config"
	"github.com/StarRy7c/Gamebot/internal/domain"
	"github.com/StarRy7c/Gamebot/internal/infra/memory"
	pgloader "github.com/StarRy7c/Gamebot/internal/infra/postgres"
	redisinfra "github.com/StarRy7c/Gamebot/internal/infra/redis"
	"github.com/StarRy7c/Gamebot/internal/scheduler"
	transport "github.com/StarRy7c/Gamebot/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	zerolog.TimeFieldFormat = time.RFC3339
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.Duration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(sampleQuestions())
	if cfg.Questions.File != "" {
		loader = memory.NewFileQuestionLoader(cfg.Questions.File)
	}
	if pool != nil {
		loader = pgloader.NewQuestionLoader(pool)
	}
	bank := memory.NewQuestionBank(loader)
	count, err := bank.Size(ctx)
	if err != nil {
		return err
	}
	log.Info().Int("questions", count).Msg("question bank loaded")

	var sessions app.SessionStore
	var ledgers app.LedgerStore
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, redisTTL)
		ledgers = redisinfra.NewLedgerStore(redisClient)
	} else {
		sessions = memory.NewSessionStore()
		ledgers = memory.NewLedgerStore()
	}

	gameCfg := app.Config{
		HintWindow:        config.Duration(cfg.Game.HintWindow, 20*time.Second),
		StealWindow:       config.Duration(cfg.Game.StealWindow, 2*time.Second),
		NextQuestionDelay: config.Duration(cfg.Game.NextQuestionDelay, 3*time.Second),
		DefaultQuestions:  cfg.Game.DefaultQuestions,
		MaxQuestions:      cfg.Game.MaxQuestions,
		StealScope:        domain.StealScope(cfg.Game.StealScope),
	}
	service := app.NewGameService(sessions, ledgers, bank, gameCfg, log)
	wsHandler := transport.NewWSHandler(service, log)

	loc := loadLocation(cfg.Game.Timezone, log)
	hour, minute := parseResetTime(cfg.Game.ResetTime)
	daily := scheduler.NewDaily(service, loc, hour, minute, log)
	schedCtx, stopSched := context.WithCancel(ctx)
	defer stopSched()
	go daily.Run(schedCtx)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("port", finalPort).Msg("starting game server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutting down server...")
	case <-ctx.Done():
		log.Info().Msg("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func loadLocation(name string, log zerolog.Logger) *time.Location {
	if name == "" {
		name = "Asia/Kolkata"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("timezone", name).Msg("falling back to UTC")
		return time.UTC
	}
	return loc
}

// parseResetTime reads "HH:MM"; malformed input falls back to midnight.
func parseResetTime(raw string) (hour, minute int) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0
	}
	return h, m
}

// sampleQuestions provides a minimal demo set; swap in the file or Postgres
// loader for real play.
func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			Word:     "telescope",
			Category: "Science",
			Hints: []string{
				"I help people see what their eyes alone cannot.",
				"Galileo made me famous.",
				"I live in observatories and backyards alike.",
				"My biggest siblings orbit the Earth.",
				"Point me at the stars.",
			},
		},
		{
			Word:     "volcano",
			Category: "Nature",
			Hints: []string{
				"I sleep for centuries and wake up angry.",
				"Pompeii remembers me.",
				"I build islands.",
				"My breath is ash and fire.",
				"Lava comes out of me.",
			},
		},
		{
			Word:     "chess",
			Category: "Games",
			Hints: []string{
				"I am a war without casualties.",
				"My battlefield has 64 squares.",
				"Queens are my strongest soldiers.",
				"Grandmasters study me for a lifetime.",
				"Checkmate ends me.",
			},
		},
	}
}
