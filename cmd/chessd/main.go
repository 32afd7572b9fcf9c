package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinabrahms/chessrules/internal/auth"
	"github.com/justinabrahms/chessrules/internal/config"
	"github.com/justinabrahms/chessrules/internal/store"
	"github.com/justinabrahms/chessrules/internal/web"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Parse command line flags
	var showHelp bool
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.BoolVar(&showHelp, "h", false, "Show help information")
	flag.Parse()

	if showHelp {
		showHelpMessage()
		return
	}

	// Setup logging
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.Development.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.Development.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	if cfg.Development.Debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registryOpts := []web.RegistryOption{
		web.WithIdleTimeout(cfg.Games.IdleTimeout),
		web.WithMaxGames(cfg.Games.MaxGames),
		web.WithRegistryLogger(log.Logger.With().Str("component", "registry").Logger()),
	}
	if cfg.Store.Enabled {
		db, err := store.Open(cfg.Store.Path, store.WithLogger(log.Logger.With().Str("component", "store").Logger()))
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("Failed to open game store")
		}
		defer db.Close()
		registryOpts = append(registryOpts, web.WithArchive(db))
	}
	games := web.NewRegistry(registryOpts...)
	go games.Run(ctx)

	if cfg.Auth.Secret == "" {
		log.Warn().Msg("No auth.secret configured, tokens will not survive a restart")
	}
	tokens, err := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token issuer")
	}

	hub := web.NewHub(web.WithHubLogger(log.Logger.With().Str("component", "hub").Logger()))
	go hub.Run(ctx)

	service := web.NewService(games, tokens, hub, web.WithLogger(log.Logger))

	// Create server
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      service.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Info().Str("addr", srv.Addr).Bool("store", cfg.Store.Enabled).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	cancel()

	log.Info().Msg("Server exited")
}

func showHelpMessage() {
	fmt.Println(`chessd - chess rules service

DESCRIPTION:
    Hosts chess games over HTTP. Every move is checked against the full
    legality rules (checks, pins, double checks) before it is applied.
    Spectators can follow a game over a websocket.

USAGE:
    chessd [OPTIONS]

OPTIONS:
    -h, --help    Show this help message

CONFIGURATION:
    Read from config.yaml in the current directory or ./config.
    Every key can be overridden with CHESSRULES_<SECTION>_<KEY>.

    Example config.yaml:
        server:
          host: localhost
          port: 8080
        development:
          debug: false
          log_level: info
        store:
          enabled: true
          path: chessrules.db
        auth:
          secret: "change-me"
          token_ttl: 24h
        games:
          idle_timeout: 30m
          max_games: 1000

API ENDPOINTS:
    GET  /api/health                  - Service health check
    POST /api/games                   - Create a game ({"fen": "..."} optional)
    GET  /api/games                   - List game ids
    GET  /api/games/{id}              - Board, side to move, legal moves
    DELETE /api/games/{id}            - Remove a game (Bearer token)
    GET  /api/games/{id}/moves        - Legal moves
    POST /api/games/{id}/moves        - Play {"from": "d2", "to": "d4"} (Bearer token)
    POST /api/games/{id}/undo         - Take back the last move (Bearer token)
    GET  /api/games/{id}/perft?depth= - Count move paths from the position
    GET  /ws?gameId={id}              - Spectator websocket

SQUARE NAMES:
    Files run h..a from column 0 to 7 and ranks 8..1 from row 0 to 7.
    The white king starts on d1 and the white queen on e1.

EXAMPLES:
    chessd
    CHESSRULES_SERVER_PORT=9000 chessd

    curl -X POST http://localhost:8080/api/games`)
}
