package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Garsondee/Memory-Duel/internal/config"
	"github.com/Garsondee/Memory-Duel/internal/identity"
	"github.com/Garsondee/Memory-Duel/internal/referee"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	seed := flag.Int64("seed", time.Now().UnixNano(), "deck shuffle seed")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Log.Console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	zerolog.SetGlobalLevel(cfg.Level())

	iss, err := identity.NewIssuer(cfg.Identity.Secret, cfg.Identity.Issuer, cfg.Identity.TTL, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create identity issuer")
	}

	srv, err := referee.NewServer(referee.Options{
		PublicURL:      cfg.Referee.PublicURL,
		ImageDir:       cfg.Referee.ImageDir,
		Back:           cfg.Referee.Back,
		Faces:          cfg.Referee.Faces,
		Cards:          cfg.Board.Count(),
		AllowedOrigins: cfg.Referee.AllowedOrigins,
		Connection:     referee.DefaultConnectionConfig(),
		Seed:           *seed,
	}, iss)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create referee")
	}

	server := &http.Server{
		Addr:              cfg.Referee.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("public_url", cfg.Referee.PublicURL).
			Str("image_dir", cfg.Referee.ImageDir).
			Msg("referee starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Hijacked WebSockets are not tracked by Shutdown.
	srv.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	st := srv.Stats()
	log.Info().Int("finished_matches", st.Finished).Msg("referee shutdown complete")
}
