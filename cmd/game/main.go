package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Garsondee/Memory-Duel/internal/config"
	"github.com/Garsondee/Memory-Duel/internal/game"
	"github.com/Garsondee/Memory-Duel/internal/identity"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
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

	var provider identity.Provider
	switch cfg.Identity.Mode {
	case "local":
		iss, err := identity.NewIssuer(cfg.Identity.Secret, cfg.Identity.Issuer, cfg.Identity.TTL, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create identity issuer")
		}
		provider = iss
	default:
		provider = identity.NewHTTPProvider(cfg.Identity.BaseURL, cfg.Identity.Timeout)
	}

	g, err := game.New(cfg, provider)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create game")
	}
	defer g.Close()

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal().Err(err).Msg("game exited")
	}
}
