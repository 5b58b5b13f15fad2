// File: main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lguibr/ludo/bollywood"
	"github.com/lguibr/ludo/game"
	"github.com/lguibr/ludo/server"
	"github.com/lguibr/ludo/utils"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := utils.LoadConfigFromEnv()
	if err != nil {
		utils.SetupLogger(utils.DefaultConfig())
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	utils.SetupLogger(cfg)

	engine := bollywood.NewEngine()
	broadcasterPID := engine.Spawn(bollywood.NewProps(game.NewBroadcasterProducer()).WithMailboxSize(utils.HubMailboxSize))
	if broadcasterPID == nil {
		log.Fatal().Msg("failed to spawn broadcaster")
	}
	roomManagerPID := engine.Spawn(bollywood.NewProps(game.NewRoomManagerProducer(engine, cfg, broadcasterPID)).WithMailboxSize(utils.HubMailboxSize))
	if roomManagerPID == nil {
		log.Fatal().Msg("failed to spawn room manager")
	}

	srv := server.New(engine, roomManagerPID, broadcasterPID, cfg)
	httpServer := &http.Server{
		Addr:    cfg.Addr(),
		Handler: srv.Routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.Addr()).Int("maxRooms", cfg.MaxRooms).Msg("ludo server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown incomplete")
	}
	engine.Shutdown(cfg.ShutdownTimeout)
	log.Info().Msg("bye")
}
