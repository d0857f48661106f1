package main

import (
	"os"

	"github.com/yigit/clubhub/internal/pkg/logger"
	"github.com/yigit/clubhub/internal/server"
)

func main() {
	if err := run(); err != nil {
		logger.Error().Err(err).Msg("clubhub stopped with an error")
		os.Exit(1)
	}
	logger.Info().Msg("clubhub stopped")
}

// run builds the server and blocks until SIGINT or SIGTERM
func run() error {
	srv, err := server.NewServer()
	if err != nil {
		return err
	}
	return srv.Run()
}
