package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"pushnotify/api"
)

func main() {
	args := ParseArgs()
	if err := args.Validate(); err != nil {
		slog.Error("invalid arguments", slog.Any("error", err))
		os.Exit(2)
	}
	logger, err := newLogger(args, os.Stdout)
	if err != nil {
		slog.Error("invalid log level", slog.Any("error", err))
		os.Exit(2)
	}
	slog.SetDefault(logger)
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		gin.SetMode(gin.ReleaseMode)
	}

	server, err := api.NewServer(args.ServerConfig, api.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create server", slog.Any("error", err))
		os.Exit(1)
	}
	defer server.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(); err != nil {
		logger.Error("failed to start server", slog.Any("error", err))
		return
	}
	if err := server.Run(ctx); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
	}
}

// newLogger 依日誌等級建立輸出 JSON 的 logger
func newLogger(args Args, w io.Writer) (*slog.Logger, error) {
	level, err := args.Level()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), nil
}
