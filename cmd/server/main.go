package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"gatekv/internal/config"
	"gatekv/internal/creator"
	"gatekv/internal/logger"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	zapLogger, err := logger.New(&conf.LoggingConfig)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	server, prom, err := creator.NewCreator(zapLogger, conf).CreateServer()
	if err != nil {
		zapLogger.Fatal("Failed to create server", zap.Error(err))
	}

	if err := server.Listen(); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.Serve(ctx); err != nil {
			zapLogger.Error("server stopped with error", zap.Error(err))
		}
	}()

	if prom != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := prom.Serve(ctx, zapLogger, conf.MetricsConfig.Address); err != nil {
				zapLogger.Error("metrics server stopped with error", zap.Error(err))
			}
		}()
	}

	shutdown(zapLogger, cancel)
	wg.Wait()
	zapLogger.Info("server stopped")
}

func shutdown(logger *zap.Logger, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan,
		syscall.SIGINT,
		syscall.SIGTERM,
	)

	<-sigChan
	logger.Info("shutting down server...")
	cancel()
}
