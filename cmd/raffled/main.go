package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"raffle/internal/api"
	"raffle/internal/config"
	"raffle/internal/logger"
	"raffle/internal/oracle"
	"raffle/internal/payout"
	"raffle/internal/raffle"
	"raffle/internal/storage"
	"raffle/internal/upkeep"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)

	go func() {
		cfg, err := config.Load()
		if err != nil {
			errCh <- err
			return
		}

		logger.Initialize(logger.Configuration{
			LogFile:   cfg.LogFile,
			ErrorFile: cfg.LogErrorFile,
			Level:     cfg.LogLevel,
			Console:   cfg.LogConsole,
		})

		store, err := storage.NewSqliteStorage(cfg.DatabasePath)
		if err != nil {
			errCh <- err
			return
		}

		bank := payout.NewMemoryBank()
		coordinator := oracle.NewLocalCoordinator(cfg.OracleDelay)
		defer coordinator.Close()

		engine := raffle.New(raffle.Config{
			EntryFee:             cfg.EntryFeeWei,
			Interval:             cfg.Interval,
			KeyHash:              cfg.KeyHash,
			SubscriptionID:       cfg.SubscriptionID,
			CallbackGasLimit:     cfg.CallbackGasLimit,
			MinimumConfirmations: cfg.MinimumConfirmations,
		}, coordinator, bank, raffle.WithRecorder(store))
		coordinator.Bind(engine)

		keeper := upkeep.NewKeeper(engine, cfg.UpkeepPoll)
		go keeper.Run(ctx)

		router := api.SetupRoutes(api.NewHandler(engine, store))
		server := &http.Server{Addr: cfg.ListenAddr, Handler: router}

		go func() {
			<-ctx.Done()
			_ = server.Shutdown(context.Background())
		}()

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		fmt.Printf("stopping on error: %v\n", err)
		cancel()
	case <-waitForInterrupt():
		fmt.Println("interrupt received")
		cancel()
	}
}

func waitForInterrupt() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	return sigCh
}
