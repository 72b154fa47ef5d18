package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stabilityparty/internal/config"
	"stabilityparty/internal/serverapp"
)

func main() {
	logger := log.New(os.Stdout, "", 0)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	app, err := serverapp.New(serverapp.Options{Config: &cfg, Logger: logger})
	if err != nil {
		logger.Fatalf("build server: %v", err)
	}
	defer app.Close()

	go app.Hub.Run()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf(`{"msg":"listening","addr":%q}`, cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("serve: %v", err)
		}
	case sig := <-stop:
		logger.Printf(`{"msg":"shutting down","signal":%q}`, sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Printf(`{"msg":"shutdown error","err":%q}`, err.Error())
		}
	}
}
