package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/naveenspark/venuebook/internal/config"
	"github.com/naveenspark/venuebook/internal/logger"
	"github.com/naveenspark/venuebook/internal/mockapi"
)

type DevserverCmd struct {
	Addr string `help:"Listen address." default:"127.0.0.1:8080"`
}

func (d *DevserverCmd) Run(ctx context.Context, globals *Globals) error {
	lg := logger.Setup(os.Stderr, true, true)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              d.Addr,
		Handler:           devRouter(mockapi.New(mockapi.WithLogger(lg))),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	lg.Info().Str("addr", d.Addr).Msg("mock backend listening")
	fmt.Fprintf(os.Stderr, "export %s=http://%s/api/\n", config.EnvAPIURL, d.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("devserver: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("devserver shutdown: %w", err)
	}
	lg.Info().Msg("mock backend stopped")
	return nil
}

func devRouter(mock *mockapi.Server) http.Handler {
	r := chi.NewRouter()
	r.Mount("/api", mock.Router())
	return r
}
