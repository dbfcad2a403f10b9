// Package httpapi serves the web voting surface: the JSON API consumed by
// the voting and admin pages, plus the static pages themselves.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/m3rciful/awardsbot/core/logger"
	"github.com/m3rciful/awardsbot/voting"
)

// Config holds HTTP server settings.
type Config struct {
	Listen    string `yaml:"listen" envconfig:"HTTP_LISTEN"`
	Port      int    `yaml:"port" envconfig:"HTTP_PORT"`
	StaticDir string `yaml:"static_dir" envconfig:"HTTP_STATIC_DIR"`
}

// NewRouter builds the API route table. staticDir may be empty to disable
// static page serving.
func NewRouter(store *voting.Store, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	h := NewHandler(store)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /api/categories", WithLogging(h.Categories))
	mux.HandleFunc("GET /api/voting-status", WithLogging(h.VotingStatus))
	mux.HandleFunc("POST /api/vote", WithLogging(h.SubmitVotes))
	mux.HandleFunc("GET /api/voter-votes/{email}", WithLogging(h.VoterVotes))

	mux.HandleFunc("POST /api/admin/verify", WithLogging(h.AdminVerify))
	mux.HandleFunc("GET /api/admin/results", WithLogging(h.AdminResults))
	mux.HandleFunc("POST /api/admin/toggle-voting", WithLogging(h.AdminToggle))

	if staticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(staticDir)))
	}

	return mux
}

// Run serves the API until the context is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, cfg Config, store *voting.Store) error {
	addr := fmt.Sprintf("%s:%d", cfg.Listen, cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           CORS(NewRouter(store, cfg.StaticDir)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "api", "listen", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http serve: %w", err)
	}
}
