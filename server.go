package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

/////////////////////
// Response helpers

func RespondInternalServiceError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte(err.Error()))
}

func RespondText(w http.ResponseWriter, body string) {
	w.Write([]byte(body))
}

func RespondJSON(w http.ResponseWriter, body any) {
	w.Header().Add("Content-Type", "application/json")
	w.Header().Add("Cache-Control", "no-cache, no-store")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		RespondInternalServiceError(w, err)
	}
}

type statusResponse struct {
	Status
	Build BuildInfo `json:"build"`
}

// NewRouter builds the read-only status API. Nothing reachable from it can
// change the relay.
func NewRouter(build BuildInfo, monitor *Monitor) http.Handler {
	slog := log.With().Str("component", "status").Logger()

	r := chi.NewRouter()
	r.Use(LoggerMiddleware(&slog))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		RespondText(w, "ok")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			RespondJSON(w, statusResponse{
				Status: monitor.Status(),
				Build:  build,
			})
		})

		r.Get("/history", func(w http.ResponseWriter, r *http.Request) {
			RespondJSON(w, monitor.History())
		})

		r.Get("/events", createWebsocketHandler(monitor))
	})

	return r
}

// StartServer serves the status API until ctx is cancelled.
func StartServer(ctx context.Context, config *Config, build BuildInfo, monitor *Monitor) error {
	srv := &http.Server{
		Addr:              config.Address(),
		Handler:           NewRouter(build, monitor),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Err(err).Msg("Status server shutdown failed")
		}
	}()

	log.Info().Str("listen", config.Address()).Msg("launching status server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
