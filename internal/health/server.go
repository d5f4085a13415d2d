// Package health exposes the liveness endpoint required by the hosting
// platform. It carries no domain semantics.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"log/slog"

	"github.com/m3rciful/spendbot/internal/logger"
)

// Server is a minimal HTTP listener answering liveness probes.
type Server struct {
	srv *http.Server
}

// NewServer builds the server on the given listen address.
func NewServer(listen string) *Server {
	r := mux.NewRouter()
	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Bot Active"))
	}).Methods(http.MethodGet)

	return &Server{
		srv: &http.Server{
			Addr:              listen,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start serves in the background until Shutdown is called.
func (s *Server) Start() {
	go func() {
		logger.L.Info("health endpoint up",
			slog.String("component", "health"),
			slog.String("event", "listen"),
			slog.String("addr", s.srv.Addr),
		)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L.Error("health endpoint failed",
				slog.String("component", "health"),
				slog.String("event", "listen"),
				slog.String("err", err.Error()),
			)
		}
	}()
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
