// Package webhook receives Crisp events over HTTP and hands them to the
// ingestion pipeline.
package webhook

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sandevgo/relancebot/internal/service/ingest"
	"github.com/sandevgo/relancebot/pkg/log"
)

type Server struct {
	httpSrv *http.Server
}

func NewServer(addr string, pipeline *ingest.Pipeline) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	h := &handler{pipeline: pipeline}
	r.Post("/hooks/crisp", h.handleEvent)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &Server{
		httpSrv: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.httpSrv.Addr).Msg("starting webhook server")

	// Handlers inherit the signal-bound context with its logger
	s.httpSrv.BaseContext = func(net.Listener) context.Context { return ctx }

	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
