package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"courtside/internal/records"
)

// Server exposes the liveness and metrics endpoints the deployment
// tooling scrapes
type Server struct {
	addr    string
	server  *http.Server
	handler *Handler
}

func NewServer(addr string, reconciler *records.Reconciler, config Echo) *Server {
	handler := NewHandler(reconciler, config)

	router := mux.NewRouter()

	router.Use(recoveryMiddleware)
	router.Use(loggingMiddleware)

	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	router.HandleFunc("/metrics", handler.Metrics).Methods("GET")
	router.HandleFunc("/status", handler.Status).Methods("GET")

	return &Server{
		addr:    addr,
		handler: handler,
		server: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
	}
}

func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Msg(fmt.Sprintf("Panic serving %s: %v", r.URL.Path, rec))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().Msg(fmt.Sprintf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start)))
	})
}
