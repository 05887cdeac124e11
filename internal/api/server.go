package api

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mkurbatov/chemscribe/internal/config"
	"github.com/mkurbatov/chemscribe/internal/docstore"
	"github.com/mkurbatov/chemscribe/internal/keystore"
	"github.com/mkurbatov/chemscribe/internal/pipeline"
	"github.com/mkurbatov/chemscribe/internal/recognize"
)

// Server is the HTTP API server for chemscribe.
type Server struct {
	router    chi.Router
	processor *pipeline.Processor
	keys      *keystore.Store
	docs      *docstore.Store
	stats     *recognize.CallStats
	log       *slog.Logger
	cfg       config.Config

	// docIndex makes display filenames unique across requests.
	docIndex atomic.Int64
}

// NewServer creates and configures the HTTP server.
func NewServer(processor *pipeline.Processor, keys *keystore.Store, docs *docstore.Store, stats *recognize.CallStats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		processor: processor,
		keys:      keys,
		docs:      docs,
		stats:     stats,
		log:       log,
		cfg:       cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)

	r.Get("/api/status", s.handleStatus)
	r.Post("/api/set-key", s.handleSetKey)
	r.Post("/api/clear-key", s.handleClearKey)
	r.Post("/api/process", s.handleProcess)
	r.Get("/api/stats/llm", s.handleLLMStats)

	r.Get("/download/{token}", s.handleDownload)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) nextDocIndex() int64 {
	return s.docIndex.Add(1)
}
