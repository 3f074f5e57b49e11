package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/joseph-ayodele/quotes-importer/internal/entity"
	"github.com/joseph-ayodele/quotes-importer/internal/extract"
	"github.com/joseph-ayodele/quotes-importer/internal/pipeline"
)

// Importer is what the upload surface needs from the pipeline.
type Importer interface {
	ParseDocument(ctx context.Context, path string) (entity.Bundle, extract.TextExtractionResult, error)
	ImportBundle(ctx context.Context, source string, b entity.Bundle) pipeline.UnitResult
}

type Config struct {
	MaxUploadSize int64 // bytes; default 32MB
}

type Server struct {
	importer Importer
	cfg      Config
	logger   *slog.Logger
}

func New(importer Importer, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = 32 << 20
	}
	return &Server{importer: importer, cfg: cfg, logger: logger}
}

// NewRouter wires the HTTP routes.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logging(s.logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", s.Health)
	r.Post("/upload", s.Upload)

	return r
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
