// Package server exposes the analysis engine over HTTP for a single
// interactive session: upload a file, read back its statistics, export it.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/KaramelBytes/synthlab/internal/analysis"
	"github.com/KaramelBytes/synthlab/internal/logging"
	"github.com/KaramelBytes/synthlab/internal/parser"
	"github.com/KaramelBytes/synthlab/internal/session"
)

const (
	uploadField    = "file"
	exportFilename = "synthetic_data.csv"
	// multipart parts beyond this are spooled to disk
	maxFormMemory = 8 << 20
)

// Options configures a Server.
type Options struct {
	// MaxUploadBytes caps the request body of an upload.
	MaxUploadBytes int64
	// SampleRows is the number of rows shown in the HTML report.
	SampleRows int
}

// Server routes HTTP requests to the engine and the session.
type Server struct {
	router  *chi.Mux
	engine  *analysis.Engine
	session *session.Session
	logger  *zap.Logger
	opts    Options
}

// New builds a Server. A nil logger disables request logging.
func New(engine *analysis.Engine, sess *session.Session, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 50 << 20
	}
	s := &Server{
		router:  chi.NewRouter(),
		engine:  engine,
		session: sess,
		logger:  logger,
		opts:    opts,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(logging.Middleware(s.logger))
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/api/datasets", s.handleUpload)
	s.router.Get("/api/datasets/current", s.handleCurrent)
	s.router.Delete("/api/datasets/current", s.handleClear)
	s.router.Get("/api/datasets/current/export", s.handleExport)
	s.router.Get("/api/datasets/current/report", s.handleReport)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Begin(); err != nil {
		s.writeError(w, r, err)
		return
	}
	committed := false
	defer func() {
		if !committed {
			s.session.Abort()
		}
	}()

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var mbe *http.MaxBytesError
		if !errors.As(err, &mbe) {
			err = &requestError{msg: "read upload: " + err.Error()}
		}
		s.writeError(w, r, err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		s.writeError(w, r, &requestError{msg: fmt.Sprintf("missing form field %q", uploadField)})
		return
	}
	defer file.Close()

	if !parser.Supported(header.Filename) {
		s.writeError(w, r, fmt.Errorf("%s: %w", header.Filename, parser.ErrUnsupported))
		return
	}

	ds, err := s.engine.Process(header.Filename, file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.session.Commit(ds)
	committed = true
	writeJSON(w, http.StatusCreated, ds)
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	ds, err := s.session.Current()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.session.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ds, err := s.session.Current()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := analysis.WriteCSV(&buf, ds); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ds, err := s.session.Current()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(ds.HTML(s.opts.SampleRows))
}
