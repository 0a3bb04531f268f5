package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/KaramelBytes/synthlab/internal/analysis"
	"github.com/KaramelBytes/synthlab/internal/parser"
	"github.com/KaramelBytes/synthlab/internal/session"
)

// requestError marks a malformed request.
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

// statusFor maps an error to the HTTP status reported to the client.
func statusFor(err error) int {
	var (
		mbe *http.MaxBytesError
		re  *requestError
		pe  *parser.ParseError
	)
	switch {
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &re):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, session.ErrNoDataset):
		return http.StatusNotFound
	case errors.Is(err, parser.ErrUnsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &pe), errors.Is(err, parser.ErrEmptyData), errors.Is(err, analysis.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	fields := []zap.Field{zap.Error(err), zap.Int("status", status)}
	if id := middleware.GetReqID(r.Context()); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields...)
	} else {
		s.logger.Debug("request rejected", fields...)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
