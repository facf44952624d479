package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/gaurav-prasanna/cxserver/lderr"
)

type translateRequest struct {
	HTML string `json:"html"`
}

type translateResponse struct {
	Result string `json:"result"`
}

// handleTranslatePrep decodes {"html": "..."}, runs it through the
// pipeline, and always responds with {"result": "..."}: the prepared
// HTML on success, or the error message on failure. Every pipeline
// error collapses to HTTP 500 rather than a differentiated status
// code — callers distinguish failure kinds, if they need to, from the
// logged error kind, not from the response status.
func (s *Server) handleTranslatePrep(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeResult(w, http.StatusInternalServerError, err.Error())
		return
	}

	out, err := s.orchestrator.Run(r.Context(), req.HTML)
	if err != nil {
		s.logError(r, err)
		s.writeResult(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeResult(w, http.StatusOK, out)
}

func (s *Server) logError(r *http.Request, err error) {
	fields := []zap.Field{
		zap.String("request_id", requestIDFrom(r.Context())),
		zap.Error(err),
	}
	switch err.(type) {
	case *lderr.MalformedInput:
		fields = append(fields, zap.String("kind", "malformed_input"))
	case *lderr.SegmenterError:
		fields = append(fields, zap.String("kind", "segmenter_error"))
	case *lderr.ConfigError:
		fields = append(fields, zap.String("kind", "config_error"))
	default:
		fields = append(fields, zap.String("kind", "internal"))
	}
	s.log.Warn("translate-prep failed", fields...)
}

func (s *Server) writeResult(w http.ResponseWriter, status int, result string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(translateResponse{Result: result})
}
