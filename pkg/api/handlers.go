package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ssargent/coincidence/pkg/codec"
	"github.com/ssargent/coincidence/pkg/frequency"
	"github.com/ssargent/coincidence/pkg/history"
	"github.com/ssargent/coincidence/pkg/language"
)

const defaultListLimit = 20

// Server holds the API server state
type Server struct {
	history HistoryStore
	config  ServerConfig
	metrics *Metrics
	logger  *slog.Logger
}

// NewServer creates a new API server. history may be nil, which disables
// the history endpoints and recording.
func NewServer(history HistoryStore, config ServerConfig, metrics *Metrics, logger *slog.Logger) *Server {
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		history: history,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]interface{}{
		"status":  "healthy",
		"history": s.history != nil,
	})
}

// handleAnalyze computes the statistics of the request body. With
// record=true the analysis is stored in the history.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			sendError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	record, err := parseBool(r.URL.Query().Get("record"))
	if err != nil {
		sendError(w, "Invalid record parameter", http.StatusBadRequest)
		return
	}

	a := frequency.Analyze(body)
	resp := newAnalysisResponse(a)
	s.metrics.RecordAnalysis(resp.Language, a.InputSize, a.Letters)

	if !record {
		sendSuccess(w, resp)
		return
	}

	if s.history == nil {
		sendError(w, "History is disabled", http.StatusServiceUnavailable)
		return
	}

	source := r.URL.Query().Get("source")
	if source == "" {
		source = "api"
	}
	entry, err := s.history.Put(r.Context(), codec.NewRecord(source, a.InputSize, a.Occurrences))
	s.metrics.RecordHistoryOperation("put", err == nil)
	if err != nil {
		s.logger.Error("failed to record analysis", "error", err)
		sendError(w, "Failed to record analysis", http.StatusInternalServerError)
		return
	}

	sendSuccess(w, newEntryResponse(entry))
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if !s.requireHistory(w) {
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			sendError(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, ok := s.listEntries(w, r, limit)
	if !ok {
		return
	}

	resp := make([]AnalysisResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, newEntryResponse(e))
	}
	sendSuccess(w, resp)
}

// handleSummary merges every recorded analysis, optionally only those of
// one language, into a single analysis.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if !s.requireHistory(w) {
		return
	}

	entries, ok := s.listEntries(w, r, 0)
	if !ok {
		return
	}
	sendSuccess(w, newSummaryResponse(history.Summarize(entries)))
}

// listEntries lists the history newest first, applying the language query
// parameter before limit.
func (s *Server) listEntries(w http.ResponseWriter, r *http.Request, limit int) ([]history.Entry, bool) {
	var (
		lang     language.Language
		filtered bool
	)
	if raw := r.URL.Query().Get("language"); raw != "" {
		parsed, err := language.Parse(raw)
		if err != nil {
			sendError(w, "Invalid language parameter", http.StatusBadRequest)
			return nil, false
		}
		lang, filtered = parsed, true
	}

	fetch := limit
	if filtered {
		fetch = 0
	}
	entries, err := s.history.List(r.Context(), fetch)
	s.metrics.RecordHistoryOperation("list", err == nil)
	if err != nil {
		s.logger.Error("failed to list analyses", "error", err)
		sendError(w, "Failed to list analyses", http.StatusInternalServerError)
		return nil, false
	}

	if filtered {
		entries = history.FilterLanguage(entries, lang)
		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}
	}
	return entries, true
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if !s.requireHistory(w) {
		return
	}

	id, err := history.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid analysis id", http.StatusBadRequest)
		return
	}

	entry, err := s.history.Get(r.Context(), id)
	s.metrics.RecordHistoryOperation("get", err == nil)
	if err != nil {
		s.sendHistoryError(w, err)
		return
	}
	sendSuccess(w, newEntryResponse(entry))
}

func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	if !s.requireHistory(w) {
		return
	}

	id, err := history.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid analysis id", http.StatusBadRequest)
		return
	}

	err = s.history.Delete(r.Context(), id)
	s.metrics.RecordHistoryOperation("delete", err == nil)
	if err != nil {
		s.sendHistoryError(w, err)
		return
	}
	sendSuccess(w, map[string]string{"deleted": id.String()})
}

func (s *Server) requireHistory(w http.ResponseWriter) bool {
	if s.history == nil {
		sendError(w, "History is disabled", http.StatusServiceUnavailable)
		return false
	}
	return true
}

func (s *Server) sendHistoryError(w http.ResponseWriter, err error) {
	if errors.Is(err, history.ErrNotFound) {
		sendError(w, "Analysis not found", http.StatusNotFound)
		return
	}
	s.logger.Error("history operation failed", "error", err)
	sendError(w, "History operation failed", http.StatusInternalServerError)
}

func parseBool(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
