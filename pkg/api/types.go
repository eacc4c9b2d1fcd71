package api

import (
	"context"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/ssargent/coincidence/pkg/codec"
	"github.com/ssargent/coincidence/pkg/frequency"
	"github.com/ssargent/coincidence/pkg/history"
	"github.com/ssargent/coincidence/pkg/language"
	"github.com/ssargent/coincidence/pkg/report"
)

// DefaultMaxBodyBytes bounds the text accepted by the analyze endpoint.
const DefaultMaxBodyBytes = 16 << 20

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind         string
	Port         int
	APIKey       string // Empty disables authentication
	MaxBodyBytes int64
}

// AnalysisResponse describes one analyzed text
type AnalysisResponse struct {
	ID                 string            `json:"id,omitempty"`
	CreatedAt          *time.Time        `json:"created_at,omitempty"`
	Source             string            `json:"source,omitempty"`
	InputSize          uint64            `json:"input_size"`
	Letters            uint64            `json:"letters"`
	KappaPlaintext     report.Float      `json:"kappa_plaintext"`
	IndexOfCoincidence report.Float      `json:"index_of_coincidence"`
	Language           language.Language `json:"language"`
	Occurrences        map[string]uint64 `json:"occurrences,omitempty"`
}

// SummaryResponse describes several recorded analyses merged into one
type SummaryResponse struct {
	Entries int `json:"entries"`
	AnalysisResponse
}

// HistoryStore is the subset of history.Store used by the server
type HistoryStore interface {
	Put(ctx context.Context, r *codec.Record) (history.Entry, error)
	Get(ctx context.Context, id ksuid.KSUID) (history.Entry, error)
	List(ctx context.Context, limit int) ([]history.Entry, error)
	Delete(ctx context.Context, id ksuid.KSUID) error
}

func newAnalysisResponse(a frequency.Analysis) AnalysisResponse {
	occurrences := make(map[string]uint64)
	for i, n := range a.Occurrences {
		if n > 0 {
			occurrences[string(rune('a'+i))] = n
		}
	}
	return AnalysisResponse{
		InputSize:          a.InputSize,
		Letters:            a.Letters,
		KappaPlaintext:     report.Float(a.Kappa),
		IndexOfCoincidence: report.Float(a.Index),
		Language:           language.Classify(a.Index),
		Occurrences:        occurrences,
	}
}

func newEntryResponse(e history.Entry) AnalysisResponse {
	resp := newAnalysisResponse(e.Analysis)
	created := e.CreatedAt.UTC()
	resp.ID = e.ID.String()
	resp.CreatedAt = &created
	resp.Source = e.Source
	resp.Language = e.Language
	return resp
}

func newSummaryResponse(s history.Summary) SummaryResponse {
	resp := newAnalysisResponse(s.Analysis)
	resp.Language = s.Language
	return SummaryResponse{Entries: s.Entries, AnalysisResponse: resp}
}
