package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/ssargent/coincidence/pkg/frequency"
	"github.com/ssargent/coincidence/pkg/history"
	"github.com/ssargent/coincidence/pkg/report"
)

type entryJSON struct {
	ID                 string            `json:"id"`
	CreatedAt          time.Time         `json:"created_at"`
	Source             string            `json:"source"`
	InputSize          uint64            `json:"input_size"`
	Letters            uint64            `json:"letters"`
	KappaPlaintext     report.Float      `json:"kappa_plaintext"`
	IndexOfCoincidence report.Float      `json:"index_of_coincidence"`
	Language           string            `json:"language"`
	Occurrences        map[string]uint64 `json:"occurrences,omitempty"`
}

type summaryJSON struct {
	Entries            int               `json:"entries"`
	InputSize          uint64            `json:"input_size"`
	Letters            uint64            `json:"letters"`
	KappaPlaintext     report.Float      `json:"kappa_plaintext"`
	IndexOfCoincidence report.Float      `json:"index_of_coincidence"`
	Language           string            `json:"language"`
	Occurrences        map[string]uint64 `json:"occurrences,omitempty"`
}

func occurrenceMap(occ frequency.Occurrences) map[string]uint64 {
	occurrences := make(map[string]uint64)
	for i, n := range occ {
		if n > 0 {
			occurrences[string(rune('a'+i))] = n
		}
	}
	return occurrences
}

func toEntryJSON(e history.Entry) entryJSON {
	occurrences := occurrenceMap(e.Analysis.Occurrences)
	return entryJSON{
		ID:                 e.ID.String(),
		CreatedAt:          e.CreatedAt.UTC(),
		Source:             e.Source,
		InputSize:          e.Analysis.InputSize,
		Letters:            e.Analysis.Letters,
		KappaPlaintext:     report.Float(e.Analysis.Kappa),
		IndexOfCoincidence: report.Float(e.Analysis.Index),
		Language:           e.Language.String(),
		Occurrences:        occurrences,
	}
}

// outputEntryJSON displays a single entry as JSON
func outputEntryJSON(w io.Writer, e history.Entry) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(toEntryJSON(e))
}

// outputEntriesJSON displays multiple entries as a JSON array
func outputEntriesJSON(w io.Writer, entries []history.Entry) error {
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryJSON(e))
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// outputEntryTable displays a single entry with its letter counts
func outputEntryTable(w io.Writer, e history.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "ID:\t%s\n", e.ID)
	fmt.Fprintf(tw, "Created:\t%s\n", e.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(tw, "Source:\t%s\n", e.Source)
	fmt.Fprintf(tw, "Bytes:\t%d\n", e.Analysis.InputSize)
	fmt.Fprintf(tw, "Letters:\t%d\n", e.Analysis.Letters)
	fmt.Fprintf(tw, "Kappa Plaintext:\t%f\n", e.Analysis.Kappa)
	fmt.Fprintf(tw, "Index of Coincidence:\t%f\n", e.Analysis.Index)
	fmt.Fprintf(tw, "Likely Language:\t%s\n", e.Language)

	for i := 0; i < frequency.AlphabetSize; i++ {
		if n := e.Analysis.Occurrences[i]; n > 0 {
			fmt.Fprintf(tw, "  %c:\t%d\n", 'a'+i, n)
		}
	}

	return tw.Flush()
}

// outputEntriesTable displays multiple entries in table format
func outputEntriesTable(w io.Writer, entries []history.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No analyses found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSOURCE\tLETTERS\tIC\tLANGUAGE")

	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.4f\t%s\n",
			e.ID,
			e.CreatedAt.Format(time.RFC3339),
			e.Source,
			e.Analysis.Letters,
			e.Analysis.Index,
			e.Language,
		)
	}

	return tw.Flush()
}

// outputSummaryJSON displays a merged analysis as JSON
func outputSummaryJSON(w io.Writer, s history.Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summaryJSON{
		Entries:            s.Entries,
		InputSize:          s.Analysis.InputSize,
		Letters:            s.Analysis.Letters,
		KappaPlaintext:     report.Float(s.Analysis.Kappa),
		IndexOfCoincidence: report.Float(s.Analysis.Index),
		Language:           s.Language.String(),
		Occurrences:        occurrenceMap(s.Analysis.Occurrences),
	})
}

// outputSummaryTable displays a merged analysis in table format
func outputSummaryTable(w io.Writer, s history.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Analyses:\t%d\n", s.Entries)
	fmt.Fprintf(tw, "Bytes:\t%d\n", s.Analysis.InputSize)
	fmt.Fprintf(tw, "Letters:\t%d\n", s.Analysis.Letters)
	fmt.Fprintf(tw, "Kappa Plaintext:\t%f\n", s.Analysis.Kappa)
	fmt.Fprintf(tw, "Index of Coincidence:\t%f\n", s.Analysis.Index)
	fmt.Fprintf(tw, "Likely Language:\t%s\n", s.Language)

	return tw.Flush()
}
