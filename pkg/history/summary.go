package history

import (
	"github.com/ssargent/coincidence/pkg/frequency"
	"github.com/ssargent/coincidence/pkg/language"
)

// Summary is the analysis of several entries taken as one text.
type Summary struct {
	Entries  int
	Analysis frequency.Analysis
	Language language.Language
}

// Summarize merges the letter tables of entries. The result equals the
// analysis of their texts concatenated.
func Summarize(entries []Entry) Summary {
	var occ frequency.Occurrences
	var inputSize uint64
	for _, e := range entries {
		occ = occ.Add(e.Analysis.Occurrences)
		inputSize += e.Analysis.InputSize
	}

	a := frequency.FromOccurrences(occ, inputSize)
	return Summary{
		Entries:  len(entries),
		Analysis: a,
		Language: language.Classify(a.Index),
	}
}

// FilterLanguage returns the entries guessed as lang, keeping their order.
func FilterLanguage(entries []Entry, lang language.Language) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Language == lang {
			out = append(out, e)
		}
	}
	return out
}
