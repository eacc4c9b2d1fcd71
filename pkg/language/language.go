// Package language guesses the natural language of a text from its index of
// coincidence.
//
// The guess relies on fixed index bands measured on ASCII-folded corpora, so
// accents and the German Eszett should be stripped before analysis:
//
//	IC < 1.6          Random
//	1.6 <= IC < 1.8   English
//	1.8 <= IC < 1.98  Italian
//	1.98 <= IC < 2.03 French
//	2.03 <= IC        German
package language

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ssargent/coincidence/pkg/frequency"
)

// Language is the outcome of a guess.
type Language int

const (
	English Language = iota
	French
	German
	Italian
	Random
)

// Band thresholds on the index of coincidence.
const (
	EnglishThreshold = 1.6
	ItalianThreshold = 1.8
	FrenchThreshold  = 1.98
	GermanThreshold  = 2.03
)

// ErrUnknownLanguage is returned when a name matches none of the outcomes.
var ErrUnknownLanguage = errors.New("unknown language")

// Garbage is the display name of a Language value outside the enumeration.
const Garbage = "GARBAGE"

var names = [...]string{
	English: "ENGLISH",
	French:  "FRENCH",
	German:  "GERMAN",
	Italian: "ITALIAN",
	Random:  "RANDOM",
}

// All returns every outcome in declaration order.
func All() []Language {
	return []Language{English, French, German, Italian, Random}
}

// Classify maps an index of coincidence to a language.
//
// The bands are tested in ascending order and the first match wins. NaN fails
// every comparison and therefore falls through to German; degenerate texts
// with fewer than two letters end up there.
func Classify(ic float64) Language {
	if ic < EnglishThreshold {
		return Random
	} else if ic < ItalianThreshold {
		return English
	} else if ic < FrenchThreshold {
		return Italian
	} else if ic < GermanThreshold {
		return French
	}
	return German
}

// LikelyLanguage returns the guessed language of text.
func LikelyLanguage(text []byte) Language {
	return Classify(frequency.IndexOfCoincidence(text))
}

// Valid reports whether l is one of the enumerated outcomes.
func (l Language) Valid() bool {
	return l >= English && l <= Random
}

// String returns the display name, or Garbage for an out of range value.
func (l Language) String() string {
	if !l.Valid() {
		return Garbage
	}
	return names[l]
}

// Parse returns the Language whose display name matches name, ignoring case.
func Parse(name string) (Language, error) {
	for _, l := range All() {
		if strings.EqualFold(name, names[l]) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
}

// MarshalText encodes the display name.
func (l Language) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLanguage, int(l))
	}
	return []byte(names[l]), nil
}

// UnmarshalText decodes a display name.
func (l *Language) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
