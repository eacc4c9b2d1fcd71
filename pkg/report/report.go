// Package report formats analysis results for the command line.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ssargent/coincidence/pkg/frequency"
	"github.com/ssargent/coincidence/pkg/language"
)

var (
	ErrUnknownMode   = errors.New("unknown mode")
	ErrUnknownFormat = errors.New("unknown format")
)

// Mode selects which statistic is reported.
type Mode int

const (
	ModeIndex Mode = iota
	ModeKappa
	ModeLanguage
)

// ParseMode accepts "ic", "index", "kappa" and "language".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ic", "index":
		return ModeIndex, nil
	case "kappa":
		return ModeKappa, nil
	case "language":
		return ModeLanguage, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeIndex:
		return "ic"
	case ModeKappa:
		return "kappa"
	case ModeLanguage:
		return "language"
	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Format selects the output encoding.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// ParseFormat accepts "text" and "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "text"
}

// Float is a float64 whose JSON form survives NaN and infinities.
// Finite values are JSON numbers; the others are the strings "NaN", "+Inf" and "-Inf".
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return json.Marshal(v)
}

func (f *Float) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid float %q: %w", s, err)
		}
		*f = Float(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Result is the outcome reported for one input.
type Result struct {
	Mode     Mode
	Value    Float
	Language language.Language
}

// NewResult picks the statistic selected by mode out of an analysis.
func NewResult(mode Mode, a frequency.Analysis) Result {
	r := Result{Mode: mode}
	switch mode {
	case ModeKappa:
		r.Value = Float(a.Kappa)
	case ModeLanguage:
		r.Value = Float(a.Index)
		r.Language = language.Classify(a.Index)
	default:
		r.Value = Float(a.Index)
	}
	return r
}

type jsonResult struct {
	Mode     Mode               `json:"mode"`
	Kappa    *Float             `json:"kappa_plaintext,omitempty"`
	Index    *Float             `json:"index_of_coincidence,omitempty"`
	Language *language.Language `json:"language,omitempty"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	out := jsonResult{Mode: r.Mode}
	value := r.Value
	switch r.Mode {
	case ModeKappa:
		out.Kappa = &value
	case ModeLanguage:
		lang := r.Language
		out.Language = &lang
	default:
		out.Index = &value
	}
	return json.Marshal(out)
}

// Text returns the single line printed for r, without a trailing newline.
func (r Result) Text() string {
	switch r.Mode {
	case ModeKappa:
		return fmt.Sprintf("Kappa Plaintext: %f", float64(r.Value))
	case ModeLanguage:
		return fmt.Sprintf("Likely Language: %s", r.Language)
	default:
		return fmt.Sprintf("Index of Coincidence: %f", float64(r.Value))
	}
}

// Write prints r on w as a single line in the requested format.
func Write(w io.Writer, r Result, format Format) error {
	switch format {
	case FormatJSON:
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case FormatText:
		_, err := fmt.Fprintln(w, r.Text())
		return err
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormat, int(format))
	}
}
