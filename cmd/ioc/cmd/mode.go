package cmd

import (
	"strconv"

	"github.com/ssargent/coincidence/pkg/history"
	"github.com/ssargent/coincidence/pkg/language"
	"github.com/ssargent/coincidence/pkg/report"
)

// modeSelection is shared by the -i, -k and -l flags. pflag sets values in
// command line order, so the last mode flag given wins.
type modeSelection struct {
	mode report.Mode
	set  bool
}

// modeFlag is the pflag.Value of a single mode flag
type modeFlag struct {
	selection *modeSelection
	mode      report.Mode
}

func (f *modeFlag) String() string {
	return strconv.FormatBool(f.selection.set && f.selection.mode == f.mode)
}

func (f *modeFlag) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if v {
		f.selection.mode = f.mode
		f.selection.set = true
	}
	return nil
}

func (f *modeFlag) Type() string {
	return "bool"
}

// languageFilter is the --language flag of the history commands
type languageFilter struct {
	lang language.Language
	set  bool
}

func (f *languageFilter) String() string {
	if !f.set {
		return ""
	}
	return f.lang.String()
}

func (f *languageFilter) Set(s string) error {
	if err := f.lang.UnmarshalText([]byte(s)); err != nil {
		return err
	}
	f.set = true
	return nil
}

func (f *languageFilter) Type() string {
	return "language"
}

// apply keeps the entries of the selected language, then applies limit
func (f *languageFilter) apply(entries []history.Entry, limit int) []history.Entry {
	if !f.set {
		return entries
	}
	entries = history.FilterLanguage(entries, f.lang)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
