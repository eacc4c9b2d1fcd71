package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/coincidence/pkg/api"
	"github.com/ssargent/coincidence/pkg/di"
)

// isolate points the default config and history locations at a temp dir
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", home+"/data")
	return home
}

func runCmd(t *testing.T, c *di.Container, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	var stdout, stderr bytes.Buffer
	root := NewRootCmd(c)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

type fakeServerFactory struct {
	starter *fakeServerStarter
}

func (f *fakeServerFactory) CreateServerStarter() api.ServerStarter {
	return f.starter
}

type fakeServerStarter struct {
	called  bool
	history api.HistoryStore
	config  api.ServerConfig
	err     error
}

func (s *fakeServerStarter) StartServer(ctx context.Context, history api.HistoryStore, config api.ServerConfig, logger *slog.Logger) error {
	s.called = true
	s.history = history
	s.config = config
	return s.err
}

func TestRootAnalyze(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		input    string
		expected string
	}{
		{"default is index", nil, "aaaa", "Index of Coincidence: 26.000000\n"},
		{"index flag", []string{"-i"}, "aaaa", "Index of Coincidence: 26.000000\n"},
		{"kappa flag", []string{"--kappa"}, "aaaa", "Kappa Plaintext: 1.000000\n"},
		{"language flag", []string{"-l"}, "aaaa", "Likely Language: GERMAN\n"},
		{"alphabet", nil, "abcdefghijklmnopqrstuvwxyz", "Index of Coincidence: 0.000000\n"},
		{"alphabet language", []string{"-l"}, "abcdefghijklmnopqrstuvwxyz", "Likely Language: RANDOM\n"},
		{"empty input", nil, "", "Index of Coincidence: NaN\n"},
		{"single letter kappa", []string{"-k"}, "a", "Kappa Plaintext: NaN\n"},
		{"no lowercase letters language", []string{"-l"}, "HELLO 123", "Likely Language: GERMAN\n"},
		{"non letters ignored", []string{"-k"}, "a1b!c ", "Kappa Plaintext: 0.000000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			stdout, _, err := runCmd(t, di.NewContainer(), strings.NewReader(tt.input), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stdout)
		})
	}
}

func TestRootLastModeFlagWins(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"kappa then language", []string{"-k", "-l"}, "Likely Language: GERMAN\n"},
		{"language then kappa", []string{"-l", "-k"}, "Kappa Plaintext: 1.000000\n"},
		{"combined shorthands", []string{"-kl"}, "Likely Language: GERMAN\n"},
		{"combined then index", []string{"-lk", "-i"}, "Index of Coincidence: 26.000000\n"},
		{"long flags", []string{"--language", "--index", "--kappa"}, "Kappa Plaintext: 1.000000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			stdout, _, err := runCmd(t, di.NewContainer(), strings.NewReader("aaaa"), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stdout)
		})
	}
}

func TestRootJSONFormat(t *testing.T) {
	isolate(t)

	stdout, _, err := runCmd(t, di.NewContainer(), strings.NewReader("aaaa"), "-k", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"kappa","kappa_plaintext":1}`, stdout)
	assert.True(t, strings.HasSuffix(stdout, "\n"))

	stdout, _, err = runCmd(t, di.NewContainer(), strings.NewReader(""), "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"ic","index_of_coincidence":"NaN"}`, stdout)
}

func TestRootConfigDefaults(t *testing.T) {
	home := isolate(t)
	configPath := home + "/ioc.yaml"
	require.NoError(t, writeFile(configPath, "analysis:\n  mode: language\n  format: json\n"))

	stdout, _, err := runCmd(t, di.NewContainer(), strings.NewReader("aaaa"), "--config", configPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"language","language":"GERMAN"}`, stdout)

	// Flags override the config
	stdout, _, err = runCmd(t, di.NewContainer(), strings.NewReader("aaaa"), "--config", configPath, "-i", "-o", "text")
	require.NoError(t, err)
	assert.Equal(t, "Index of Coincidence: 26.000000\n", stdout)
}

func TestRootErrors(t *testing.T) {
	t.Run("unknown flag is a usage error", func(t *testing.T) {
		isolate(t)
		_, _, err := runCmd(t, di.NewContainer(), nil, "--bogus")
		require.Error(t, err)
		assert.Equal(t, ExitUsage, ExitCode(err))
	})

	t.Run("unknown shorthand is a usage error", func(t *testing.T) {
		isolate(t)
		_, _, err := runCmd(t, di.NewContainer(), nil, "-x")
		require.Error(t, err)
		assert.Equal(t, ExitUsage, ExitCode(err))
	})

	t.Run("positional arguments are a usage error", func(t *testing.T) {
		isolate(t)
		stdout, _, err := runCmd(t, di.NewContainer(), strings.NewReader("aaaa"), "book.txt")
		require.Error(t, err)
		assert.Equal(t, ExitUsage, ExitCode(err))
		assert.Empty(t, stdout)
	})

	t.Run("invalid format is a usage error", func(t *testing.T) {
		isolate(t)
		_, _, err := runCmd(t, di.NewContainer(), strings.NewReader("aaaa"), "-o", "xml")
		require.Error(t, err)
		assert.Equal(t, ExitUsage, ExitCode(err))
	})

	t.Run("read failure is an IO error", func(t *testing.T) {
		isolate(t)
		stdin := io.MultiReader(strings.NewReader("abc"), iotest.ErrReader(errors.New("device gone")))
		stdout, _, err := runCmd(t, di.NewContainer(), stdin)
		require.Error(t, err)
		assert.Equal(t, ExitIO, ExitCode(err))
		assert.Contains(t, err.Error(), "after byte 3 of stdin")
		assert.Contains(t, err.Error(), "device gone")
		assert.Empty(t, stdout)
	})

	t.Run("missing explicit config fails", func(t *testing.T) {
		home := isolate(t)
		_, _, err := runCmd(t, di.NewContainer(), nil, "--config", home+"/missing.yaml")
		require.Error(t, err)
		assert.Equal(t, ExitFailure, ExitCode(err))
	})

	t.Run("invalid config is a usage error", func(t *testing.T) {
		home := isolate(t)
		configPath := home + "/ioc.yaml"
		require.NoError(t, writeFile(configPath, "analysis:\n  mode: entropy\n"))
		_, _, err := runCmd(t, di.NewContainer(), nil, "--config", configPath)
		require.Error(t, err)
		assert.Equal(t, ExitUsage, ExitCode(err))
	})

	t.Run("invalid log level is a usage error", func(t *testing.T) {
		isolate(t)
		_, _, err := runCmd(t, di.NewContainer(), nil, "--log-level", "loud")
		require.Error(t, err)
		assert.Equal(t, ExitUsage, ExitCode(err))
	})
}

func TestRootHelp(t *testing.T) {
	isolate(t)
	stdout, _, err := runCmd(t, di.NewContainer(), strings.NewReader("aaaa"), "-k", "-h")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Only the last specified mode flag is considered.")
	assert.NotContains(t, stdout, "Kappa Plaintext:")
}

func TestRootLogsToStderr(t *testing.T) {
	isolate(t)
	stdout, stderr, err := runCmd(t, di.NewContainer(), strings.NewReader("aaaa"), "--log-level", "debug")
	require.NoError(t, err)
	assert.Equal(t, "Index of Coincidence: 26.000000\n", stdout)
	assert.Contains(t, stderr, "analyzed input")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitUsage, ExitCode(newUsageError("bad %s", "flag")))
	assert.Equal(t, ExitIO, ExitCode(&inputError{offset: 10, err: io.ErrUnexpectedEOF}))
	assert.Equal(t, "IO error encountered after byte 10 of stdin: unexpected EOF",
		(&inputError{offset: 10, err: io.ErrUnexpectedEOF}).Error())
}
