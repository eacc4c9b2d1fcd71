/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ssargent/coincidence/pkg/codec"
	"github.com/ssargent/coincidence/pkg/config"
	"github.com/ssargent/coincidence/pkg/di"
	"github.com/ssargent/coincidence/pkg/frequency"
	"github.com/ssargent/coincidence/pkg/logging"
	"github.com/ssargent/coincidence/pkg/report"
)

// skipConfigAnnotation marks commands that run without loading a config file
const skipConfigAnnotation = "ioc/skip-config"

var container *di.Container

// SetContainer sets the dependency container used by Execute
func SetContainer(c *di.Container) {
	container = c
}

// app carries the state shared by every command of one invocation
type app struct {
	container *di.Container

	configPath string
	logLevel   string
	format     string
	historyDir string
	record     bool
	mode       modeSelection

	config *config.Config
	logger *slog.Logger
}

// Execute runs the root command and exits with the matching status code.
// This is called by main.main().
func Execute() {
	c := container
	if c == nil {
		c = di.NewContainer()
	}
	root := NewRootCmd(c)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if ExitCode(err) == ExitUsage {
			fmt.Fprintf(os.Stderr, "Run '%s --help' for usage.\n", root.CommandPath())
		}
		os.Exit(ExitCode(err))
	}
}

// NewRootCmd builds the ioc command tree
func NewRootCmd(c *di.Container) *cobra.Command {
	a := &app{container: c}

	rootCmd := &cobra.Command{
		Use:   "ioc",
		Short: "Index of Coincidence of lowercase ASCII text",
		Long: `Computes the Index of Coincidence of the lowercase ASCII text from stdin.

Only the 26 lowercase letters 'a' to 'z' are counted; every other byte is
ignored. Texts with fewer than two letters have no defined statistic and
report NaN.

Only the last specified mode flag is considered.

Examples:
  ioc < book.txt
  ioc -k < book.txt
  ioc -l --record < book.txt
  echo "ceci n'est pas une pipe" | ioc -l -o json`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd)
		},
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	persistent := rootCmd.PersistentFlags()
	persistent.StringVar(&a.configPath, "config", "", "config file (default "+config.GetDefaultConfigPath()+")")
	persistent.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	persistent.StringVarP(&a.format, "format", "o", "", "output format (text or json)")
	persistent.StringVar(&a.historyDir, "history-dir", "", "directory of the analysis history")

	flags := rootCmd.Flags()
	addModeFlag(flags, &a.mode, report.ModeIndex, "index", "i", "Output the Index of Coincidence of the input (the default)")
	addModeFlag(flags, &a.mode, report.ModeKappa, "kappa", "k", "Output the kappa plaintext of the input")
	addModeFlag(flags, &a.mode, report.ModeLanguage, "language", "l", "Guess the language of the input from the index of coincidence")
	flags.BoolVar(&a.record, "record", false, "store the analysis in the history")

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newHistoryCmd(a))
	rootCmd.AddCommand(newInitCmd(a))

	return rootCmd
}

func addModeFlag(flags *pflag.FlagSet, selection *modeSelection, mode report.Mode, name, shorthand, usage string) {
	flag := flags.VarPF(&modeFlag{selection: selection, mode: mode}, name, shorthand, usage)
	flag.NoOptDefVal = "true"
}

// usageArgs turns argument validation failures into usage errors
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// setup loads the configuration and builds the logger
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.DefaultConfig()
	if _, skip := cmd.Annotations[skipConfigAnnotation]; !skip {
		loaded, err := a.loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if a.historyDir != "" {
		cfg.History.Dir = a.historyDir
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return &usageError{err: err}
	}

	a.config = cfg
	a.logger = logger
	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	path := a.configPath
	if path == "" {
		path = config.GetDefaultConfigPath()
		if !config.ConfigExists(path) {
			return config.DefaultConfig(), nil
		}
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		if errors.Is(err, config.ErrInvalidConfig) {
			return nil, &usageError{err: err}
		}
		return nil, err
	}
	return cfg, nil
}

func (a *app) outputFormat() (report.Format, error) {
	name := a.config.Analysis.Format
	if a.format != "" {
		name = a.format
	}
	format, err := report.ParseFormat(name)
	if err != nil {
		return 0, &usageError{err: err}
	}
	return format, nil
}

func (a *app) runAnalyze(cmd *cobra.Command) error {
	mode := a.mode.mode
	if !a.mode.set {
		parsed, err := report.ParseMode(a.config.Analysis.Mode)
		if err != nil {
			return &usageError{err: err}
		}
		mode = parsed
	}

	format, err := a.outputFormat()
	if err != nil {
		return err
	}

	input, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return &inputError{offset: len(input), err: err}
	}

	analysis := frequency.Analyze(input)
	a.logger.Debug("analyzed input",
		"bytes", analysis.InputSize,
		"letters", analysis.Letters,
		"kappa", analysis.Kappa,
		"ic", analysis.Index,
	)

	if err := report.Write(cmd.OutOrStdout(), report.NewResult(mode, analysis), format); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	if a.record {
		return a.recordAnalysis(cmd, analysis)
	}
	return nil
}

func (a *app) recordAnalysis(cmd *cobra.Command, analysis frequency.Analysis) error {
	store, err := a.container.OpenHistory(a.config.History.Dir)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	entry, err := store.Put(cmd.Context(), codec.NewRecord("stdin", analysis.InputSize, analysis.Occurrences))
	if err != nil {
		return fmt.Errorf("failed to record analysis: %w", err)
	}

	a.logger.Info("recorded analysis", "id", entry.ID.String(), "dir", a.config.History.Dir)
	return nil
}
