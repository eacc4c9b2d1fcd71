/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/coincidence/pkg/history"
	"github.com/ssargent/coincidence/pkg/report"
)

func newHistoryCmd(a *app) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Browse recorded analyses",
		Long: `Browse the analyses stored with --record or POST /api/v1/analyze?record=true.

Examples:
  ioc history list --limit 5
  ioc history list --language french
  ioc history summary --language english
  ioc history show 2ab2cw4mA83Ft8obr3bqR4nSpSR
  ioc history delete 2ab2cw4mA83Ft8obr3bqR4nSpSR`,
		Args: usageArgs(cobra.NoArgs),
	}

	historyCmd.AddCommand(newHistoryListCmd(a))
	historyCmd.AddCommand(newHistorySummaryCmd(a))
	historyCmd.AddCommand(newHistoryShowCmd(a))
	historyCmd.AddCommand(newHistoryDeleteCmd(a))

	return historyCmd
}

func newHistoryListCmd(a *app) *cobra.Command {
	var (
		limit  int
		filter languageFilter
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded analyses, newest first",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return newUsageError("limit must not be negative, got %d", limit)
			}
			format, err := a.outputFormat()
			if err != nil {
				return err
			}

			store, err := a.container.OpenHistory(a.config.History.Dir)
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer store.Close()

			fetch := limit
			if filter.set {
				fetch = 0
			}
			entries, err := store.List(cmd.Context(), fetch)
			if err != nil {
				return err
			}
			entries = filter.apply(entries, limit)

			if format == report.FormatJSON {
				return outputEntriesJSON(cmd.OutOrStdout(), entries)
			}
			return outputEntriesTable(cmd.OutOrStdout(), entries)
		},
	}

	listCmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of analyses to list (0 lists all)")
	listCmd.Flags().Var(&filter, "language", "only list analyses guessed as this language")
	return listCmd
}

func newHistorySummaryCmd(a *app) *cobra.Command {
	var filter languageFilter

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Analyze every recorded text as one",
		Long: `Merge the letter counts of every recorded analysis and report the
statistics of the combined text.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat()
			if err != nil {
				return err
			}

			store, err := a.container.OpenHistory(a.config.History.Dir)
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), 0)
			if err != nil {
				return err
			}
			summary := history.Summarize(filter.apply(entries, 0))

			if format == report.FormatJSON {
				return outputSummaryJSON(cmd.OutOrStdout(), summary)
			}
			return outputSummaryTable(cmd.OutOrStdout(), summary)
		},
	}

	summaryCmd.Flags().Var(&filter, "language", "only merge analyses guessed as this language")
	return summaryCmd
}

func newHistoryShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recorded analysis",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat()
			if err != nil {
				return err
			}
			id, err := history.ParseID(args[0])
			if err != nil {
				return &usageError{err: err}
			}

			store, err := a.container.OpenHistory(a.config.History.Dir)
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer store.Close()

			entry, err := store.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			if format == report.FormatJSON {
				return outputEntryJSON(cmd.OutOrStdout(), entry)
			}
			return outputEntryTable(cmd.OutOrStdout(), entry)
		},
	}
}

func newHistoryDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recorded analysis",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := history.ParseID(args[0])
			if err != nil {
				return &usageError{err: err}
			}

			store, err := a.container.OpenHistory(a.config.History.Dir)
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), id); err != nil {
				if errors.Is(err, history.ErrNotFound) {
					return fmt.Errorf("no analysis with id %s", id)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted analysis %s\n", id)
			return nil
		},
	}
}
