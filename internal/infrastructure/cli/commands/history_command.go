package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/switchboard-sh/switchboard/internal/app"
	"github.com/switchboard-sh/switchboard/internal/domain"
	"github.com/switchboard-sh/switchboard/internal/infrastructure/cli/helpers"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded operation outcomes",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistorySearchCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
		newHistoryStatsCommand(container),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listOutcomes(cmd.OutOrStdout(), container, limit, "")
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show")
	return cmd
}

// newHistorySearchCommand creates the 'history search' subcommand
func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var query string
	var searchLimit int

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search outcomes by type or error text",
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return fmt.Errorf(ErrQueryRequired)
			}
			return listOutcomes(cmd.OutOrStdout(), container, searchLimit, query)
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Search keyword")
	cmd.Flags().IntVar(&searchLimit, "limit", DefaultHistorySearchLimit, "Limit search results")
	return cmd
}

// newHistoryClearCommand creates the 'history clear' subcommand
func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return fmt.Errorf(ErrHistoryStoreUnavailable)
			}
			return container.HistoryStore.Clear()
		},
	}
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export outcomes to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return fmt.Errorf(ErrHistoryStoreUnavailable)
			}
			return container.HistoryStore.ExportJSON(args[0])
		},
	}
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show success rate and routing distribution",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistoryStats(cmd.OutOrStdout(), container)
		},
	}
}

func listOutcomes(out io.Writer, container *app.Container, limit int, search string) error {
	if container.HistoryStore == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	records, err := container.HistoryStore.Records(limit, search)
	if err != nil {
		return fmt.Errorf("failed to retrieve outcomes: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoOutcomesRecorded)
		return nil
	}

	for _, rec := range records {
		status := "ok"
		if !rec.Success {
			status = "failed"
		}
		if rec.FromCache {
			status += " (cached)"
		}
		fmt.Fprintf(out, "%s | %s | %s | %s\n",
			rec.Timestamp.Format(TimestampFormat),
			rec.Type,
			rec.Strategy,
			status)
	}
	return nil
}

func showHistoryStats(out io.Writer, container *app.Container) error {
	if container.HistoryStore == nil {
		return fmt.Errorf(ErrHistoryStoreUnavailable)
	}

	records, err := container.HistoryStore.Records(MaxHistoryAnalysisRecords, "")
	if err != nil {
		return fmt.Errorf("failed to retrieve outcomes for analysis: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoOutcomesRecorded)
		return nil
	}

	stats := analyzeOutcomes(records)
	fmt.Fprintf(out, "Outcomes analyzed: %d\nSuccess rate: %.1f%%\nCache hits: %d\nTokens saved: %d\n",
		len(records),
		helpers.CalculateSuccessRate(stats.successful, len(records)),
		stats.cacheHits,
		stats.tokensSaved)

	fmt.Fprintln(out, "Routing distribution:")
	for _, entry := range helpers.TopCounts(stats.strategyFreq, 0) {
		fmt.Fprintf(out, "  %s: %d\n", entry.Name, entry.Count)
	}

	fmt.Fprintln(out, "Top operation types:")
	for _, entry := range helpers.TopCounts(stats.typeFreq, 5) {
		fmt.Fprintf(out, "  %s (%d)\n", entry.Name, entry.Count)
	}
	return nil
}

// outcomeStatistics holds analyzed outcome statistics
type outcomeStatistics struct {
	successful   int
	cacheHits    int
	tokensSaved  int
	strategyFreq map[string]int
	typeFreq     map[string]int
}

func analyzeOutcomes(records []domain.OutcomeRecord) outcomeStatistics {
	stats := outcomeStatistics{
		strategyFreq: make(map[string]int),
		typeFreq:     make(map[string]int),
	}
	for _, rec := range records {
		if rec.Success {
			stats.successful++
		}
		if rec.FromCache {
			stats.cacheHits++
		}
		stats.tokensSaved += rec.TokensSaved
		stats.strategyFreq[string(rec.Strategy)]++
		stats.typeFreq[string(rec.Type)]++
	}
	return stats
}
