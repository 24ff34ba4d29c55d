package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/switchboard-sh/switchboard/internal/app"
	"github.com/switchboard-sh/switchboard/internal/domain"
)

// NewStatusCommand creates the status command
func NewStatusCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show orchestrator status and routing statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showStatus(cmd.OutOrStdout(), container)
		},
	}
}

func showStatus(out io.Writer, container *app.Container) error {
	report := container.Orchestrator.Status()
	metrics := report.Metrics

	fmt.Fprintf(out, "Operations processed: %s\n", humanize.Comma(metrics.OperationsProcessed))
	fmt.Fprintf(out, "Tokens saved: %s\n", humanize.Comma(metrics.TokensSaved))
	fmt.Fprintf(out, "Cache hits: %s\n", humanize.Comma(metrics.CacheHits))
	fmt.Fprintf(out, "Cache entries: %d\n", report.CacheSize)
	fmt.Fprintf(out, "Average response time: %s\n", metrics.AverageResponseTime.Round(time.Millisecond))
	fmt.Fprintf(out, "Uptime: %s\n", metrics.Uptime.Round(time.Second))

	if len(metrics.RoutingStats) == 0 {
		return nil
	}
	fmt.Fprintln(out, "Routing:")
	for _, strategy := range []domain.Strategy{domain.StrategyLightweight, domain.StrategyReasoning, domain.StrategyHybrid} {
		stats, ok := metrics.RoutingStats[strategy]
		if !ok {
			continue
		}
		fmt.Fprintf(out, "  %-12s %s ops, avg %s, error rate %.1f%%\n",
			strategy,
			humanize.Comma(stats.Count),
			stats.AverageDuration().Round(time.Millisecond),
			stats.ErrorRate()*100)
	}
	return nil
}
