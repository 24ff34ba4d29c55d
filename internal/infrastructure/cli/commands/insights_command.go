package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/switchboard-sh/switchboard/internal/app"
)

// NewInsightsCommand creates the insights command
func NewInsightsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Show routing patterns learned from past outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showInsights(cmd.OutOrStdout(), container)
		},
	}
}

func showInsights(out io.Writer, container *app.Container) error {
	if container.Learning == nil {
		return fmt.Errorf(ErrLearningTrackerUnavailable)
	}

	insights := container.Learning.Insights()
	if len(insights) == 0 {
		fmt.Fprintln(out, MsgNoInsightsYet)
		return nil
	}

	for _, insight := range insights {
		fmt.Fprintf(out, "%s via %s: %d runs, %.0f%% success, %d tokens saved (last seen %s)\n",
			insight.Type,
			insight.Strategy,
			insight.Frequency,
			insight.SuccessRate*100,
			insight.TokensSaved,
			humanize.RelTime(insight.LastSeen, time.Now(), "ago", "from now"))
		fmt.Fprintf(out, "  %s\n", insight.Recommendation)
	}
	return nil
}
