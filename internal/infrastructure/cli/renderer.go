package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/switchboard-sh/switchboard/internal/domain"
)

// RenderOutcome prints an orchestration outcome in a friendly, ASCII-only format.
func RenderOutcome(out io.Writer, outcome domain.OrchestrationResult) {
	fmt.Fprintf(out, "Operation: %s (%s)\n", outcome.Type, outcome.OperationID)
	fmt.Fprintf(out, "Routed to: %s (confidence %.0f%%)\n", outcome.Routing, outcome.Confidence*100)
	if outcome.FromCache {
		fmt.Fprintln(out, "Note: result served from cache")
	}
	if outcome.Attempts > 1 {
		fmt.Fprintf(out, "Attempts: %d\n", outcome.Attempts)
	}
	fmt.Fprintf(out, "Duration: %s\n", outcome.Duration)
	if outcome.TokensSaved > 0 {
		fmt.Fprintf(out, "Tokens saved: %d\n", outcome.TokensSaved)
	}

	if !outcome.Success {
		fmt.Fprintf(out, "\nFailed: %s\n", outcome.Error)
		if outcome.FallbackSuggestion != "" {
			fmt.Fprintf(out, "Suggestion: %s\n", outcome.FallbackSuggestion)
		}
		return
	}

	if outcome.Result != nil && outcome.Result.Output != "" {
		fmt.Fprintln(out, "\nOutput:")
		for _, line := range strings.Split(strings.TrimRight(outcome.Result.Output, "\n"), "\n") {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
}
