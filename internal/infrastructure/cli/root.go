package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/switchboard-sh/switchboard/internal/app"
	"github.com/switchboard-sh/switchboard/internal/domain"
	"github.com/switchboard-sh/switchboard/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, err
	}

	runCmd := newRunCommand(container)

	root := &cobra.Command{
		Use:   "switchboard [description]",
		Short: "Switchboard - operation routing orchestrator",
		Long:  "Switchboard routes operations to the cheapest executor that can handle them safely, caching results and tracking outcomes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			runCmd.SetArgs(args)
			return runCmd.ExecuteContext(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(runCmd)
	root.AddCommand(commands.NewStatusCommand(container))
	root.AddCommand(commands.NewCacheCommand(container))
	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewInsightsCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root, nil
}

func newRunCommand(container *app.Container) *cobra.Command {
	var (
		opType      string
		path        string
		pattern     string
		content     string
		workingDir  string
		environment string
		urgency     string
		files       []string
		noCache     bool
		realtime    bool
		noBackup    bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "run [description]",
		Short: "Route and execute one operation",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			op := domain.Operation{
				Type:        domain.OperationType(opType),
				Path:        path,
				Pattern:     pattern,
				Content:     content,
				Description: strings.Join(args, " "),
			}
			snap := domain.Snapshot{
				WorkingDir:  workingDir,
				Files:       files,
				Urgency:     urgency,
				Environment: environment,
				NoBackup:    noBackup,
				NoCache:     noCache,
				Realtime:    realtime,
			}

			outcome := container.Orchestrator.Orchestrate(cmd.Context(), op, snap)
			if asJSON {
				encoded, err := json.MarshalIndent(outcome, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			} else {
				RenderOutcome(cmd.OutOrStdout(), outcome)
			}
			if !outcome.Success {
				return fmt.Errorf("operation %s failed: %s", outcome.OperationID, outcome.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opType, "type", "t", string(domain.OpFileRead), "Operation type (file-read, pattern-search, code-review, ...)")
	cmd.Flags().StringVar(&path, "path", "", "Target path for path-based operations")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Pattern for pattern-search operations")
	cmd.Flags().StringVar(&content, "content", "", "Inline content for write-style operations")
	cmd.Flags().StringVar(&workingDir, "working-dir", "", "Working directory for the snapshot")
	cmd.Flags().StringVar(&environment, "env", "", "Environment tag (production raises risk)")
	cmd.Flags().StringVar(&urgency, "urgency", "", "Urgency tag (high raises complexity)")
	cmd.Flags().StringSliceVar(&files, "file", nil, "Snapshot files (repeatable)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable caching for this operation")
	cmd.Flags().BoolVar(&realtime, "realtime", false, "Require a fresh result")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Mark the environment as having no restore path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the outcome as JSON")

	return cmd
}
