package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/switchboard-sh/switchboard/internal/app"
)

// NewCacheCommand creates the cache command with all subcommands
func NewCacheCommand(container *app.Container) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the result cache",
	}

	cacheCmd.AddCommand(
		newCacheListCommand(container),
		newCacheClearCommand(container),
		newCacheStatsCommand(container),
	)

	return cacheCmd
}

// newCacheListCommand creates the 'cache list' subcommand
func newCacheListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCacheEntries(cmd.OutOrStdout(), container)
		},
	}
}

// newCacheClearCommand creates the 'cache clear' subcommand
func newCacheClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearCache(cmd.OutOrStdout(), container)
		},
	}
}

// newCacheStatsCommand creates the 'cache stats' subcommand
func newCacheStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache size and hit/miss counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showCacheStats(cmd.OutOrStdout(), container)
		},
	}
}

func listCacheEntries(out io.Writer, container *app.Container) error {
	if container.CacheStore == nil {
		return fmt.Errorf(ErrCacheStoreUnavailable)
	}

	entries := container.CacheStore.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(out, MsgNoCachedResults)
		return nil
	}
	for _, entry := range entries {
		fmt.Fprintf(out, "%s | %s | %s\n",
			entry.Key,
			entry.Result.Method,
			entry.CreatedAt.Format(TimestampFormat))
	}
	return nil
}

func clearCache(out io.Writer, container *app.Container) error {
	if container.CacheStore == nil {
		return fmt.Errorf(ErrCacheStoreUnavailable)
	}
	container.CacheStore.Clear()
	fmt.Fprintln(out, "Cache cleared.")
	return nil
}

func showCacheStats(out io.Writer, container *app.Container) error {
	if container.CacheStore == nil {
		return fmt.Errorf(ErrCacheStoreUnavailable)
	}

	fmt.Fprintf(out, "Entries: %d\n", container.CacheStore.Size())
	fmt.Fprintf(out, "Max entries: %d (0 = unbounded)\n", container.Config.Cache.MaxEntries)
	fmt.Fprintf(out, "Enabled: %v\n", container.Config.Cache.Enabled)

	if counters, ok := container.CacheStore.(interface{ Stats() (int64, int64) }); ok {
		hits, misses := counters.Stats()
		fmt.Fprintf(out, "Hits: %d\nMisses: %d\n", hits, misses)
	}
	return nil
}
