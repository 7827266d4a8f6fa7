// Package cli implements the holmes command-line interface (see log.go
// for the full package doc).
package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sherlocksearch/holmes/pkg/buildinfo"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w *os.File, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered: gather, index, filter, cache (SPEC_FULL.md's domain-stack
// wiring of spf13/cobra), persistent --verbose, and a context-scoped
// logger, in the same shape as the teacher's original root command.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "holmes",
		Short:        "holmes crawls, indexes, and filters a web corpus",
		Long:         `holmes is a CLI for the gatherer scheduler, the indexer pipeline, and the reference filter engine — three components of a small web search engine core.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := c.Logger.GetLevel()
			if verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.gatherCommand())
	root.AddCommand(c.indexCommand())
	root.AddCommand(c.filterCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// Execute builds the root command with a fresh default CLI and runs it
// to completion against ctx — the entry point cmd/holmes calls.
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}
