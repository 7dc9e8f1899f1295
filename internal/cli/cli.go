// Package cli implements the doflayout command-line tool, which builds
// element dof layouts from TOML definition files and prints their tables.
package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Log levels exported for use in main.go
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var headingStyle = lipgloss.NewStyle().Bold(true)

// CLI holds shared state for all commands
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI logging to w at the given level
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "doflayout",
		Short:         "Inspect finite element dof layouts",
		Long:          `doflayout builds element dof layouts from TOML definition files and prints their entity, closure, sub-layout and permutation tables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.checkCommand())
	return root
}
