package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red("❌ "+err.Error()))
		os.Exit(1)
	}
}

// newRootCommand runs generate when invoked without a subcommand.
func newRootCommand() *cobra.Command {
	gen := newGenerateCommand()

	root := &cobra.Command{
		Use:           "selenex [session.json]",
		Short:         "Turn recorded browser sessions into Selenium scripts",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          gen.RunE,
	}
	root.Flags().AddFlagSet(gen.Flags())

	root.AddCommand(gen, newRecordCommand(), newServeCommand())
	return root
}
