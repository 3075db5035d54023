package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/arkhamtr/internal/cli"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create command tree
	cmds := cli.CreateCommands(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
		flags.ApplyConfig()
	})

	a := &app{flags: flags}

	// Set the run functions
	cmds.Root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		a.init()
	}
	cmds.Root.RunE = func(cmd *cobra.Command, args []string) error {
		return a.runTranslate(cmd.Context())
	}
	cmds.Convert.RunE = func(cmd *cobra.Command, args []string) error {
		return a.runConvert()
	}
	cmds.TranslateCSV.RunE = func(cmd *cobra.Command, args []string) error {
		return a.runTranslateCSV(cmd.Context())
	}
	cmds.CacheStats.RunE = func(cmd *cobra.Command, args []string) error {
		return a.runCacheStats(cmd.Context())
	}
	cmds.CacheImport.RunE = func(cmd *cobra.Command, args []string) error {
		return a.runCacheImport(cmd.Context(), args)
	}
	cmds.Models.RunE = func(cmd *cobra.Command, args []string) error {
		return a.runModels(cmd.Context())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Execute command
	err := cmds.Root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.Bold, color.FgRed).Sprint("Error:"), err)
		os.Exit(1)
	}
}
