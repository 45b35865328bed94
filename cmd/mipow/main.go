// Mipow controls MIPOW Playbulb bulbs over Bluetooth Low Energy.
//
// Bulbs are addressed by MAC address or by an alias from the config file,
// followed by a queue of commands that is replayed on every bulb:
//
//	mipow kitchen AC:E6 --on --sleep 500 --color 0 255 0 0 --status
//
// Setup commands run on their own:
//
//	mipow scan
//	mipow aliases add 4C:24:98:6D:AC:E6 kitchen
//
// See 'mipow --help' for the command reference.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/mipow/internal/logging"
	"github.com/muurk/mipow/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mipow <mac|alias>... --<command> [<param>...] [--<command> ...]",
	Short: "Control MIPOW Playbulb bulbs over Bluetooth LE",
	Long: `A command line interface for MIPOW Playbulb bulbs.

Addresses and aliases come first, then a queue of commands that is run on
every addressed bulb. Use 'mipow --help <command>' for one command.

Setup subcommands: scan, aliases, version.`,
	Version: version.Version,
	Args:    cobra.ArbitraryArgs,

	// The command queue owns every -- token
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,

	RunE: runQueue,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mipow %s\n", version.Full())
	},
}
