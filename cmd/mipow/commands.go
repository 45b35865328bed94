package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/mipow/internal/ble"
	"github.com/muurk/mipow/internal/bulb"
	"github.com/muurk/mipow/internal/config"
	"github.com/muurk/mipow/internal/identity"
	"github.com/muurk/mipow/internal/logging"
	"github.com/muurk/mipow/internal/queue"
	"github.com/muurk/mipow/internal/report"
	"github.com/muurk/mipow/internal/ui"
)

var errCommandsFailed = errors.New("one or more commands failed")

var scanTimeout int

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(aliasesCmd)
	aliasesCmd.AddCommand(aliasesAddCmd)
	aliasesCmd.AddCommand(aliasesRemoveCmd)

	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan duration in seconds (default from config, 10)")
}

// runQueue parses the command line, runs the queue on every addressed bulb
// and renders the collected outputs.
func runQueue(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		fmt.Fprint(out, queue.Help())
		return nil
	}

	switch args[0] {
	case "--scan":
		if len(args) > 1 {
			return errors.New("--scan must be used on its own")
		}
		return runScan(cmd, nil)
	case "--aliases":
		if len(args) > 1 {
			return errors.New("--aliases must be used on its own")
		}
		return runAliases(cmd, nil)
	case "--version":
		versionCmd.Run(cmd, nil)
		return nil
	}

	inv, err := queue.Parse(args)
	if err != nil {
		return err
	}
	if inv.Help {
		if inv.HelpTopic != "" {
			fmt.Fprint(out, queue.CommandHelp(inv.HelpTopic))
		} else {
			fmt.Fprint(out, queue.Help())
		}
		return nil
	}

	if err := logging.Initialize(inv.LogLevel); err != nil {
		return err
	}

	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	errOut := ui.NewPrinter(os.Stderr, ui.IsTerminal(os.Stderr))
	addrs, unmatched := identity.ResolveAll(inv.Targets, reg.Entries())
	for _, token := range unmatched {
		logging.Warn("No bulb matches", zap.String("token", token))
		errOut.PrintWarning("No bulb matches", ui.Detail{Key: "Token", Value: token})
	}

	engine := &queue.Engine{
		Transport: ble.NewTransport(),
		Policy:    reg.RetryPolicy(),
		Parallel:  reg.Parallel(),
		Aliases:   aliasMap(reg),
	}
	results, err := engine.Run(cmd.Context(), addrs, inv.Commands)
	if err != nil {
		return err
	}

	r := &renderer{
		out:     out,
		printer: report.NewPrinter(out, ui.IsTerminal(os.Stdout)),
		mqtt:    reg.MQTT,
	}
	defer r.close()
	renderErr := r.render(results)

	failed := false
	for _, res := range results {
		if res.Report.OK() {
			continue
		}
		failed = true
		for _, f := range res.Report.Failures {
			errOut.PrintError(fmt.Sprintf("%s --%s", res.Address, f.Command), f.Err)
		}
	}

	if renderErr != nil {
		return renderErr
	}
	if failed {
		return errCommandsFailed
	}
	return nil
}

func aliasMap(reg *config.Registry) map[identity.Address][]string {
	m := make(map[identity.Address][]string)
	for _, e := range reg.Entries() {
		m[e.Address] = e.Aliases
	}
	return m
}

// renderer writes output snapshots: the n-th output command of every bulb
// is rendered together, in bulb order.
type renderer struct {
	out     io.Writer
	printer *report.Printer
	mqtt    *config.MQTT
	pub     *report.Publisher
}

func (r *renderer) render(results []*queue.Result) error {
	if len(results) == 0 {
		return nil
	}
	var errs []error
	for i, snap := range results[0].Outputs {
		reports := make([]bulb.DeviceReport, 0, len(results))
		for _, res := range results {
			if i < len(res.Outputs) {
				reports = append(reports, res.Outputs[i].Report)
			}
		}

		var err error
		switch snap.Format {
		case queue.FormatPrint:
			err = r.printer.Print(reports)
		case queue.FormatStatus:
			err = r.printer.Status(reports)
		case queue.FormatJSON:
			err = report.WriteJSON(r.out, reports)
		case queue.FormatPublish:
			err = r.publish(reports)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *renderer) publish(reports []bulb.DeviceReport) error {
	if r.pub == nil {
		pub, err := report.Connect(r.mqtt)
		if err != nil {
			return err
		}
		r.pub = pub
	}
	for _, rep := range reports {
		if err := r.pub.Publish(rep); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) close() {
	if r.pub != nil {
		r.pub.Close()
	}
}

// scanCmd lists advertising Playbulbs
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for Playbulb bulbs",
	Long: `Scan for MIPOW Playbulb bulbs using Bluetooth LE advertisements.

Bulbs are recognised by the vendor suffix AC:E6 of their address. Bulbs
already in the config file get their name and last-seen time updated.`,
	Example: `  # Scan for the configured time (default 10 seconds)
  mipow scan

  # Longer scan for bulbs far from the adapter
  mipow scan --timeout 30`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, _ []string) error {
	if err := logging.InitializeFromEnv(); err != nil {
		return err
	}
	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	d := reg.ScanTimeout()
	if scanTimeout > 0 {
		d = time.Duration(scanTimeout) * time.Second
	}

	out := cmd.OutOrStdout()
	interactive := ui.IsTerminal(os.Stdout)
	if !interactive {
		fmt.Fprintf(out, "Scanning for Playbulbs (timeout: %s)...\n", d)
	}

	result, err := ui.Scan(cmd.Context(), ble.NewTransport(), d, out, interactive)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if !interactive {
		fmt.Fprintf(out, "\n%-20s%s\n", "MAC-Address", "Bulb name")
		for _, ad := range result.Bulbs {
			fmt.Fprintf(out, "%-20s%s\n", ad.Address, ad.Name)
		}
	}

	// aliases may have been edited while scanning
	reg, err = config.ReloadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	save := false
	now := time.Now()
	for _, ad := range result.Bulbs {
		if b := reg.GetBulb(ad.Address); b != nil && !b.Legacy {
			reg.UpdateBulbLastSeen(ad.Address, ad.Name, now)
			save = true
		}
	}
	if save {
		if err := reg.Save(); err != nil {
			logging.Warn("Failed to save last-seen times", zap.Error(err))
		}
	}

	p := ui.NewPrinter(out, interactive)
	seen := ui.Detail{Key: "Devices seen", Value: strconv.Itoa(result.Seen)}
	if len(result.Bulbs) == 0 {
		p.PrintWarning("No Playbulbs found", seen)
		return nil
	}
	p.PrintSuccess("Scan complete", seen, ui.Detail{Key: "Playbulbs", Value: strconv.Itoa(len(result.Bulbs))})
	return nil
}

// aliasesCmd manages the alias registry
var aliasesCmd = &cobra.Command{
	Use:   "aliases",
	Short: "List known bulbs and their aliases",
	Long: `List the bulbs from the config file and from ~/.known_bulbs.

An alias selects every bulb whose address or alias contains it, so
"kitchen" selects a bulb aliased "kitchen-left".`,
	Args: cobra.NoArgs,
	RunE: runAliases,
}

func runAliases(cmd *cobra.Command, _ []string) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	out := cmd.OutOrStdout()
	bulbs := reg.SortedBulbs()
	if len(bulbs) == 0 {
		fmt.Fprintln(out, "No known bulbs. Add one with 'mipow aliases add <mac> <alias>...'")
		return nil
	}

	fmt.Fprintf(out, "%-20s%-16s%s\n", "MAC-Address", "Last seen", "Aliases")
	for _, b := range bulbs {
		seen := "-"
		if !b.LastSeen.IsZero() {
			seen = b.LastSeen.Format("2006-01-02")
		}
		aliases := strings.Join(b.Aliases, "|")
		if b.Legacy {
			aliases += "  (" + config.LegacyFile + ")"
		}
		fmt.Fprintf(out, "%-20s%-16s%s\n", b.Address, seen, aliases)
	}
	return nil
}

var aliasesAddCmd = &cobra.Command{
	Use:   "add <mac> <alias>...",
	Short: "Add aliases to a bulb",
	Example: `  mipow aliases add 4C:24:98:6D:AC:E6 kitchen lamp`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := identity.ParseAddress(args[0])
		if err != nil {
			return err
		}
		reg, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		b := reg.EnsureBulb(addr)
		for _, alias := range args[1:] {
			for _, a := range identity.SplitAliases(alias) {
				if !slices.Contains(b.Aliases, a) {
					b.Aliases = append(b.Aliases, a)
				}
			}
		}
		if err := reg.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", addr, strings.Join(b.Aliases, "|"))
		return nil
	},
}

var aliasesRemoveCmd = &cobra.Command{
	Use:   "remove <mac>",
	Short: "Forget a bulb and its aliases",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := identity.ParseAddress(args[0])
		if err != nil {
			return err
		}
		reg, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		b := reg.GetBulb(addr)
		if b == nil {
			return fmt.Errorf("bulb %s is not in the config file", addr)
		}
		if b.Legacy {
			return fmt.Errorf("bulb %s comes from ~/%s; edit that file instead", addr, config.LegacyFile)
		}
		reg.RemoveBulb(addr)
		return reg.Save()
	},
}
