// Command harvest plans resource harvesting from the command line and keeps
// outpost books on disk.
package main

import (
	"fmt"
	"os"
	"strings"

	"eveanchor/internal/config"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	dataDir    string
	tuningFile string
	root       string
	fetchURL   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "EVE Echoes planetary harvest planner",
		Long: `Computes how many extraction arrays to place on each planet so that a
requirement list exported from the game is met and the remaining arrays
produce the most ISK.

Defaults come from eveanchor.yaml and EVEANCHOR_* variables; flags win.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.applyConfig(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", strings.TrimSpace(os.Getenv("EVEANCHOR_CONFIG")), "config file")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data", "", "directory holding the reference tables (data.dir)")
	cmd.PersistentFlags().StringVar(&opts.tuningFile, "tuning", "", "harvest tuning yaml (data.tuning_file)")
	cmd.PersistentFlags().StringVar(&opts.root, "root", "", "directory holding the outpost books (manager.root)")

	cmd.AddCommand(newSolveCmd(opts), newOutpostCmd(opts), newFetchCmd(opts))
	return cmd
}

// applyConfig fills every option the user did not set on the command line.
func (o *rootOptions) applyConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("data") {
		o.dataDir = cfg.Data.Dir
	}
	if !flags.Changed("tuning") {
		o.tuningFile = cfg.Data.TuningFile
	}
	if !flags.Changed("root") {
		o.root = cfg.Manager.Root
	}
	o.fetchURL = cfg.Data.FetchURL
	return nil
}
