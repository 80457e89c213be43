package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "kmon",
		Short: "Interactive kernel monitor console",
		Long: `kmon drops into the command console of a staged kernel image, the
same console a small kernel exposes for inspecting live state (memory
pages, call stack) without leaving the running kernel context.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			SetVerbose(verbose)
			cfg := LoadConfig(configPath)
			m := NewMonitor(cfg, os.Stdout, bootKernel())
			return m.Interactive()
		},
	}
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a yaml config file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
