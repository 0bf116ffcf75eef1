package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/rmakit/rma"
)

func init() {
	rootCmd.AddCommand(newConfigCmd())
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the configuration read from the environment",
		Long: `The config command shows the settings the layer would run with,
read from ARMCI_SHR_BUF_METHOD, ARMCI_ASYNC_CONFIG and ARMCI_VERBOSE.

Example:
  rmactl config
  ARMCI_SHR_BUF_METHOD=NOGUARD rmactl config --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig()
		},
	}
}

type configReport struct {
	Guard   string            `json:"guard"`
	Async   string            `json:"async"`
	Verbose bool              `json:"verbose"`
	Env     map[string]string `json:"env"`
}

func runConfig() error {
	cfg := rma.ConfigFromEnv()
	report := configReport{
		Guard:   cfg.Guard.String(),
		Async:   cfg.Async.String(),
		Verbose: cfg.Verbose,
		Env:     make(map[string]string),
	}
	for _, name := range []string{rma.EnvShrBufMethod, rma.EnvAsyncConfig, rma.EnvVerbose} {
		if v, ok := os.LookupEnv(name); ok {
			report.Env[name] = v
		}
	}

	if jsonOut {
		return printJSON(report)
	}

	printInfo("Guard mode: %s\n", report.Guard)
	printInfo("Async:      %s\n", report.Async)
	printInfo("Verbose:    %t\n", report.Verbose)
	for _, name := range []string{rma.EnvShrBufMethod, rma.EnvAsyncConfig, rma.EnvVerbose} {
		if v, ok := report.Env[name]; ok {
			printVerbose("  %s=%s\n", name, v)
		}
	}
	return nil
}
