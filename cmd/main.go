// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"hotword-scan/internal/config"

	_ "hotword-scan/internal/formatters/json"
	_ "hotword-scan/internal/formatters/text"
	_ "hotword-scan/internal/formatters/yaml"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hotword-scan",
		Short: "hotword-scan - inspect text for sensitive data and adjust likelihoods with hotword rules",
		Long: `hotword-scan inspects a string or a file for sensitive info types such as
PERSON_NAME and raises or lowers the likelihood of each finding when a hotword
appears close to it.

Example:
  hotword-scan inspect my-project "patient name: John Doe" patient`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "configuration file (default: search standard locations)")
	rootCmd.PersistentFlags().String("env-file", ".env", "file with environment overrides")

	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// loadConfiguration loads --config, or the first configuration file found
// in the standard locations. Defaults apply only when there is no file.
func loadConfiguration(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile != "" {
		config.LoadEnv(envFile)
	}

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("error loading config file: %w", err)
	}
	return cfg, nil
}

// isTerminal reports whether w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
