// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"text/tabwriter"

	"hotword-scan/internal/finders"
	"hotword-scan/internal/formatters"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available info types, output formats and profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfiguration(cmd)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			fmt.Fprintln(w, "INFO TYPES")
			for _, name := range finders.NewDefaultRegistry().List() {
				fmt.Fprintf(w, "  %s\n", name)
			}

			fmt.Fprintln(w, "\nFORMATS")
			for _, info := range formatters.GetSupportedFormats() {
				fmt.Fprintf(w, "  %s\t%s\t%s\n", info.Name, info.MimeType, info.Description)
			}

			fmt.Fprintln(w, "\nPROFILES")
			for _, name := range cfg.ListProfiles() {
				fmt.Fprintf(w, "  %s\t%s\n", name, cfg.Profiles[name].Description)
			}

			return w.Flush()
		},
	}
}
