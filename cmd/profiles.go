// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProfilesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List configuration profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfiguration(flags.configFile, cmd.ErrOrStderr())
			out := cmd.OutOrStdout()

			profiles := cfg.ListProfiles()
			if len(profiles) == 0 {
				fmt.Fprintln(out, "No profiles defined in configuration file.")
				return nil
			}

			fmt.Fprintln(out, "Available profiles:")
			for _, name := range profiles {
				profile := cfg.GetProfile(name)
				if profile != nil && profile.Description != "" {
					fmt.Fprintf(out, "  - %s: %s\n", name, profile.Description)
				} else {
					fmt.Fprintf(out, "  - %s\n", name)
				}
			}
			return nil
		},
	}
}
