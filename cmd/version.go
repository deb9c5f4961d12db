// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"sort"

	"pdfimages/internal/version"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if !full {
				fmt.Fprintln(out, version.Info())
				return
			}

			info := version.Full()
			keys := make([]string, 0, len(info))
			for k := range info {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "%-14s %s\n", k+":", info[k])
			}
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "print each build field on its own line")

	return cmd
}
