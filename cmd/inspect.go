// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"

	"pdfimages/internal/extractor"
	"pdfimages/internal/pdfdoc"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newInspectCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <pdf>",
		Short: "List the images on each page without writing anything",
		Long: `List the images on each page without writing anything.

Each page lists the images extract would write for it, in the same order:
by PDF object number, including images drawn through Form XObjects.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := resolveSettings(cmd, flags)
			if err != nil {
				return err
			}

			pdfPath := args[0]
			observer := newObserver(settings.Debug, cmd.ErrOrStderr())
			defer observer.Sync()
			finishTiming := observer.StartTiming("inspect", "inventory", pdfPath)

			pages, err := pdfdoc.Inventory(pdfPath)
			finishTiming(err == nil, map[string]interface{}{"pages": len(pages)})
			if err != nil {
				return extractor.NewDocumentOpenError(pdfPath, err)
			}

			out := cmd.OutOrStdout()
			switch format {
			case "text":
				return writeInventoryText(out, pages)
			case "json":
				data, err := json.MarshalIndent(pages, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(pages); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text|json|yaml")

	return cmd
}

func writeInventoryText(w io.Writer, pages []pdfdoc.PageInventory) error {
	total := 0
	for _, page := range pages {
		if len(page.Images) == 0 {
			continue
		}
		fmt.Fprintf(w, "Page %d:\n", page.Page)
		for _, img := range page.Images {
			fmt.Fprintf(w, "  obj %-5d %-12s %5dx%-5d %-12s %-10s %d bpc  %s\n",
				img.ObjNr, img.Name, img.Width, img.Height, img.Filter, img.ColorSpace,
				img.BitsPerComponent, humanize.Bytes(uint64(img.Length)))
			total++
		}
	}
	_, err := fmt.Fprintf(w, "Image references: %d on %d pages\n", total, len(pages))
	return err
}
