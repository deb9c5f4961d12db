// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"pdfimages/internal/config"
	"pdfimages/internal/extractor"
	"pdfimages/internal/manifest"
	"pdfimages/internal/pdfdoc"
	"pdfimages/internal/progress"

	"github.com/spf13/cobra"
)

func newExtractCmd(flags *globalFlags) *cobra.Command {
	var (
		output          string
		prefix          string
		manifestFormat  string
		continueOnError bool
	)

	cmd := &cobra.Command{
		Use:   "extract <pdf> [output-dir]",
		Short: "Write every embedded image of a PDF to a directory",
		Example: `  pdfimages extract report.pdf
  pdfimages extract report.pdf -o figures --manifest json
  pdfimages extract scan.pdf --profile archive`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := resolveSettings(cmd, flags)
			if err != nil {
				return err
			}

			set := cmd.Flags()
			if set.Changed("output") {
				settings.OutputDir = output
			}
			if len(args) == 2 {
				settings.OutputDir = args[1]
			}
			if set.Changed("prefix") {
				settings.Prefix = prefix
			}
			if set.Changed("manifest") {
				settings.Manifest = manifestFormat
			}
			if set.Changed("continue-on-error") {
				settings.ContinueOnError = continueOnError
			}

			if err := settings.Validate(); err != nil {
				return err
			}
			return runExtract(cmd, args[0], settings)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "output directory (default from config, ./images)")
	f.StringVar(&prefix, "prefix", "", "file name prefix (default image_)")
	f.StringVar(&manifestFormat, "manifest", "", "also write manifest.json or manifest.yaml: json|yaml")
	f.BoolVar(&continueOnError, "continue-on-error", false, "skip images that cannot be decoded instead of stopping")

	return cmd
}

func runExtract(cmd *cobra.Command, pdfPath string, settings config.Settings) error {
	dirMode, fileMode, err := settings.Modes()
	if err != nil {
		return err
	}

	observer := newObserver(settings.Debug, cmd.ErrOrStderr())
	defer observer.Sync()

	reporter := progress.NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr(), progress.Options{
		Quiet:   settings.Quiet,
		Verbose: settings.Verbose,
		NoColor: settings.NoColor,
	})

	res, err := extractor.Extract(cmd.Context(), pdfdoc.NewPDFCPUOpener(), pdfPath, settings.OutputDir, extractor.Options{
		Prefix:          settings.Prefix,
		DirMode:         dirMode,
		FileMode:        fileMode,
		ContinueOnError: settings.ContinueOnError,
		Reporter:        reporter,
		Observer:        observer,
	})
	if err != nil {
		return err
	}

	if settings.Manifest == config.ManifestNone {
		return nil
	}

	m, err := manifest.Build(res)
	if err != nil {
		return err
	}
	path, err := manifest.Write(m, res.OutputDir, settings.Manifest, fileMode)
	if err != nil {
		return err
	}
	if settings.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Manifest written to %s\n", path)
	}
	return nil
}
