// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"pdfimages/internal/config"
	"pdfimages/internal/observability"
	"pdfimages/internal/version"

	"github.com/spf13/cobra"
)

// globalFlags holds the persistent command line flags
type globalFlags struct {
	configFile string
	profile    string
	debug      bool
	quiet      bool
	noColor    bool
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "pdfimages",
		Short: "Extract embedded images from PDF documents",
		Long: `pdfimages writes every raster image embedded in a PDF to a directory as
image_0.<ext>, image_1.<ext>, ... in page order. Image bytes are written as
stored in the document; nothing is resized or re-encoded.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("{{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "path to configuration file (default: search pdfimages.yaml, then the config directory)")
	pf.StringVar(&flags.profile, "profile", "", "named profile from the configuration file")
	pf.BoolVar(&flags.debug, "debug", false, "print step-by-step debug output to stderr")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "only print the total")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "include file names and sizes in progress lines")

	root.AddCommand(
		newExtractCmd(flags),
		newInspectCmd(flags),
		newProfilesCmd(flags),
		newVersionCmd(),
	)

	return root
}

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string, stderr io.Writer) *config.Config {
	cfg, err := config.LoadConfigOrDefault(configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(stderr, "Using default configuration\n")
	}
	return cfg
}

// resolveSettings applies defaults, then the selected profile, then any
// global flag set explicitly on the command line
func resolveSettings(cmd *cobra.Command, flags *globalFlags) (config.Settings, error) {
	cfg := loadConfiguration(flags.configFile, cmd.ErrOrStderr())

	settings, err := cfg.Resolve(flags.profile)
	if err != nil {
		return settings, err
	}

	set := cmd.Flags()
	if set.Changed("debug") {
		settings.Debug = flags.debug
	}
	if set.Changed("quiet") {
		settings.Quiet = flags.quiet
	}
	if set.Changed("no-color") {
		settings.NoColor = flags.noColor
	}
	if set.Changed("verbose") {
		settings.Verbose = flags.verbose
	}

	return settings, nil
}

// newObserver returns a debug observer on stderr when debugging, otherwise a
// silent one
func newObserver(debug bool, stderr io.Writer) *observability.StandardObserver {
	if debug {
		tr := observability.NewTracer(stderr)
		tr.Note("main", "args %q", os.Args[1:])
		return tr.StandardObserver
	}
	return observability.NewStandardObserver(observability.ObservabilityOff, nil)
}
