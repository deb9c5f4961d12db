// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package progress

import (
	"fmt"
	"io"
	"os"

	"pdfimages/internal/extractor"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// Options controls console output
type Options struct {
	Quiet   bool // suppress per-image lines, the total is always printed
	Verbose bool // append file name and size to per-image lines
	NoColor bool
}

// Console prints extraction progress in the plain line format scripts rely on.
// Colour is only applied when out is a terminal.
type Console struct {
	out     io.Writer
	errOut  io.Writer
	opts    Options
	colors  map[string]*color.Color
	skipped int
}

// NewConsole creates a reporter writing progress to out and warnings to errOut
func NewConsole(out, errOut io.Writer, opts Options) *Console {
	c := &Console{
		out:    out,
		errOut: errOut,
		opts:   opts,
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}

	useColor := !opts.NoColor && isTerminal(out)
	for _, col := range c.colors {
		if useColor {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}

	return c
}

// Saved prints "Saved image {n} from page {p}"
func (c *Console) Saved(file extractor.WrittenFile) {
	if c.opts.Quiet {
		return
	}

	line := fmt.Sprintf("Saved image %d from page %d", file.Index, file.Page)
	if c.opts.Verbose {
		line += fmt.Sprintf(" (%s, %s)", file.Path, humanize.Bytes(uint64(file.Size)))
	}
	c.colors["green"].Fprintln(c.out, line)
}

// Skipped prints a warning for an image that could not be decoded
func (c *Console) Skipped(skip extractor.SkippedImage) {
	c.skipped++
	c.colors["yellow"].Fprintf(c.errOut, "Warning: skipped image (object %d) on page %d: %v\n",
		skip.ObjNr, skip.Page, skip.Err)
}

// Total prints "Total images extracted: {n}"
func (c *Console) Total(count int) {
	c.colors["white"].Fprintf(c.out, "Total images extracted: %d\n", count)
	if c.skipped > 0 {
		c.colors["yellow"].Fprintf(c.errOut, "Skipped %s that could not be decoded\n",
			plural(c.skipped, "image"))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%s %ss", humanize.Comma(int64(n)), word)
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
