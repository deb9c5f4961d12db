// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"pdfimages/internal/observability"
	"pdfimages/internal/pdfdoc"
)

// WrittenFile describes one image written to the output directory
type WrittenFile struct {
	Index  int    // value of the counter when the file was written
	Page   int    // 1-based source page
	ObjNr  int    // PDF object number of the image
	Name   string // resource name on the page
	Ext    string
	Path   string
	Size   int64
	Width  int
	Height int
}

// SkippedImage records a reference that failed to decode under ContinueOnError
type SkippedImage struct {
	Page  int
	ObjNr int
	Err   error
}

// Result is the outcome of an extraction run
type Result struct {
	Source    string
	OutputDir string
	Count     int
	Files     []WrittenFile
	Skipped   []SkippedImage
}

// Reporter receives progress notifications
type Reporter interface {
	Saved(file WrittenFile)
	Skipped(skip SkippedImage)
	Total(count int)
}

// Options tunes an extraction run. The zero value is usable.
type Options struct {
	Prefix          string      // filename stem prefix, default "image_"
	DirMode         os.FileMode // default 0755
	FileMode        os.FileMode // default 0644
	ContinueOnError bool        // skip references that fail to decode
	Reporter        Reporter
	Observer        *observability.StandardObserver
}

func (o *Options) setDefaults() {
	if o.Prefix == "" {
		o.Prefix = "image_"
	}
	if o.DirMode == 0 {
		o.DirMode = 0o755
	}
	if o.FileMode == 0 {
		o.FileMode = 0o644
	}
	if o.Reporter == nil {
		o.Reporter = nopReporter{}
	}
	if o.Observer == nil {
		o.Observer = observability.NewStandardObserver(observability.ObservabilityOff, nil)
	}
}

// FileName returns the name of the index-th output file
func FileName(prefix string, index int, ext string) string {
	if ext == "" {
		return fmt.Sprintf("%s%d", prefix, index)
	}
	return fmt.Sprintf("%s%d.%s", prefix, index, ext)
}

// Extract writes every embedded image of pdfPath to outDir as
// {prefix}{n}.{ext}, numbering images in page order and, within a page, in
// the order the document reports them. A shared image is written once per
// page that uses it.
//
// The returned Result is never nil; on error it describes the files written
// before the failure, which are left on disk. The document is closed on
// every path.
func Extract(ctx context.Context, opener pdfdoc.Opener, pdfPath, outDir string, opts Options) (res *Result, err error) {
	opts.setDefaults()
	obs := opts.Observer

	res = &Result{Source: pdfPath, OutputDir: outDir}

	finishTiming := obs.StartTiming("extractor", "extract", pdfPath)
	defer func() {
		metadata := map[string]interface{}{
			"output_dir": outDir,
			"images":     res.Count,
			"skipped":    len(res.Skipped),
		}
		if err != nil {
			metadata["error"] = err.Error()
		}
		finishTiming(err == nil, metadata)
	}()

	if err := os.MkdirAll(outDir, opts.DirMode); err != nil {
		return res, newIOError(outDir, err)
	}

	doc, err := opener.Open(pdfPath)
	if err != nil {
		return res, NewDocumentOpenError(pdfPath, err)
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("closing %s: %w", pdfPath, cerr))
		}
	}()

	pageCount := doc.PageCount()
	if tr := obs.Tracer; tr != nil {
		tr.Count("extractor", "pages", pageCount)
	}

	counter := 0
	for page := 1; page <= pageCount; page++ {
		if err := extractPage(ctx, doc, page, &counter, pdfPath, outDir, opts, res); err != nil {
			return res, err
		}
	}

	opts.Reporter.Total(counter)
	return res, nil
}

func extractPage(ctx context.Context, doc pdfdoc.Document, page int, counter *int, pdfPath, outDir string, opts Options, res *Result) (err error) {
	tr := opts.Observer.Tracer
	if tr != nil {
		done := tr.Step("extractor", fmt.Sprintf("page %d", page))
		defer func() {
			done(err)
		}()
	}

	refs, err := doc.ImageRefs(page)
	if err != nil {
		return newDecodeError(pdfPath, page, 0, err)
	}

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return err
		}

		img, err := doc.ExtractImage(ref)
		if err != nil {
			decodeErr := newDecodeError(pdfPath, page, ref.ObjNr, err)
			if !opts.ContinueOnError {
				return decodeErr
			}
			skip := SkippedImage{Page: page, ObjNr: ref.ObjNr, Err: decodeErr}
			res.Skipped = append(res.Skipped, skip)
			opts.Reporter.Skipped(skip)
			opts.Observer.LogError("extractor", "extract_image", pdfPath, decodeErr)
			continue
		}

		target := filepath.Join(outDir, FileName(opts.Prefix, *counter, img.Ext))
		if err := os.WriteFile(target, img.Data, opts.FileMode); err != nil {
			return newIOError(target, err)
		}

		file := WrittenFile{
			Index:  *counter,
			Page:   page,
			ObjNr:  ref.ObjNr,
			Name:   ref.Name,
			Ext:    img.Ext,
			Path:   target,
			Size:   int64(len(img.Data)),
			Width:  img.Width,
			Height: img.Height,
		}
		res.Files = append(res.Files, file)
		opts.Reporter.Saved(file)
		if tr != nil {
			tr.Image(ref.ObjNr, ref.Name, filepath.Base(target), file.Size)
		}

		*counter++
		res.Count = *counter
	}

	return nil
}

type nopReporter struct{}

func (nopReporter) Saved(WrittenFile) {}

func (nopReporter) Skipped(SkippedImage) {}

func (nopReporter) Total(int) {}
