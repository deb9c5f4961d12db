// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pdfdoc is the boundary between pdfimages and the PDF libraries.
// Callers see pages, image references and raw image payloads; nothing of the
// libraries' object model leaks through.
package pdfdoc

import (
	"errors"
)

// ErrClosed is returned when a Document is used after Close
var ErrClosed = errors.New("pdfdoc: document is closed")

// ImageRef identifies one use of an image object on one page. The same ObjNr
// can appear on several pages.
type ImageRef struct {
	Page  int    // 1-based page number
	ObjNr int    // PDF object number of the image XObject
	Name  string // resource name, e.g. "Im0"
	// Forms names the Form XObjects the image is reached through, outermost
	// first; empty when the page references the image directly
	Forms []string
}

// Image is the payload for an ImageRef, exactly as the library produced it
type Image struct {
	Data   []byte
	Ext    string // file extension without dot, as reported by the library
	Width  int
	Height int
}

// Document is an opened PDF
type Document interface {
	// PageCount returns the number of pages
	PageCount() int
	// ImageRefs returns the image references of a 1-based page in stable order
	ImageRefs(page int) ([]ImageRef, error)
	// ExtractImage returns the raw bytes and extension of a referenced image
	ExtractImage(ref ImageRef) (Image, error)
	// Close releases the document; calling it more than once is safe
	Close() error
}

// Opener opens documents from the filesystem
type Opener interface {
	Open(path string) (Document, error)
}
