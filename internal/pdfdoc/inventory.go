// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package pdfdoc

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// InventoryImage describes an image XObject reachable from a page
type InventoryImage struct {
	ObjNr            int    `json:"object" yaml:"object"`
	Name             string `json:"name" yaml:"name"`
	Width            int    `json:"width" yaml:"width"`
	Height           int    `json:"height" yaml:"height"`
	Filter           string `json:"filter,omitempty" yaml:"filter,omitempty"`
	ColorSpace       string `json:"color_space,omitempty" yaml:"color_space,omitempty"`
	BitsPerComponent int    `json:"bits_per_component,omitempty" yaml:"bits_per_component,omitempty"`
	Length           int64  `json:"length" yaml:"length"`
}

// PageInventory lists the images of one page
type PageInventory struct {
	Page   int              `json:"page" yaml:"page"`
	Images []InventoryImage `json:"images" yaml:"images"`
}

// Inventory lists image XObjects per page without decoding any of them.
// Membership and order come from the pdfcpu backend, so a page lists exactly
// the images extraction writes, in object-number order. The dictionary fields
// are read with ledongthuc/pdf by resource path.
func Inventory(path string) (pages []PageInventory, err error) {
	doc, err := NewPDFCPUOpener().Open(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// ledongthuc/pdf reports malformed objects by panicking
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("malformed PDF: %v", rec)
		}
	}()

	numPages := doc.PageCount()
	pages = make([]PageInventory, 0, numPages)

	for i := 1; i <= numPages; i++ {
		refs, err := doc.ImageRefs(i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}

		entry := PageInventory{Page: i, Images: make([]InventoryImage, 0, len(refs))}
		resources := r.Page(i).Resources()

		for _, ref := range refs {
			x := lookupXObject(resources, ref)
			entry.Images = append(entry.Images, InventoryImage{
				ObjNr:            ref.ObjNr,
				Name:             strings.Join(append(append([]string(nil), ref.Forms...), ref.Name), "/"),
				Width:            int(x.Key("Width").Int64()),
				Height:           int(x.Key("Height").Int64()),
				Filter:           firstName(x.Key("Filter")),
				ColorSpace:       firstName(x.Key("ColorSpace")),
				BitsPerComponent: int(x.Key("BitsPerComponent").Int64()),
				Length:           x.Key("Length").Int64(),
			})
		}

		pages = append(pages, entry)
	}

	return pages, nil
}

// lookupXObject follows ref's Form XObject path down from a page's resources
func lookupXObject(resources pdf.Value, ref ImageRef) pdf.Value {
	for _, form := range ref.Forms {
		resources = resources.Key("XObject").Key(form).Key("Resources")
	}
	return resources.Key("XObject").Key(ref.Name)
}

// firstName returns a name value, or the first name of an array such as
// [/FlateDecode /DCTDecode] or [/ICCBased 7 0 R]
func firstName(v pdf.Value) string {
	switch v.Kind() {
	case pdf.Name:
		return v.Name()
	case pdf.Array:
		if v.Len() > 0 {
			return v.Index(0).Name()
		}
	}
	return ""
}
