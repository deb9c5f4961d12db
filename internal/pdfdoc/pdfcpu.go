// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package pdfdoc

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/filter"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// renderedFilters are the image filters pdfcpu decodes itself. An image
// whose last filter is anything else is written as its stored stream.
var renderedFilters = map[string]bool{
	filter.DCT:       true,
	filter.JPX:       true,
	filter.Flate:     true,
	filter.LZW:       true,
	filter.CCITTFax:  true,
	filter.RunLength: true,
}

var rawExtensions = map[string]string{
	filter.JBIG2: "jb2",
}

// PDFCPUOpener opens documents with pdfcpu
type PDFCPUOpener struct {
	conf *model.Configuration
}

// NewPDFCPUOpener creates an opener with relaxed validation that never
// touches pdfcpu's on-disk config directory
func NewPDFCPUOpener() *PDFCPUOpener {
	api.DisableConfigDir()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.ValidateLinks = false
	conf.Offline = true
	conf.Cmd = model.EXTRACTIMAGES

	return &PDFCPUOpener{conf: conf}
}

// Open reads and validates the PDF at path. The document is not optimized:
// optimization merges byte-identical image objects, and every object number
// must stay its own image.
func (o *PDFCPUOpener) Open(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	ctx, err := api.ReadAndValidate(f, o.conf)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("not a readable PDF: %w", err)
	}

	return &pdfcpuDocument{file: f, ctx: ctx}, nil
}

type pdfcpuDocument struct {
	file   *os.File
	ctx    *model.Context
	closed bool
}

func (d *pdfcpuDocument) PageCount() int {
	return d.ctx.PageCount
}

// ImageRefs lists the image XObjects reachable from the page's resources,
// including those nested in Form XObjects, once per object number.
func (d *pdfcpuDocument) ImageRefs(page int) ([]ImageRef, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if page < 1 || page > d.ctx.PageCount {
		return nil, fmt.Errorf("page %d out of range 1..%d", page, d.ctx.PageCount)
	}

	_, _, inherited, err := d.ctx.PageDict(page, false)
	if err != nil {
		return nil, err
	}

	w := &xobjectWalker{
		ctx:   d.ctx,
		page:  page,
		seen:  map[int]bool{},
		forms: map[int]bool{},
	}
	if inherited != nil {
		if err := w.walk(inherited.Resources, nil); err != nil {
			return nil, err
		}
	}

	sort.Slice(w.refs, func(i, j int) bool { return w.refs[i].ObjNr < w.refs[j].ObjNr })

	return w.refs, nil
}

type xobjectWalker struct {
	ctx   *model.Context
	page  int
	seen  map[int]bool // image object numbers already listed
	forms map[int]bool // form object numbers already entered
	refs  []ImageRef
}

func (w *xobjectWalker) walk(resources types.Dict, via []string) error {
	if resources == nil {
		return nil
	}

	obj, found := resources.Find("XObject")
	if !found || obj == nil {
		return nil
	}
	xobjects, err := w.ctx.DereferenceDict(obj)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(xobjects))
	for name := range xobjects {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ir, ok := xobjects[name].(types.IndirectRef)
		if !ok {
			continue
		}
		objNr := ir.ObjectNumber.Value()

		sd, _, err := w.ctx.DereferenceStreamDict(ir)
		if err != nil {
			return fmt.Errorf("xobject %s (object %d): %w", name, objNr, err)
		}
		if sd == nil || sd.Subtype() == nil {
			continue
		}

		switch *sd.Subtype() {
		case "Image":
			if w.seen[objNr] {
				continue
			}
			w.seen[objNr] = true
			w.refs = append(w.refs, ImageRef{
				Page:  w.page,
				ObjNr: objNr,
				Name:  name,
				Forms: append([]string(nil), via...),
			})

		case "Form":
			if w.forms[objNr] {
				continue
			}
			w.forms[objNr] = true
			res, found := sd.Find("Resources")
			if !found || res == nil {
				continue
			}
			nested, err := w.ctx.DereferenceDict(res)
			if err != nil {
				return fmt.Errorf("form %s (object %d): %w", name, objNr, err)
			}
			if err := w.walk(nested, append(via[:len(via):len(via)], name)); err != nil {
				return err
			}
		}
	}

	return nil
}

func (d *pdfcpuDocument) ExtractImage(ref ImageRef) (Image, error) {
	if d.closed {
		return Image{}, ErrClosed
	}

	sd, _, err := d.ctx.DereferenceStreamDict(*types.NewIndirectRef(ref.ObjNr, 0))
	if err != nil {
		return Image{}, err
	}
	if sd == nil {
		return Image{}, fmt.Errorf("image object %d on page %d is missing", ref.ObjNr, ref.Page)
	}

	var width, height int
	if v := sd.IntEntry("Width"); v != nil {
		width = *v
	}
	if v := sd.IntEntry("Height"); v != nil {
		height = *v
	}

	img, err := pdfcpu.ExtractImage(d.ctx, sd, false, ref.Name, ref.ObjNr, false)
	if err != nil {
		return Image{}, err
	}

	if img.Reader == nil {
		data, ext, err := storedStream(sd)
		if err != nil {
			return Image{}, fmt.Errorf("image object %d on page %d: %w", ref.ObjNr, ref.Page, err)
		}
		return Image{Data: data, Ext: ext, Width: width, Height: height}, nil
	}

	data, err := io.ReadAll(img.Reader)
	if err != nil {
		return Image{}, err
	}

	return Image{
		Data:   data,
		Ext:    img.FileType,
		Width:  width,
		Height: height,
	}, nil
}

// storedStream returns the encoded stream of an image pdfcpu lists but does
// not render, with an extension derived from its last filter
func storedStream(sd *types.StreamDict) ([]byte, string, error) {
	switch n := len(sd.FilterPipeline); {
	case n == 0:
		return nil, "", fmt.Errorf("unfiltered stream could not be rendered")
	case n > 1:
		return nil, "", fmt.Errorf("filter chain %v could not be rendered", filterNames(sd))
	}

	last := sd.FilterPipeline[0].Name
	if renderedFilters[last] {
		return nil, "", fmt.Errorf("%s stream could not be rendered", last)
	}
	if len(sd.Raw) == 0 {
		return nil, "", fmt.Errorf("empty %s stream", last)
	}

	return sd.Raw, rawExtension(last), nil
}

func filterNames(sd *types.StreamDict) []string {
	names := make([]string, len(sd.FilterPipeline))
	for i, f := range sd.FilterPipeline {
		names[i] = f.Name
	}
	return names
}

func rawExtension(filterName string) string {
	if ext, ok := rawExtensions[filterName]; ok {
		return ext
	}
	ext := strings.ToLower(strings.TrimSuffix(filterName, "Decode"))
	if ext == "" {
		return "bin"
	}
	return ext
}

func (d *pdfcpuDocument) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.file.Close()
}
