// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package testpdf builds small, well-formed PDFs with embedded images for
// tests. Image objects are numbered first, then Form XObjects, then pages, so
// a page listing image indices in ascending order also lists them in xref
// order.
package testpdf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"strings"
)

// Layout describes a document: Images holds image payloads, Pages holds, per
// page, indices into Images. An index may appear on several pages.
//
// Filters overrides the stream filter of an image (default DCTDecode); such
// images are written as 1-bit DeviceGray. Forms holds Form XObjects, each
// listing image indices it draws, and PageForms lists per page the indices
// into Forms it draws.
type Layout struct {
	Images    [][]byte
	Pages     [][]int
	Filters   map[int]string
	Forms     [][]int
	PageForms [][]int
}

// JPEG encodes a solid-colour w×h JPEG
func JPEG(c color.RGBA, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Palette returns n visually distinct JPEGs of increasing width so each one
// can be told apart by size as well as by pixels
func Palette(n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		c := color.RGBA{R: uint8(40 * i), G: uint8(255 - 30*i), B: uint8(90 + 17*i), A: 255}
		out[i] = JPEG(c, 8+i, 6)
	}
	return out
}

// ImageObjNr returns the object number Build assigns to Images[i]
func ImageObjNr(i int) int {
	return 3 + i
}

// FormObjNr returns the object number Build assigns to Forms[k]
func FormObjNr(layout Layout, k int) int {
	return ImageObjNr(len(layout.Images)) + k
}

// Build renders layout as PDF bytes
func Build(layout Layout) []byte {
	var buf bytes.Buffer
	offsets := map[int]int{}

	write := func(objNr int, body string, stream []byte) {
		offsets[objNr] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s", objNr, body)
		if stream != nil {
			buf.WriteString("\nstream\n")
			buf.Write(stream)
			buf.WriteString("\nendstream")
		}
		buf.WriteString("\nendobj\n")
	}

	buf.WriteString("%PDF-1.4\n%\xE2\xE3\xCF\xD3\n")

	firstPage := FormObjNr(layout, len(layout.Forms))
	pageObjNr := func(i int) int { return firstPage + 2*i }
	contentObjNr := func(i int) int { return firstPage + 2*i + 1 }

	write(1, "<< /Type /Catalog /Pages 2 0 R >>", nil)

	kids := make([]string, len(layout.Pages))
	for i := range layout.Pages {
		kids[i] = fmt.Sprintf("%d 0 R", pageObjNr(i))
	}
	write(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(layout.Pages)), nil)

	for i, data := range layout.Images {
		if name, ok := layout.Filters[i]; ok {
			write(ImageObjNr(i), fmt.Sprintf(
				"<< /Type /XObject /Subtype /Image /Width 8 /Height 8 /ColorSpace /DeviceGray /BitsPerComponent 1 /Filter /%s /Length %d >>",
				name, len(data)), data)
			continue
		}
		w, h := jpegSize(data)
		write(ImageObjNr(i), fmt.Sprintf(
			"<< /Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /DCTDecode /Length %d >>",
			w, h, len(data)), data)
	}

	for k, imgs := range layout.Forms {
		xobjects, content := drawList(imgs, "Im", ImageObjNr)
		stream := []byte(content)
		write(FormObjNr(layout, k), fmt.Sprintf(
			"<< /Type /XObject /Subtype /Form /BBox [0 0 300 100] /Resources << /XObject <<%s >> >> /Length %d >>",
			xobjects, len(stream)), stream)
	}

	for i, imgs := range layout.Pages {
		xobjects, content := drawList(imgs, "Im", ImageObjNr)
		if i < len(layout.PageForms) {
			fx, fc := drawList(layout.PageForms[i], "Fm", func(k int) int { return FormObjNr(layout, k) })
			xobjects += fx
			content += fc
		}
		resources := "<< >>"
		if xobjects != "" {
			resources = fmt.Sprintf("<< /XObject <<%s >> >>", xobjects)
		}
		write(pageObjNr(i), fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 300 100] /Resources %s /Contents %d 0 R >>",
			resources, contentObjNr(i)), nil)

		stream := []byte(content)
		write(contentObjNr(i), fmt.Sprintf("<< /Length %d >>", len(stream)), stream)
	}

	size := contentObjNr(len(layout.Pages)-1) + 1
	if len(layout.Pages) == 0 {
		size = firstPage
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", size)
	for objNr := 1; objNr < size; objNr++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[objNr])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", size, xref)

	return buf.Bytes()
}

// WriteFile builds layout and writes it to path
func WriteFile(path string, layout Layout) error {
	return os.WriteFile(path, Build(layout), 0o644)
}

// drawList names each object prefix{j} and returns the XObject dict entries
// and the content stream drawing them side by side
func drawList(indices []int, prefix string, objNr func(int) int) (string, string) {
	var xobjects, content strings.Builder
	for j, idx := range indices {
		fmt.Fprintf(&xobjects, " /%s%d %d 0 R", prefix, j, objNr(idx))
		fmt.Fprintf(&content, "q 40 0 0 40 %d 20 cm /%s%d Do Q\n", 10+45*j, prefix, j)
	}
	return xobjects.String(), content.String()
}

func jpegSize(data []byte) (int, int) {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 1, 1
	}
	return cfg.Width, cfg.Height
}
