// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"pdfimages/internal/extractor"
	"pdfimages/internal/testpdf"
)

// withExif inserts an APP1 segment carrying Make and Orientation after SOI
func withExif(jpg []byte, maker string, orientation uint16) []byte {
	var tiff bytes.Buffer
	be := binary.BigEndian
	tiff.WriteString("MM\x00\x2a")
	binary.Write(&tiff, be, uint32(8))
	binary.Write(&tiff, be, uint16(2))

	value := append([]byte(maker), 0)
	// header + entry count + two entries + next IFD offset
	valueOffset := uint32(8 + 2 + 2*12 + 4)
	binary.Write(&tiff, be, uint16(0x010F))
	binary.Write(&tiff, be, uint16(2))
	binary.Write(&tiff, be, uint32(len(value)))
	binary.Write(&tiff, be, valueOffset)

	binary.Write(&tiff, be, uint16(0x0112))
	binary.Write(&tiff, be, uint16(3))
	binary.Write(&tiff, be, uint32(1))
	binary.Write(&tiff, be, orientation)
	binary.Write(&tiff, be, uint16(0))

	binary.Write(&tiff, be, uint32(0))
	tiff.Write(value)

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)
	var out bytes.Buffer
	out.Write(jpg[:2])
	out.Write([]byte{0xFF, 0xE1})
	binary.Write(&out, be, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(jpg[2:])
	return out.Bytes()
}

func writeResult(t *testing.T, files map[string][]byte, order []extractor.WrittenFile) *extractor.Result {
	t.Helper()
	dir := t.TempDir()
	res := &extractor.Result{Source: "in.pdf", OutputDir: dir}
	for _, f := range order {
		f.Path = filepath.Join(dir, f.Path)
		require.NoError(t, os.WriteFile(f.Path, files[filepath.Base(f.Path)], 0o644))
		res.Files = append(res.Files, f)
		res.Count++
	}
	return res
}

func TestBuild(t *testing.T) {
	logo := testpdf.JPEG(color.RGBA{R: 200, A: 255}, 12, 7)
	photo := withExif(testpdf.JPEG(color.RGBA{B: 200, A: 255}, 5, 4), "ACME", 6)

	res := writeResult(t, map[string][]byte{
		"image_0.jpg": logo,
		"image_1.jpg": photo,
		"image_2.jpg": logo,
		"image_3.jpx": []byte("not decodable by the standard library"),
	}, []extractor.WrittenFile{
		{Index: 0, Page: 1, ObjNr: 3, Ext: "jpg", Path: "image_0.jpg"},
		{Index: 1, Page: 1, ObjNr: 4, Ext: "jpg", Path: "image_1.jpg"},
		{Index: 2, Page: 2, ObjNr: 3, Ext: "jpg", Path: "image_2.jpg"},
		{Index: 3, Page: 2, ObjNr: 9, Ext: "jpx", Path: "image_3.jpx"},
	})
	res.Skipped = []extractor.SkippedImage{{Page: 3, ObjNr: 11, Err: errors.New("corrupt")}}

	m, err := Build(res)
	require.NoError(t, err)

	assert.Equal(t, 4, m.Total)
	require.Len(t, m.Files, 4)

	assert.Equal(t, "image_0.jpg", m.Files[0].File)
	assert.Equal(t, 12, m.Files[0].Width)
	assert.Equal(t, 7, m.Files[0].Height)
	assert.Equal(t, int64(len(logo)), m.Files[0].Size)
	assert.Nil(t, m.Files[0].Exif)
	assert.Len(t, m.Files[0].Hash, 16)

	assert.Equal(t, m.Files[0].Hash, m.Files[2].Hash, "shared image hashes match")
	assert.NotEqual(t, m.Files[0].Hash, m.Files[1].Hash)

	require.NotNil(t, m.Files[1].Exif)
	assert.Equal(t, "ACME", m.Files[1].Exif.Make)
	assert.Equal(t, 6, m.Files[1].Exif.Orientation)
	assert.Equal(t, 5, m.Files[1].Width)

	assert.Zero(t, m.Files[3].Width)
	assert.Nil(t, m.Files[3].Exif)

	require.Len(t, m.Skipped, 1)
	assert.Equal(t, "corrupt", m.Skipped[0].Error)
}

func TestBuild_MissingFile(t *testing.T) {
	res := &extractor.Result{Files: []extractor.WrittenFile{{Path: filepath.Join(t.TempDir(), "gone.png")}}}

	_, err := Build(res)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWrite(t *testing.T) {
	m := &Manifest{
		Source: "in.pdf",
		Total:  1,
		Files:  []Entry{{Index: 0, Page: 1, ObjNr: 3, File: "image_0.png", Ext: "png", Size: 10, Hash: "00000000000000ff"}},
	}
	dir := t.TempDir()

	jsonPath, err := Write(m, dir, "json", 0o644)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "manifest.json"), jsonPath)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON Manifest
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, *m, fromJSON)
	assert.Contains(t, string(data), `"xxh3": "00000000000000ff"`)

	yamlPath, err := Write(m, dir, "yaml", 0o644)
	require.NoError(t, err)
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML Manifest
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, *m, fromYAML)

	_, err = Write(m, dir, "xml", 0o644)
	assert.Error(t, err)
}
