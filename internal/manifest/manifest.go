// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package manifest describes the files written by an extraction run.
package manifest

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"pdfimages/internal/config"
	"pdfimages/internal/extractor"

	"github.com/goccy/go-json"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/zeebo/xxh3"
	_ "golang.org/x/image/tiff"
	"gopkg.in/yaml.v3"
)

// Manifest is the sidecar document written next to the extracted images
type Manifest struct {
	Source    string    `json:"source" yaml:"source"`
	OutputDir string    `json:"output_dir" yaml:"output_dir"`
	Total     int       `json:"total" yaml:"total"`
	Files     []Entry   `json:"files" yaml:"files"`
	Skipped   []Skipped `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Entry describes one written image
type Entry struct {
	Index  int    `json:"index" yaml:"index"`
	Page   int    `json:"page" yaml:"page"`
	ObjNr  int    `json:"obj_nr" yaml:"obj_nr"`
	File   string `json:"file" yaml:"file"`
	Ext    string `json:"ext" yaml:"ext"`
	Size   int64  `json:"size" yaml:"size"`
	Hash   string `json:"xxh3" yaml:"xxh3"`
	Width  int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height int    `json:"height,omitempty" yaml:"height,omitempty"`
	Exif   *Exif  `json:"exif,omitempty" yaml:"exif,omitempty"`
}

// Exif holds the camera fields found in a JPEG's APP1 segment
type Exif struct {
	Make        string `json:"make,omitempty" yaml:"make,omitempty"`
	Model       string `json:"model,omitempty" yaml:"model,omitempty"`
	Orientation int    `json:"orientation,omitempty" yaml:"orientation,omitempty"`
}

// Skipped records an image left out under continue-on-error
type Skipped struct {
	Page  int    `json:"page" yaml:"page"`
	ObjNr int    `json:"obj_nr" yaml:"obj_nr"`
	Error string `json:"error" yaml:"error"`
}

// Build reads back every file in res and describes it
func Build(res *extractor.Result) (*Manifest, error) {
	m := &Manifest{
		Source:    res.Source,
		OutputDir: res.OutputDir,
		Total:     res.Count,
		Files:     make([]Entry, 0, len(res.Files)),
	}

	for _, f := range res.Files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Path, err)
		}

		entry := Entry{
			Index:  f.Index,
			Page:   f.Page,
			ObjNr:  f.ObjNr,
			File:   filepath.Base(f.Path),
			Ext:    f.Ext,
			Size:   int64(len(data)),
			Hash:   fmt.Sprintf("%016x", xxh3.Hash(data)),
			Width:  f.Width,
			Height: f.Height,
		}
		if entry.Width == 0 || entry.Height == 0 {
			if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
				entry.Width, entry.Height = cfg.Width, cfg.Height
			}
		}
		if f.Ext == "jpg" || f.Ext == "jpeg" {
			entry.Exif = readExif(data)
		}

		m.Files = append(m.Files, entry)
	}

	for _, s := range res.Skipped {
		skipped := Skipped{Page: s.Page, ObjNr: s.ObjNr}
		if s.Err != nil {
			skipped.Error = s.Err.Error()
		}
		m.Skipped = append(m.Skipped, skipped)
	}

	return m, nil
}

// readExif returns nil when the image carries no camera fields
func readExif(data []byte) *Exif {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	var out Exif
	if tag, err := x.Get(exif.Make); err == nil {
		out.Make, _ = tag.StringVal()
	}
	if tag, err := x.Get(exif.Model); err == nil {
		out.Model, _ = tag.StringVal()
	}
	if tag, err := x.Get(exif.Orientation); err == nil {
		out.Orientation, _ = tag.Int(0)
	}

	if out == (Exif{}) {
		return nil
	}
	return &out
}

// FileName returns the manifest file name for format
func FileName(format string) string {
	return "manifest." + format
}

// Encode renders m as json or yaml
func Encode(m *Manifest, format string) ([]byte, error) {
	switch format {
	case config.ManifestJSON:
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json manifest: %w", err)
		}
		return append(data, '\n'), nil
	case config.ManifestYAML:
		data, err := yaml.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("encoding yaml manifest: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown manifest format %q", format)
	}
}

// Write encodes m into dir and returns the path written
func Write(m *Manifest, dir, format string, mode os.FileMode) (string, error) {
	data, err := Encode(m, format)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(format))
	if err := os.WriteFile(path, data, mode); err != nil {
		return "", fmt.Errorf("writing manifest: %w", err)
	}
	return path, nil
}
