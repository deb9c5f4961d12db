// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies extraction failures
type Kind string

const (
	// KindDocumentOpen: the input is missing, unreadable or not a PDF
	KindDocumentOpen Kind = "document_open"
	// KindIO: creating the output directory or writing a file failed
	KindIO Kind = "io"
	// KindDecode: the PDF library could not list or decode an image
	KindDecode Kind = "decode"
)

// Sentinels for errors.Is
var (
	ErrDocumentOpen = errors.New("document open failed")
	ErrIO           = errors.New("i/o failed")
	ErrDecode       = errors.New("image decode failed")
)

// Error is returned for every failure of an extraction run
type Error struct {
	Kind  Kind
	Path  string // input PDF or output file, depending on Kind
	Page  int    // 1-based, 0 when not page specific
	ObjNr int    // 0 when not image specific
	Cause error
}

// Error implements the error interface
func (e *Error) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%s: %s", e.Kind, e.Path))

	if e.Page > 0 {
		parts = append(parts, fmt.Sprintf("page=%d", e.Page))
	}
	if e.ObjNr > 0 {
		parts = append(parts, fmt.Sprintf("obj=%d", e.ObjNr))
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Cause))
	}

	return strings.Join(parts, " ")
}

// Unwrap returns the underlying library or OS error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel for the error's Kind
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindDocumentOpen:
		return target == ErrDocumentOpen
	case KindIO:
		return target == ErrIO
	case KindDecode:
		return target == ErrDecode
	}
	return false
}

// NewDocumentOpenError wraps a failure to open path as a PDF
func NewDocumentOpenError(path string, cause error) *Error {
	return &Error{Kind: KindDocumentOpen, Path: path, Cause: cause}
}

func newIOError(path string, cause error) *Error {
	return &Error{Kind: KindIO, Path: path, Cause: cause}
}

func newDecodeError(path string, page, objNr int, cause error) *Error {
	return &Error{Kind: KindDecode, Path: path, Page: page, ObjNr: objNr, Cause: cause}
}

// KindOf returns the Kind of err, or "" when err is not an extraction error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
