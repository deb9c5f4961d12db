// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_MessageAndMatching(t *testing.T) {
	cause := errors.New("bad stream")
	err := newDecodeError("in.pdf", 2, 14, cause)

	want := "decode: in.pdf page=2 obj=14 cause=bad stream"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	wrapped := fmt.Errorf("run failed: %w", err)
	if !errors.Is(wrapped, ErrDecode) {
		t.Error("expected wrapped error to match ErrDecode")
	}
	if errors.Is(wrapped, ErrIO) || errors.Is(wrapped, ErrDocumentOpen) {
		t.Error("decode error should not match other sentinels")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("expected cause to be reachable through Unwrap")
	}
	if KindOf(wrapped) != KindDecode {
		t.Errorf("expected KindDecode, got %q", KindOf(wrapped))
	}
}

func TestError_Kinds(t *testing.T) {
	cases := []struct {
		err      *Error
		sentinel error
		message  string
	}{
		{NewDocumentOpenError("x.pdf", nil), ErrDocumentOpen, "document_open: x.pdf"},
		{newIOError("out/image_0.png", errors.New("disk full")), ErrIO, "io: out/image_0.png cause=disk full"},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.sentinel) {
			t.Errorf("%v should match %v", tc.err, tc.sentinel)
		}
		if tc.err.Error() != tc.message {
			t.Errorf("expected %q, got %q", tc.message, tc.err.Error())
		}
	}
}

func TestKindOf_Foreign(t *testing.T) {
	if KindOf(errors.New("plain")) != "" {
		t.Error("plain errors have no kind")
	}
	if KindOf(nil) != "" {
		t.Error("nil has no kind")
	}
}
