// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the error returned for malformed manifests.
package manifest

import (
	"errors"
	"fmt"
)

// ErrParse is matched by every ParseError.
var ErrParse = errors.New("manifest parse error")

// ParseError reports a malformed or ambiguous manifest.
type ParseError struct {
	// Field is the dotted location of the offending value, e.g.
	// "dependencies.foo". Empty when the document itself is unreadable.
	Field string
	Msg   string
	Err   error
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Field == "" {
		return "invalid manifest: " + msg
	}
	return fmt.Sprintf("invalid manifest: %s: %s", e.Field, msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func fieldErr(field, format string, args ...any) *ParseError {
	return &ParseError{Field: field, Msg: fmt.Sprintf(format, args...)}
}
