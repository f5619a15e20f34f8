package errors

import (
	"fmt"
)

// Kind categorizes a decode error.
type Kind string

const (
	KindBadMagic            Kind = "bad_magic"
	KindUnsupportedVersion  Kind = "unsupported_version"
	KindTruncated           Kind = "truncated"
	KindMalformedVarint     Kind = "malformed_varint"
	KindInvalidUTF8         Kind = "invalid_utf8"
	KindUnknownValueType    Kind = "unknown_value_type"
	KindSectionSizeMismatch Kind = "section_size_mismatch"
)

// Error is the structured error type used throughout the decoder.
// Offset is the absolute byte offset in the input where the error was
// detected.
type Error struct {
	Cause  error
	Kind   Kind
	Detail string
	Offset int
}

// Error implements the error interface.
func (e *Error) Error() string {
	s := fmt.Sprintf("%s at offset 0x%02x", e.Kind, e.Offset)
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	if e.Cause != nil {
		s += " (caused by: " + e.Cause.Error() + ")"
	}
	return s
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two Errors match when
// their kinds are equal, so sentinel comparisons work regardless of the
// recorded offset.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether err (or an error it wraps) is an *Error with
// the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Header reports whether err is a header-level failure for which no
// partial report is produced.
func Header(err error) bool {
	return IsKind(err, KindBadMagic) || IsKind(err, KindUnsupportedVersion)
}

// BadMagic reports a magic number mismatch at the start of the file.
func BadMagic(offset int, got []byte) *Error {
	return &Error{
		Kind:   KindBadMagic,
		Offset: offset,
		Detail: fmt.Sprintf("got % 02x, want 00 61 73 6d", got),
	}
}

// UnsupportedVersion reports an unexpected binary format version.
func UnsupportedVersion(offset int, got uint32) *Error {
	return &Error{
		Kind:   KindUnsupportedVersion,
		Offset: offset,
		Detail: fmt.Sprintf("got version %d, want 1", got),
	}
}

// Truncated reports that the buffer ended in the middle of a field.
func Truncated(offset int, what string) *Error {
	return &Error{Kind: KindTruncated, Offset: offset, Detail: what}
}

// MalformedVarint reports a LEB128 encoding that exceeds its maximum width.
func MalformedVarint(offset int) *Error {
	return &Error{Kind: KindMalformedVarint, Offset: offset}
}

// InvalidUTF8 reports a name field with invalid UTF-8 content.
func InvalidUTF8(offset int) *Error {
	return &Error{Kind: KindInvalidUTF8, Offset: offset}
}

// UnknownValueType reports an unrecognized value type tag.
func UnknownValueType(offset int, tag byte) *Error {
	return &Error{
		Kind:   KindUnknownValueType,
		Offset: offset,
		Detail: fmt.Sprintf("tag 0x%02x", tag),
	}
}

// SectionSizeMismatch reports a section whose body consumed more bytes
// than its declared size.
func SectionSizeMismatch(offset int, id byte, declared uint32) *Error {
	return &Error{
		Kind:   KindSectionSizeMismatch,
		Offset: offset,
		Detail: fmt.Sprintf("section id=%d overran its declared size of %d bytes", id, declared),
	}
}
