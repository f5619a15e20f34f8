// Package errors provides structured error types for the decoder.
//
// Every error carries a Kind identifying the failure class and the
// absolute byte offset in the input where it was detected:
//
//	res := dump.Decode(data, dump.Options{})
//	if errors.IsKind(res.Err, errors.KindTruncated) {
//	    // buffer ended mid-field
//	}
//
// Header-level failures (bad magic, unsupported version) are fatal for
// the whole file; section size mismatches are recovered locally by the
// decoder and surface only as warning annotations.
package errors
