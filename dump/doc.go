// Package dump decodes WebAssembly binary modules into annotation lines
// and renders them as a hex dump with aligned structural labels.
//
// The pipeline has two halves. Decode walks the binary with span-tracking
// cursors, pairing every consumed byte range with a label describing the
// field it encodes, and degrades gracefully on malformed input: unknown
// sections and opcodes become opaque annotations, and a section whose
// declared size disagrees with its content is reported and skipped so the
// walk can resync at the next section boundary. Render then lays the raw
// bytes out in fixed-width hex rows and zips each span's rows against its
// labels.
package dump
