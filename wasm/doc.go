// Package wasm defines the WebAssembly binary format vocabulary used by
// the annotating decoder: section IDs, value type tags, opcode bytes,
// display-name lookups, and LEB128 varint primitives.
//
// The LEB128 helpers operate on byte slices so that callers can account
// for the exact span an encoding occupies:
//
//	n, ok := wasm.VarintLen(data, wasm.MaxVarint32)
//	if ok {
//	    v := wasm.DecodeLEB128u(data[:n])
//	}
//
// Encode-side helpers (WriteLEB128u and friends) exist primarily so that
// tests can assemble binary fixtures.
package wasm
