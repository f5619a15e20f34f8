// Package wasmdump renders WebAssembly binary modules as annotated hex
// dumps: every byte of the input appears in a fixed-width hex column,
// paired with a label naming the structure it encodes.
//
// The work is split across subpackages. dump decodes the binary into
// span/label pairs and lays them out, wasm holds the binary format
// constants and LEB128 codecs, errors defines the structured error
// taxonomy, and verify cross-checks modules against the wazero
// compiler. This package ties decode and render together for the
// common one-call case:
//
//	report, err := wasmdump.Annotate(path, data, wasmdump.Options{})
//
// The cmd/wasmdump binary wraps Annotate with a flag-based CLI and an
// interactive viewer.
package wasmdump
