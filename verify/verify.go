// Package verify cross-checks module bytes against an independent
// WebAssembly implementation. The annotating decoder is deliberately
// permissive, so a module that dumps cleanly may still be invalid;
// compiling it under wazero catches type errors, bad indices, and
// structural problems the dump glosses over.
package verify

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
)

// Compile attempts to compile the module with wazero and reports the
// compiler's verdict. A nil error means the module is well-formed and
// validates.
func Compile(ctx context.Context, data []byte) error {
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, data)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	return compiled.Close(ctx)
}
