package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/wasmkit/wasmdump"
	"github.com/wasmkit/wasmdump/dump"
	"github.com/wasmkit/wasmdump/verify"
)

func main() {
	var (
		width       = flag.Int("w", dump.DefaultWidth, "Bytes per hex row")
		verbose     = flag.Bool("v", false, "Log decode diagnostics to stderr")
		check       = flag.Bool("verify", false, "Cross-check each module with the wazero compiler")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: wasmdump [-w width] [-v] [-verify] <file.wasm>...")
		fmt.Fprintln(os.Stderr, "       wasmdump -i <file.wasm>  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()
		dump.SetLogger(log)
	}

	if *interactive {
		if err := runInteractive(flag.Arg(0), *width); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	failed := false
	for _, path := range flag.Args() {
		if err := run(path, *width, *check); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func run(path string, width int, check bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	report, err := wasmdump.Annotate(path, data, wasmdump.Options{Width: width})
	if report != "" {
		fmt.Print(report)
	}
	if err != nil {
		return err
	}

	if check {
		if err := verify.Compile(context.Background(), data); err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		fmt.Printf("%s: verified OK\n", path)
	}
	return nil
}
