package wasmdump_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wasmkit/wasmdump"
	"github.com/wasmkit/wasmdump/errors"
)

func TestAnnotateGolden(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("dump", "testdata", "golden.wasm"))
	if err != nil {
		t.Fatal(err)
	}
	want, err := os.ReadFile(filepath.Join("dump", "testdata", "golden.txt"))
	if err != nil {
		t.Fatal(err)
	}

	got, err := wasmdump.Annotate("golden.wasm", data, wasmdump.Options{})
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if got != string(want) {
		t.Errorf("report mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestAnnotateBadMagic(t *testing.T) {
	report, err := wasmdump.Annotate("x.wasm", []byte("GARBAGE!"), wasmdump.Options{})
	if !errors.IsKind(err, errors.KindBadMagic) {
		t.Fatalf("error = %v, want bad magic", err)
	}
	if report != "" {
		t.Errorf("report = %q, want empty", report)
	}
}

func TestAnnotatePartialReportOnTruncation(t *testing.T) {
	data := []byte{
		0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00,
		0x03, 0x05, 0x01, // declares 5 body bytes, file ends
	}
	report, err := wasmdump.Annotate("t.wasm", data, wasmdump.Options{})
	if !errors.IsKind(err, errors.KindTruncated) {
		t.Fatalf("error = %v, want truncated", err)
	}
	if !strings.Contains(report, "Function Section (id=3)") {
		t.Error("partial report missing decoded section heading")
	}
	if !strings.Contains(report, "error: truncated") {
		t.Error("partial report missing trailing error line")
	}
}
