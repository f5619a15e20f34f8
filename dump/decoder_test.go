package dump_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wasmkit/wasmdump/dump"
	"github.com/wasmkit/wasmdump/errors"
	"github.com/wasmkit/wasmdump/wasm"
)

func header() []byte {
	return []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
}

func section(id byte, body ...byte) []byte {
	out := []byte{id}
	out = append(out, wasm.EncodeLEB128u(uint64(len(body)))...)
	return append(out, body...)
}

func labels(lines []dump.Line) []string {
	var out []string
	for _, line := range lines {
		out = append(out, line.Labels...)
	}
	return out
}

func hasLabel(lines []dump.Line, substr string) bool {
	for _, label := range labels(lines) {
		if strings.Contains(label, substr) {
			return true
		}
	}
	return false
}

func TestDecodeGolden(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "golden.wasm"))
	if err != nil {
		t.Fatal(err)
	}
	want, err := os.ReadFile(filepath.Join("testdata", "golden.txt"))
	if err != nil {
		t.Fatal(err)
	}

	res := dump.Decode(data, dump.Options{})
	if res.Err != nil {
		t.Fatalf("Decode error: %v", res.Err)
	}
	got := dump.Render("golden.wasm", data, res.Lines, dump.DefaultWidth)
	if got != string(want) {
		t.Errorf("report mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

// Every report byte row is accounted for: the spans emitted for a
// well-formed module tile the input contiguously.
func TestDecodeSpansTileInput(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "golden.wasm"))
	if err != nil {
		t.Fatal(err)
	}
	res := dump.Decode(data, dump.Options{})
	if res.Err != nil {
		t.Fatalf("Decode error: %v", res.Err)
	}

	next := 0
	for _, line := range res.Lines {
		if line.Span == nil {
			continue
		}
		if line.Span.Start != next {
			t.Fatalf("span gap: have offset %d, next span starts at %d", next, line.Span.Start)
		}
		next = line.Span.End
	}
	if next != len(data) {
		t.Errorf("spans end at %d, input is %d bytes", next, len(data))
	}
}

func TestDecodeBadMagic(t *testing.T) {
	res := dump.Decode([]byte{0x00, 0x61, 0x73, 0x6E, 0x01, 0x00, 0x00, 0x00}, dump.Options{})
	if !errors.IsKind(res.Err, errors.KindBadMagic) {
		t.Fatalf("error = %v, want bad magic", res.Err)
	}
	if len(res.Lines) != 0 {
		t.Errorf("bad magic produced %d lines, want none", len(res.Lines))
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	res := dump.Decode([]byte{0x00, 0x61, 0x73, 0x6D, 0x02, 0x00, 0x00, 0x00}, dump.Options{})
	if !errors.IsKind(res.Err, errors.KindUnsupportedVersion) {
		t.Fatalf("error = %v, want unsupported version", res.Err)
	}
	if len(res.Lines) != 0 {
		t.Errorf("unsupported version produced %d lines, want none", len(res.Lines))
	}
}

func TestDecodeTruncatedHeader(t *testing.T) {
	res := dump.Decode([]byte{0x00, 0x61, 0x73}, dump.Options{})
	if !errors.IsKind(res.Err, errors.KindTruncated) {
		t.Fatalf("error = %v, want truncated", res.Err)
	}
}

// A section whose declared size reaches past the end of the file is a
// real truncation: the decode fails but keeps everything produced so
// far, closed by an error line.
func TestDecodeTruncatedSection(t *testing.T) {
	data := append(header(), 0x03, 0x05, 0x01)

	res := dump.Decode(data, dump.Options{})
	if !errors.IsKind(res.Err, errors.KindTruncated) {
		t.Fatalf("error = %v, want truncated", res.Err)
	}
	if !hasLabel(res.Lines, "Function Section") {
		t.Error("partial lines missing the section heading")
	}
	if !hasLabel(res.Lines, "error: ") {
		t.Error("report missing trailing error line")
	}
}

// A section that overruns its declared size while more file follows is
// reported as a size mismatch and decoding resumes at the next section
// boundary.
func TestDecodeSectionSizeMismatchResync(t *testing.T) {
	data := header()
	// Function section declaring 1 byte but whose count promises two
	// entries, followed by a well-formed data count section.
	data = append(data, section(wasm.SectionFunction, 0x02)...)
	data = append(data, section(wasm.SectionDataCount, 0x03)...)

	res := dump.Decode(data, dump.Options{})
	if res.Err != nil {
		t.Fatalf("Decode error: %v, want resync", res.Err)
	}
	if !hasLabel(res.Lines, "warning: section_size_mismatch") {
		t.Errorf("report missing mismatch warning, labels: %q", labels(res.Lines))
	}
	if !hasLabel(res.Lines, "data count = 3") {
		t.Error("decoding did not resume at the following section")
	}
}

// Unknown section ids degrade to an opaque payload dump.
func TestDecodeUnknownSection(t *testing.T) {
	data := header()
	data = append(data, section(13, 'h', 'i', 0x00)...)

	res := dump.Decode(data, dump.Options{})
	if res.Err != nil {
		t.Fatalf("Decode error: %v", res.Err)
	}
	if !hasLabel(res.Lines, "Unknown Section (id=13)") {
		t.Error("missing unknown section heading")
	}
	if !hasLabel(res.Lines, "unknown data: size = 3") {
		t.Error("missing opaque payload size")
	}
	if !hasLabel(res.Lines, `"hi."`) {
		t.Error("missing opaque payload ascii row")
	}
}

func TestDecodeCustomSection(t *testing.T) {
	body := []byte{0x04}
	body = append(body, []byte("name")...)
	body = append(body, 0x01, 0x02)
	data := append(header(), section(wasm.SectionCustom, body...)...)

	res := dump.Decode(data, dump.Options{})
	if res.Err != nil {
		t.Fatalf("Decode error: %v", res.Err)
	}
	if !hasLabel(res.Lines, `name = "name"`) {
		t.Error("missing custom section name")
	}
}

func TestDecodeEmptyModule(t *testing.T) {
	res := dump.Decode(header(), dump.Options{})
	if res.Err != nil {
		t.Fatalf("Decode error: %v", res.Err)
	}
	want := []string{`magic = b'\x00asm'`, "version = 1"}
	got := labels(res.Lines)
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("labels = %q, want %q", got, want)
	}
}

func TestDecodeGlobalSection(t *testing.T) {
	// (global i32 (i32.const 7))
	body := []byte{0x01, 0x7F, 0x00, 0x41, 0x07, 0x0B}
	data := append(header(), section(wasm.SectionGlobal, body...)...)

	res := dump.Decode(data, dump.Options{})
	if res.Err != nil {
		t.Fatalf("Decode error: %v", res.Err)
	}
	for _, want := range []string{"global count = 1", "valtype = i32", "mut = const", "expr", "i32.const", "--> 7", "end"} {
		if !hasLabel(res.Lines, want) {
			t.Errorf("missing label %q in %q", want, labels(res.Lines))
		}
	}
}

func TestDecodeDataSection(t *testing.T) {
	// Active segment: (data (i32.const 8) "hi")
	body := []byte{0x01, 0x00, 0x41, 0x08, 0x0B, 0x02, 'h', 'i'}
	data := append(header(), section(wasm.SectionData, body...)...)

	res := dump.Decode(data, dump.Options{})
	if res.Err != nil {
		t.Fatalf("Decode error: %v", res.Err)
	}
	for _, want := range []string{"data count = 1", "data[0] (mode=0)", "init size = 2", `"hi"`} {
		if !hasLabel(res.Lines, want) {
			t.Errorf("missing label %q in %q", want, labels(res.Lines))
		}
	}
}

func TestDecodeElementSection(t *testing.T) {
	// Mode 0: active funcref segment with offset expr and two indices.
	body := []byte{0x01, 0x00, 0x41, 0x00, 0x0B, 0x02, 0x00, 0x01}
	data := append(header(), section(wasm.SectionElement, body...)...)

	res := dump.Decode(data, dump.Options{})
	if res.Err != nil {
		t.Fatalf("Decode error: %v", res.Err)
	}
	for _, want := range []string{"elem[0] (mode:0)", "funcidx count = 2", "funcidx[0] = 0", "funcidx[1] = 1"} {
		if !hasLabel(res.Lines, want) {
			t.Errorf("missing label %q in %q", want, labels(res.Lines))
		}
	}
}

func TestDecodeTableAndMemorySections(t *testing.T) {
	data := header()
	data = append(data, section(wasm.SectionTable, 0x01, 0x70, 0x01, 0x02, 0x0A)...)
	data = append(data, section(wasm.SectionMemory, 0x01, 0x00, 0x10)...)

	res := dump.Decode(data, dump.Options{})
	if res.Err != nil {
		t.Fatalf("Decode error: %v", res.Err)
	}
	for _, want := range []string{
		"table count = 1", "funcref", "limits", "min = 2", "max = 10",
		"memtype count = 1", "min = 16",
	} {
		if !hasLabel(res.Lines, want) {
			t.Errorf("missing label %q in %q", want, labels(res.Lines))
		}
	}
}

func TestDecodeStartSection(t *testing.T) {
	data := append(header(), section(wasm.SectionStart, 0x02)...)
	res := dump.Decode(data, dump.Options{})
	if res.Err != nil {
		t.Fatalf("Decode error: %v", res.Err)
	}
	if !hasLabel(res.Lines, "funcidx = 2") {
		t.Errorf("missing start funcidx, labels: %q", labels(res.Lines))
	}
}

func TestDecodeCodeLocals(t *testing.T) {
	// One body: (local i32 i32) (local f64) end
	fnBody := []byte{0x02, 0x02, 0x7F, 0x01, 0x7C, 0x0B}
	body := append([]byte{0x01, byte(len(fnBody))}, fnBody...)
	data := append(header(), section(wasm.SectionCode, body...)...)

	res := dump.Decode(data, dump.Options{})
	if res.Err != nil {
		t.Fatalf("Decode error: %v", res.Err)
	}
	for _, want := range []string{
		"local size = 2",
		"local[0]", "type count = 2", "type = i32",
		"local[1]", "type count = 1", "type = f64",
		"end",
	} {
		if !hasLabel(res.Lines, want) {
			t.Errorf("missing label %q in %q", want, labels(res.Lines))
		}
	}
}

func TestDecodeInvalidUTF8Name(t *testing.T) {
	body := []byte{0x02, 0xFF, 0xFE}
	data := append(header(), section(wasm.SectionCustom, body...)...)

	res := dump.Decode(data, dump.Options{})
	if !errors.IsKind(res.Err, errors.KindInvalidUTF8) {
		t.Fatalf("error = %v, want invalid UTF-8", res.Err)
	}
}

func TestDecodeWidthOption(t *testing.T) {
	payload := bytes.Repeat([]byte{'a'}, 6)
	body := append([]byte{0x00}, payload...)
	data := append(header(), section(wasm.SectionCustom, body...)...)

	res := dump.Decode(data, dump.Options{Width: 4})
	if res.Err != nil {
		t.Fatalf("Decode error: %v", res.Err)
	}
	// Opaque payload chunks follow the configured row width.
	if !hasLabel(res.Lines, `"aaaa"`) || !hasLabel(res.Lines, `"aa"`) {
		t.Errorf("payload rows not chunked at width 4: %q", labels(res.Lines))
	}
}
