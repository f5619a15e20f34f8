package wasm_test

import (
	"bytes"
	"testing"

	"github.com/wasmkit/wasmdump/wasm"
)

func TestLEB128Unsigned(t *testing.T) {
	tests := []struct {
		encoded []byte
		value   uint64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xff, 0x01}, 255},
		{[]byte{0x80, 0x02}, 256},
		{[]byte{0xff, 0x7f}, 16383},
		{[]byte{0x80, 0x80, 0x01}, 16384},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, 0xFFFFFFFF},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		wasm.WriteLEB128u(&buf, tt.value)
		if !bytes.Equal(buf.Bytes(), tt.encoded) {
			t.Errorf("encode %d: got %v, want %v", tt.value, buf.Bytes(), tt.encoded)
		}

		n, ok := wasm.VarintLen(tt.encoded, wasm.MaxVarint32)
		if !ok {
			t.Fatalf("VarintLen(%v): no terminator", tt.encoded)
		}
		if n != len(tt.encoded) {
			t.Errorf("VarintLen(%v): got %d, want %d", tt.encoded, n, len(tt.encoded))
		}
		if got := wasm.DecodeLEB128u(tt.encoded); got != tt.value {
			t.Errorf("decode %v: got %d, want %d", tt.encoded, got, tt.value)
		}
	}
}

func TestLEB128Signed(t *testing.T) {
	tests := []struct {
		encoded []byte
		value   int64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, -1},
		{[]byte{0x3f}, 63},
		{[]byte{0xc0, 0x00}, 64},
		{[]byte{0x40}, -64},
		{[]byte{0xbf, 0x7f}, -65},
		{[]byte{0x2a}, 42},
		{[]byte{0xd6, 0x7f}, -42},
		{[]byte{0x80, 0x80, 0x80, 0x80, 0x78}, -2147483648},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x07}, 2147483647},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		wasm.WriteLEB128s(&buf, tt.value)
		if !bytes.Equal(buf.Bytes(), tt.encoded) {
			t.Errorf("encode %d: got %v, want %v", tt.value, buf.Bytes(), tt.encoded)
		}
		if got := wasm.DecodeLEB128s(tt.encoded); got != tt.value {
			t.Errorf("decode %v: got %d, want %d", tt.encoded, got, tt.value)
		}
	}
}

func TestLEB128RoundTrip(t *testing.T) {
	unsigned := []uint64{0, 1, 63, 64, 127, 128, 1 << 14, 1 << 21, 1 << 28, 0xFFFFFFFF, 1 << 40, 1<<63 - 1}
	for _, v := range unsigned {
		enc := wasm.EncodeLEB128u(v)
		n, ok := wasm.VarintLen(enc, wasm.MaxVarint64)
		if !ok || n != len(enc) {
			t.Fatalf("VarintLen(%v): n=%d ok=%v", enc, n, ok)
		}
		if got := wasm.DecodeLEB128u(enc); got != v {
			t.Errorf("round trip %d: got %d", v, got)
		}
	}

	signed := []int64{0, 1, -1, 42, -42, 63, -64, 64, -65, 1 << 30, -(1 << 30), 1<<62 - 1, -(1 << 62)}
	for _, v := range signed {
		enc := wasm.EncodeLEB128s(v)
		if got := wasm.DecodeLEB128s(enc); got != v {
			t.Errorf("round trip %d: got %d", v, got)
		}
	}
}

func TestVarintLenBudget(t *testing.T) {
	// All continuation bits set: never terminates.
	data := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80}
	if _, ok := wasm.VarintLen(data, wasm.MaxVarint32); ok {
		t.Error("expected failure beyond 5-byte budget")
	}
	// Terminates exactly at the budget boundary.
	data = []byte{0x80, 0x80, 0x80, 0x80, 0x0f}
	n, ok := wasm.VarintLen(data, wasm.MaxVarint32)
	if !ok || n != 5 {
		t.Errorf("got n=%d ok=%v, want 5 true", n, ok)
	}
	// Data runs out before a terminator.
	if _, ok := wasm.VarintLen([]byte{0x80, 0x80}, wasm.MaxVarint32); ok {
		t.Error("expected failure on truncated varint")
	}
	if _, ok := wasm.VarintLen(nil, wasm.MaxVarint32); ok {
		t.Error("expected failure on empty input")
	}
}

func TestDecodeFloats(t *testing.T) {
	if got := wasm.DecodeFloat32([]byte{0x00, 0x00, 0x80, 0x3f}); got != 1.0 {
		t.Errorf("DecodeFloat32: got %v, want 1.0", got)
	}
	if got := wasm.DecodeFloat64([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xf0, 0x3f}); got != 1.0 {
		t.Errorf("DecodeFloat64: got %v, want 1.0", got)
	}
	if got := wasm.DecodeFloat32([]byte{0x00, 0x00, 0x20, 0xc0}); got != -2.5 {
		t.Errorf("DecodeFloat32: got %v, want -2.5", got)
	}
}
