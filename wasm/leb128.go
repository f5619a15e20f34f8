package wasm

import (
	"bytes"
	"encoding/binary"
	"math"
)

// LEB128 encoding/decoding utilities for the WebAssembly binary format.

// Maximum encoded widths for LEB128 varints.
const (
	MaxVarint32 = 5  // 32-bit values terminate within 5 bytes
	MaxVarint64 = 10 // 64-bit values terminate within 10 bytes
)

// VarintLen returns the number of bytes occupied by the LEB128 varint at
// the start of data. ok is false when the encoding does not terminate
// within max bytes or the data runs out first.
func VarintLen(data []byte, max int) (n int, ok bool) {
	if max > len(data) {
		max = len(data)
	}
	for i := 0; i < max; i++ {
		n++
		if data[i]&0x80 == 0 {
			return n, true
		}
	}
	return n, false
}

// DecodeLEB128u decodes the unsigned LEB128 value spanning exactly the
// given bytes, accumulating 7 data bits per byte low-to-high.
func DecodeLEB128u(data []byte) uint64 {
	var result uint64
	for i, b := range data {
		result |= uint64(b&0x7f) << (7 * uint(i))
	}
	return result
}

// DecodeLEB128s decodes the signed LEB128 value spanning exactly the
// given bytes, sign-extending from the final byte's sign bit.
func DecodeLEB128s(data []byte) int64 {
	result := int64(DecodeLEB128u(data))
	shift := 7 * uint(len(data))
	if shift < 64 && data[len(data)-1]&0x40 != 0 {
		result |= ^int64(0) << shift
	}
	return result
}

// WriteLEB128u writes an unsigned LEB128 value
func WriteLEB128u(w *bytes.Buffer, v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			break
		}
	}
}

// WriteLEB128s writes a signed LEB128 value
func WriteLEB128s(w *bytes.Buffer, v int64) {
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		w.WriteByte(b)
	}
}

// EncodeLEB128u encodes an unsigned LEB128 value to bytes.
func EncodeLEB128u(v uint64) []byte {
	var buf bytes.Buffer
	WriteLEB128u(&buf, v)
	return buf.Bytes()
}

// EncodeLEB128s encodes a signed LEB128 value to bytes.
func EncodeLEB128s(v int64) []byte {
	var buf bytes.Buffer
	WriteLEB128s(&buf, v)
	return buf.Bytes()
}

// DecodeFloat32 decodes a little-endian float32 from exactly 4 bytes.
func DecodeFloat32(data []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data))
}

// DecodeFloat64 decodes a little-endian float64 from exactly 8 bytes.
func DecodeFloat64(data []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(data))
}
