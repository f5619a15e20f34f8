package dump

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wasmkit/wasmdump/wasm"
)

// immKind identifies the wire shape of one instruction immediate.
type immKind int

const (
	immIndex     immKind = iota // uleb128 index (func, local, label, ...)
	immI32                      // sleb128, 32-bit budget
	immI64                      // sleb128, 64-bit budget
	immF32                      // 4 bytes little-endian
	immF64                      // 8 bytes little-endian
	immMemarg                   // align uleb128, offset uleb128
	immBlockType                // empty, valtype, or sleb128 type index
	immLabelVec                 // uleb128 count, labels, default label
	immValTypes                 // uleb128 count, valtype bytes
	immRefType                  // single reftype byte
	immLane                     // single lane byte
	immV128                     // 16 bytes
	immZero                     // literal reserved byte
)

type opcodeInfo struct {
	name string
	imms []immKind
}

func op(name string, imms ...immKind) opcodeInfo {
	return opcodeInfo{name: name, imms: imms}
}

// opcodeTable maps single-byte opcodes to their mnemonic and immediate
// shapes. Opcodes absent from the table degrade to opaque annotation.
var opcodeTable = map[byte]opcodeInfo{
	wasm.OpUnreachable:  op("unreachable"),
	wasm.OpNop:          op("nop"),
	wasm.OpBlock:        op("block", immBlockType),
	wasm.OpLoop:         op("loop", immBlockType),
	wasm.OpIf:           op("if", immBlockType),
	wasm.OpElse:         op("else"),
	wasm.OpEnd:          op("end"),
	wasm.OpBr:           op("br", immIndex),
	wasm.OpBrIf:         op("br_if", immIndex),
	wasm.OpBrTable:      op("br_table", immLabelVec),
	wasm.OpReturn:       op("return"),
	wasm.OpCall:         op("call", immIndex),
	wasm.OpCallIndirect: op("call_indirect", immIndex, immIndex),

	wasm.OpDrop:       op("drop"),
	wasm.OpSelect:     op("select"),
	wasm.OpSelectType: op("select", immValTypes),

	wasm.OpLocalGet:  op("local.get", immIndex),
	wasm.OpLocalSet:  op("local.set", immIndex),
	wasm.OpLocalTee:  op("local.tee", immIndex),
	wasm.OpGlobalGet: op("global.get", immIndex),
	wasm.OpGlobalSet: op("global.set", immIndex),
	wasm.OpTableGet:  op("table.get", immIndex),
	wasm.OpTableSet:  op("table.set", immIndex),

	0x28: op("i32.load", immMemarg),
	0x29: op("i64.load", immMemarg),
	0x2A: op("f32.load", immMemarg),
	0x2B: op("f64.load", immMemarg),
	0x2C: op("i32.load8_s", immMemarg),
	0x2D: op("i32.load8_u", immMemarg),
	0x2E: op("i32.load16_s", immMemarg),
	0x2F: op("i32.load16_u", immMemarg),
	0x30: op("i64.load8_s", immMemarg),
	0x31: op("i64.load8_u", immMemarg),
	0x32: op("i64.load16_s", immMemarg),
	0x33: op("i64.load16_u", immMemarg),
	0x34: op("i64.load32_s", immMemarg),
	0x35: op("i64.load32_u", immMemarg),
	0x36: op("i32.store", immMemarg),
	0x37: op("i64.store", immMemarg),
	0x38: op("f32.store", immMemarg),
	0x39: op("f64.store", immMemarg),
	0x3A: op("i32.store8", immMemarg),
	0x3B: op("i32.store16", immMemarg),
	0x3C: op("i64.store8", immMemarg),
	0x3D: op("i64.store16", immMemarg),
	0x3E: op("i64.store32", immMemarg),

	wasm.OpMemorySize: op("memory.size", immZero),
	wasm.OpMemoryGrow: op("memory.grow", immZero),

	wasm.OpI32Const: op("i32.const", immI32),
	wasm.OpI64Const: op("i64.const", immI64),
	wasm.OpF32Const: op("f32.const", immF32),
	wasm.OpF64Const: op("f64.const", immF64),

	0x45: op("i32.eqz"),
	0x46: op("i32.eq"),
	0x47: op("i32.ne"),
	0x48: op("i32.lt_s"),
	0x49: op("i32.lt_u"),
	0x4A: op("i32.gt_s"),
	0x4B: op("i32.gt_u"),
	0x4C: op("i32.le_s"),
	0x4D: op("i32.le_u"),
	0x4E: op("i32.ge_s"),
	0x4F: op("i32.ge_u"),
	0x50: op("i64.eqz"),
	0x51: op("i64.eq"),
	0x52: op("i64.ne"),
	0x53: op("i64.lt_s"),
	0x54: op("i64.lt_u"),
	0x55: op("i64.gt_s"),
	0x56: op("i64.gt_u"),
	0x57: op("i64.le_s"),
	0x58: op("i64.le_u"),
	0x59: op("i64.ge_s"),
	0x5A: op("i64.ge_u"),
	0x5B: op("f32.eq"),
	0x5C: op("f32.ne"),
	0x5D: op("f32.lt"),
	0x5E: op("f32.gt"),
	0x5F: op("f32.le"),
	0x60: op("f32.ge"),
	0x61: op("f64.eq"),
	0x62: op("f64.ne"),
	0x63: op("f64.lt"),
	0x64: op("f64.gt"),
	0x65: op("f64.le"),
	0x66: op("f64.ge"),

	0x67: op("i32.clz"),
	0x68: op("i32.ctz"),
	0x69: op("i32.popcnt"),
	0x6A: op("i32.add"),
	0x6B: op("i32.sub"),
	0x6C: op("i32.mul"),
	0x6D: op("i32.div_s"),
	0x6E: op("i32.div_u"),
	0x6F: op("i32.rem_s"),
	0x70: op("i32.rem_u"),
	0x71: op("i32.and"),
	0x72: op("i32.or"),
	0x73: op("i32.xor"),
	0x74: op("i32.shl"),
	0x75: op("i32.shr_s"),
	0x76: op("i32.shr_u"),
	0x77: op("i32.rotl"),
	0x78: op("i32.rotr"),
	0x79: op("i64.clz"),
	0x7A: op("i64.ctz"),
	0x7B: op("i64.popcnt"),
	0x7C: op("i64.add"),
	0x7D: op("i64.sub"),
	0x7E: op("i64.mul"),
	0x7F: op("i64.div_s"),
	0x80: op("i64.div_u"),
	0x81: op("i64.rem_s"),
	0x82: op("i64.rem_u"),
	0x83: op("i64.and"),
	0x84: op("i64.or"),
	0x85: op("i64.xor"),
	0x86: op("i64.shl"),
	0x87: op("i64.shr_s"),
	0x88: op("i64.shr_u"),
	0x89: op("i64.rotl"),
	0x8A: op("i64.rotr"),

	0x8B: op("f32.abs"),
	0x8C: op("f32.neg"),
	0x8D: op("f32.ceil"),
	0x8E: op("f32.floor"),
	0x8F: op("f32.trunc"),
	0x90: op("f32.nearest"),
	0x91: op("f32.sqrt"),
	0x92: op("f32.add"),
	0x93: op("f32.sub"),
	0x94: op("f32.mul"),
	0x95: op("f32.div"),
	0x96: op("f32.min"),
	0x97: op("f32.max"),
	0x98: op("f32.copysign"),
	0x99: op("f64.abs"),
	0x9A: op("f64.neg"),
	0x9B: op("f64.ceil"),
	0x9C: op("f64.floor"),
	0x9D: op("f64.trunc"),
	0x9E: op("f64.nearest"),
	0x9F: op("f64.sqrt"),
	0xA0: op("f64.add"),
	0xA1: op("f64.sub"),
	0xA2: op("f64.mul"),
	0xA3: op("f64.div"),
	0xA4: op("f64.min"),
	0xA5: op("f64.max"),
	0xA6: op("f64.copysign"),

	0xA7: op("i32.wrap"),
	0xA8: op("i32.trunc_f32_s"),
	0xA9: op("i32.trunc_f32_u"),
	0xAA: op("i32.trunc_f64_s"),
	0xAB: op("i32.trunc_f64_u"),
	0xAC: op("i64.extend_i32_s"),
	0xAD: op("i64.extend_i32_u"),
	0xAE: op("i64.trunc_f32_s"),
	0xAF: op("i64.trunc_f32_u"),
	0xB0: op("i64.trunc_f64_s"),
	0xB1: op("i64.trunc_f64_u"),
	0xB2: op("f32.convert_i32_s"),
	0xB3: op("f32.convert_i32_u"),
	0xB4: op("f32.convert_i64_s"),
	0xB5: op("f32.convert_i64_u"),
	0xB6: op("f32.demote_f64"),
	0xB7: op("f64.convert_i32_s"),
	0xB8: op("f64.convert_i32_u"),
	0xB9: op("f64.convert_i64_s"),
	0xBA: op("f64.convert_i64_u"),
	0xBB: op("f64.promote_f32"),
	0xBC: op("i32.reinterpret_f32"),
	0xBD: op("i64.reinterpret_f64"),
	0xBE: op("f32.reinterpret_i32"),
	0xBF: op("f64.reinterpret_i64"),
	0xC0: op("i32.extend8_s"),
	0xC1: op("i32.extend16_s"),
	0xC2: op("i64.extend8_s"),
	0xC3: op("i64.extend16_s"),
	0xC4: op("i64.extend32_s"),

	wasm.OpRefNull:   op("ref.null", immRefType),
	wasm.OpRefIsNull: op("ref.is_null"),
	wasm.OpRefFunc:   op("ref.func", immIndex),
}

// miscTable maps 0xFC sub-opcodes (saturating truncation, bulk memory,
// table operations).
var miscTable = map[uint32]opcodeInfo{
	0x00: op("i32.trunc_sat_f32_s"),
	0x01: op("i32.trunc_sat_f32_u"),
	0x02: op("i32.trunc_sat_f64_s"),
	0x03: op("i32.trunc_sat_f64_u"),
	0x04: op("i64.trunc_sat_f32_s"),
	0x05: op("i64.trunc_sat_f32_u"),
	0x06: op("i64.trunc_sat_f64_s"),
	0x07: op("i64.trunc_sat_f64_u"),
	0x08: op("memory.init", immIndex, immZero),
	0x09: op("data.drop", immIndex),
	0x0A: op("memory.copy", immZero, immZero),
	0x0B: op("memory.fill", immZero),
	0x0C: op("table.init", immIndex, immIndex),
	0x0D: op("elem.drop", immIndex),
	0x0E: op("table.copy", immIndex, immIndex),
	0x0F: op("table.grow", immIndex),
	0x10: op("table.size", immIndex),
	0x11: op("table.fill", immIndex),
}

// simdTable maps 0xFD sub-opcodes. Coverage runs through the lane and
// memory forms plus the first arithmetic block; later vector opcodes
// degrade to opaque annotation.
var simdTable = map[uint32]opcodeInfo{
	0x00: op("v128.load", immMemarg),
	0x01: op("v128.load8x8_s", immMemarg),
	0x02: op("v128.load8x8_u", immMemarg),
	0x03: op("v128.load16x4_s", immMemarg),
	0x04: op("v128.load16x4_u", immMemarg),
	0x05: op("v128.load32x2_s", immMemarg),
	0x06: op("v128.load32x2_u", immMemarg),
	0x07: op("v128.load8_splat", immMemarg),
	0x08: op("v128.load16_splat", immMemarg),
	0x09: op("v128.load32_splat", immMemarg),
	0x0A: op("v128.load64_splat", immMemarg),
	0x0B: op("v128.store", immMemarg),
	0x0C: op("v128.const", immV128),
	0x0D: op("i8x16.shuffle", immV128),
	0x0E: op("i8x16.swizzle"),
	0x0F: op("i8x16.splat"),
	0x10: op("i16x8.splat"),
	0x11: op("i32x4.splat"),
	0x12: op("i64x2.splat"),
	0x13: op("f32x4.splat"),
	0x14: op("f64x2.splat"),
	0x15: op("i8x16.extract_lane_s", immLane),
	0x16: op("i8x16.extract_lane_u", immLane),
	0x17: op("i8x16.replace_lane", immLane),
	0x18: op("i16x8.extract_lane_s", immLane),
	0x19: op("i16x8.extract_lane_u", immLane),
	0x1A: op("i16x8.replace_lane", immLane),
	0x1B: op("i32x4.extract_lane", immLane),
	0x1C: op("i32x4.replace_lane", immLane),
	0x1D: op("i64x2.extract_lane", immLane),
	0x1E: op("i64x2.replace_lane", immLane),
	0x1F: op("f32x4.extract_lane", immLane),
	0x20: op("f32x4.replace_lane", immLane),
	0x21: op("f64x2.extract_lane", immLane),
	0x22: op("f64x2.replace_lane", immLane),
	0x4D: op("v128.not"),
	0x4E: op("v128.and"),
	0x4F: op("v128.andnot"),
	0x50: op("v128.or"),
	0x51: op("v128.xor"),
	0x52: op("v128.bitselect"),
	0x53: op("v128.any_true"),
	0x54: op("v128.load8_lane", immMemarg, immLane),
	0x55: op("v128.load16_lane", immMemarg, immLane),
	0x56: op("v128.load32_lane", immMemarg, immLane),
	0x57: op("v128.load64_lane", immMemarg, immLane),
	0x58: op("v128.store8_lane", immMemarg, immLane),
	0x59: op("v128.store16_lane", immMemarg, immLane),
	0x5A: op("v128.store32_lane", immMemarg, immLane),
	0x5B: op("v128.store64_lane", immMemarg, immLane),
	0x5C: op("v128.load32_zero", immMemarg),
	0x5D: op("v128.load64_zero", immMemarg),
}

// expression decodes a flat instruction stream until its matching end
// opcode is consumed, recursing for block/loop/if nesting. base is the
// indentation depth of top-level instructions in this expression.
func (d *decoder) expression(c *Cursor, base int) error {
	return d.expr(c, base, 0)
}

func (d *decoder) expr(c *Cursor, base, level int) error {
	for c.Remaining() > 0 {
		name, err := d.instruction(c, base, level)
		if err != nil {
			return err
		}
		if name == "end" {
			return nil
		}
		if name == "block" || name == "loop" || name == "if" {
			if err := d.expr(c, base, level+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// instruction decodes one opcode and its immediates, returning the
// mnemonic ("" for unknown opcodes).
func (d *decoder) instruction(c *Cursor, base, level int) (string, error) {
	opcode, span, err := c.Byte()
	if err != nil {
		return "", err
	}

	var info opcodeInfo
	var known bool
	switch opcode {
	case wasm.OpPrefixMisc, wasm.OpPrefixSIMD:
		sub, ssp, err := c.Uleb128()
		if err != nil {
			return "", err
		}
		span.End = ssp.End
		if opcode == wasm.OpPrefixMisc {
			info, known = miscTable[sub]
		} else {
			info, known = simdTable[sub]
		}
	default:
		info, known = opcodeTable[opcode]
	}

	if !known {
		raw := c.data[span.Start:span.End]
		parts := make([]string, len(raw))
		for i, b := range raw {
			parts[i] = fmt.Sprintf("0x%02x", b)
		}
		d.sink.Emit(span, base+level, "%s (unknown opcode)", strings.Join(parts, " "))
		d.log.Debug("unknown opcode", zap.String("bytes", strings.Join(parts, " ")))
		return "", nil
	}

	lvl := level
	if (info.name == "else" || info.name == "end") && lvl > 0 {
		lvl--
	}
	depth := base + lvl
	d.sink.Emit(span, depth, "%s", info.name)

	for _, kind := range info.imms {
		if err := d.immediate(c, depth+1, kind); err != nil {
			return "", err
		}
	}
	return info.name, nil
}

func (d *decoder) immediate(c *Cursor, depth int, kind immKind) error {
	switch kind {
	case immIndex:
		v, sp, err := c.Uleb128()
		if err != nil {
			return err
		}
		d.sink.Emit(sp, depth, "--> %d", v)

	case immI32:
		v, sp, err := c.Sleb128()
		if err != nil {
			return err
		}
		d.sink.Emit(sp, depth, "--> %d", v)

	case immI64:
		v, sp, err := c.Sleb64()
		if err != nil {
			return err
		}
		d.sink.Emit(sp, depth, "--> %d", v)

	case immF32:
		raw, sp, err := c.Bytes(4)
		if err != nil {
			return err
		}
		f := wasm.DecodeFloat32(raw)
		d.sink.Emit(sp, depth, "--> %s", strconv.FormatFloat(float64(f), 'g', -1, 32))

	case immF64:
		raw, sp, err := c.Bytes(8)
		if err != nil {
			return err
		}
		d.sink.Emit(sp, depth, "--> %s", strconv.FormatFloat(wasm.DecodeFloat64(raw), 'g', -1, 64))

	case immMemarg:
		align, asp, err := c.Uleb128()
		if err != nil {
			return err
		}
		d.sink.Emit(asp, depth, "--> align = %d", align)
		offset, osp, err := c.Uleb128()
		if err != nil {
			return err
		}
		d.sink.Emit(osp, depth, "--> offset = %d", offset)

	case immBlockType:
		raw, sp, err := c.varint(wasm.MaxVarint32)
		if err != nil {
			return err
		}
		first := raw[0]
		switch {
		case first == wasm.BlockTypeEmpty:
			d.sink.Emit(sp, depth, "--> (empty)")
		case first&0x40 != 0:
			if name, ok := wasm.ValTypeName(first); ok {
				d.sink.Emit(sp, depth, "--> %s", name)
			} else {
				d.sink.Emit(sp, depth, "--> (valtype:0x%02x)", first)
			}
		default:
			d.sink.Emit(sp, depth, "--> %d", wasm.DecodeLEB128s(raw))
		}

	case immLabelVec:
		count, csp, err := c.Uleb128()
		if err != nil {
			return err
		}
		d.sink.Emit(csp, depth, "--> (labels=%d)", count)
		for i := uint32(0); i < count; i++ {
			label, lsp, err := c.Uleb128()
			if err != nil {
				return err
			}
			d.sink.Emit(lsp, depth, "--> %d", label)
		}
		def, dsp, err := c.Uleb128()
		if err != nil {
			return err
		}
		d.sink.Emit(dsp, depth, "--> default = %d", def)

	case immValTypes:
		count, csp, err := c.Uleb128()
		if err != nil {
			return err
		}
		d.sink.Emit(csp, depth, "--> (types=%d)", count)
		for i := uint32(0); i < count; i++ {
			tag, tsp, err := c.Byte()
			if err != nil {
				return err
			}
			if name, ok := wasm.ValTypeName(tag); ok {
				d.sink.Emit(tsp, depth, "--> %s", name)
			} else {
				d.sink.Emit(tsp, depth, "--> (valtype:0x%02x)", tag)
			}
		}

	case immRefType:
		tag, sp, err := c.Byte()
		if err != nil {
			return err
		}
		d.sink.Emit(sp, depth, "--> %s", wasm.RefTypeName(tag))

	case immLane:
		lane, sp, err := c.Byte()
		if err != nil {
			return err
		}
		d.sink.Emit(sp, depth, "--> lane = 0x%02x", lane)

	case immV128:
		raw, sp, err := c.Bytes(16)
		if err != nil {
			return err
		}
		parts := make([]string, len(raw))
		for i, b := range raw {
			parts[i] = fmt.Sprintf("0x%02x", b)
		}
		d.sink.Emit(sp, depth, "--> %s", strings.Join(parts, " "))

	case immZero:
		b, sp, err := c.Byte()
		if err != nil {
			return err
		}
		d.sink.Emit(sp, depth, "--> (code:0x%02x)", b)
	}
	return nil
}
