package wasm

import "fmt"

var sectionNames = [...]string{
	SectionCustom:    "Custom",
	SectionType:      "Type",
	SectionImport:    "Import",
	SectionFunction:  "Function",
	SectionTable:     "Table",
	SectionMemory:    "Memory",
	SectionGlobal:    "Global",
	SectionExport:    "Export",
	SectionStart:     "Start",
	SectionElement:   "Element",
	SectionCode:      "Code",
	SectionData:      "Data",
	SectionDataCount: "Data Count",
}

// SectionName returns the display name for a section ID, or "Unknown"
// for ids outside the defined range.
func SectionName(id byte) string {
	if int(id) < len(sectionNames) {
		return sectionNames[id]
	}
	return "Unknown"
}

// KnownSection reports whether id names a section defined by the format.
func KnownSection(id byte) bool {
	return int(id) < len(sectionNames)
}

var valTypeNames = map[byte]string{
	ValI32:     "i32",
	ValI64:     "i64",
	ValF32:     "f32",
	ValF64:     "f64",
	ValV128:    "v128",
	ValFuncRef: "funcref",
	ValExtern:  "externref",
}

// ValTypeName returns the display name for a value type tag.
func ValTypeName(tag byte) (string, bool) {
	name, ok := valTypeNames[tag]
	return name, ok
}

// RefTypeName returns the display name for a reference type tag, falling
// back to a hex marker for unrecognized tags.
func RefTypeName(tag byte) string {
	switch tag {
	case ValFuncRef:
		return "funcref"
	case ValExtern:
		return "externref"
	}
	return fmt.Sprintf("(reftype:0x%02x)", tag)
}

var kindNames = [...]string{
	KindFunc:   "func",
	KindTable:  "table",
	KindMemory: "mem",
	KindGlobal: "global",
}

// ImportKindName returns the display name for an import/export
// descriptor kind.
func ImportKindName(kind byte) (string, bool) {
	if int(kind) < len(kindNames) {
		return kindNames[kind], true
	}
	return "", false
}

// MutabilityName returns "const" or "var" for a global mutability byte.
func MutabilityName(mut byte) (string, bool) {
	switch mut {
	case 0:
		return "const", true
	case 1:
		return "var", true
	}
	return "", false
}
