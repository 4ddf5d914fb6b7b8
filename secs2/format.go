// Package secs2 implements the SECS-II item encoding (SEMI E5) and the
// stream/function message catalog (the SEMI E5/E37 subset this system
// exercises) built on top of it.
package secs2

import "fmt"

// Format identifies the wire type of a SECS-II item. It occupies the
// upper six bits of an item's tag byte; see section 3 "SECS item".
type Format byte

// Data item format codes, conform the tag-byte encoding of section 3.
const (
	FormatList    Format = 0o00
	FormatBinary  Format = 0o10
	FormatBoolean Format = 0o11
	FormatASCII   Format = 0o20
	FormatJIS8    Format = 0o21
	FormatU8      Format = 0o50
	FormatU1      Format = 0o51
	FormatU2      Format = 0o52
	FormatU4      Format = 0o54
	FormatI8      Format = 0o60
	FormatI1      Format = 0o61
	FormatI2      Format = 0o62
	FormatI4      Format = 0o64
	FormatF8      Format = 0o40
	FormatF4      Format = 0o44
)

// String returns the mnemonic used in the SECS-II catalog (L, B, BOOLEAN, …).
func (f Format) String() string {
	switch f {
	case FormatList:
		return "L"
	case FormatBinary:
		return "B"
	case FormatBoolean:
		return "BOOLEAN"
	case FormatASCII:
		return "A"
	case FormatJIS8:
		return "J"
	case FormatU8:
		return "U8"
	case FormatU1:
		return "U1"
	case FormatU2:
		return "U2"
	case FormatU4:
		return "U4"
	case FormatI8:
		return "I8"
	case FormatI1:
		return "I1"
	case FormatI2:
		return "I2"
	case FormatI4:
		return "I4"
	case FormatF8:
		return "F8"
	case FormatF4:
		return "F4"
	default:
		return fmt.Sprintf("format(%#o)", byte(f))
	}
}

// elemSize returns the fixed per-element byte width for numeric and
// boolean formats, or 0 for List, ASCII and JIS8 whose payload length
// is not a multiple of a fixed element width.
func (f Format) elemSize() int {
	switch f {
	case FormatBinary, FormatBoolean, FormatU1, FormatI1:
		return 1
	case FormatU2, FormatI2:
		return 2
	case FormatU4, FormatI4, FormatF4:
		return 4
	case FormatU8, FormatI8, FormatF8:
		return 8
	default:
		return 0
	}
}

// valid reports whether f is one of the fifteen defined format codes.
func (f Format) valid() bool {
	switch f {
	case FormatList, FormatBinary, FormatBoolean, FormatASCII, FormatJIS8,
		FormatU8, FormatU1, FormatU2, FormatU4,
		FormatI8, FormatI1, FormatI2, FormatI4,
		FormatF8, FormatF4:
		return true
	default:
		return false
	}
}
