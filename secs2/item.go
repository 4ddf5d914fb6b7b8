package secs2

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Decoding and encoding failures. See spec section 7 "Decoding".
var (
	// ErrMalformedItem signals a tag/length-header combination that
	// cannot be decoded, or a numeric payload whose byte length is not
	// a multiple of its element size.
	ErrMalformedItem = errors.New("secs2: malformed item")

	// ErrTruncated signals a buffer that ended before a declared
	// length was satisfied.
	ErrTruncated = errors.New("secs2: truncated item")

	// ErrLengthHeader signals a length-header byte count outside [1,3].
	ErrLengthHeader = errors.New("secs2: length header out of range")
)

// maxItemLen is the largest payload length a 3-byte length header can
// address (2^24 - 1), matching the item codec's length field width.
const maxItemLen = 1<<24 - 1

// Item is a SECS-II data item: a tagged variant whose payload depends
// on Format, per the "Dynamic data-item kinds" re-architecture of
// section 9 — callers switch on Format rather than probing a runtime
// type.
type Item struct {
	format Format

	list  []Item
	raw   []byte    // Binary, ASCII, JIS8 payload bytes
	bools []bool    // Boolean elements
	uints []uint64  // U1/U2/U4/U8 elements, widened
	ints  []int64   // I1/I2/I4/I8 elements, widened
	flts  []float64 // F4/F8 elements, widened
}

// Format returns the item's wire type.
func (it Item) Format() Format { return it.format }

// Size returns the element count: list length for FormatList, byte
// count for FormatBinary/FormatASCII/FormatJIS8, and slice length
// otherwise.
func (it Item) Size() int {
	switch it.format {
	case FormatList:
		return len(it.list)
	case FormatASCII, FormatJIS8, FormatBinary:
		return len(it.raw)
	case FormatBoolean:
		return len(it.bools)
	case FormatU1, FormatU2, FormatU4, FormatU8:
		return len(it.uints)
	case FormatI1, FormatI2, FormatI4, FormatI8:
		return len(it.ints)
	case FormatF4, FormatF8:
		return len(it.flts)
	default:
		return 0
	}
}

// L builds a FormatList item from the given children, in order.
func L(items ...Item) Item { return Item{format: FormatList, list: items} }

// List returns the children of a FormatList item.
func (it Item) List() []Item { return it.list }

// B builds a FormatBinary item from raw bytes.
func B(b ...byte) Item { return Item{format: FormatBinary, raw: append([]byte(nil), b...)} }

// Bytes returns the payload of a FormatBinary, FormatASCII or FormatJIS8 item.
func (it Item) Bytes() []byte { return it.raw }

// Bool builds a FormatBoolean item.
func Bool(v ...bool) Item { return Item{format: FormatBoolean, bools: append([]bool(nil), v...)} }

// Bools returns the elements of a FormatBoolean item.
func (it Item) Bools() []bool { return it.bools }

// A builds a FormatASCII item from a 7-bit ASCII string.
func A(s string) Item { return Item{format: FormatASCII, raw: []byte(s)} }

// J builds a FormatJIS8 item from an 8-bit JIS-encoded string.
func J(s string) Item { return Item{format: FormatJIS8, raw: []byte(s)} }

// String returns the text of a FormatASCII or FormatJIS8 item.
func (it Item) String() string {
	switch it.format {
	case FormatASCII, FormatJIS8:
		return string(it.raw)
	default:
		return fmt.Sprintf("%s%v", it.format, it.rawSlice())
	}
}

func (it Item) rawSlice() any {
	switch it.format {
	case FormatList:
		return it.list
	case FormatBinary:
		return it.raw
	case FormatBoolean:
		return it.bools
	case FormatU1, FormatU2, FormatU4, FormatU8:
		return it.uints
	case FormatI1, FormatI2, FormatI4, FormatI8:
		return it.ints
	case FormatF4, FormatF8:
		return it.flts
	default:
		return nil
	}
}

// U1 builds a FormatU1 item.
func U1(v ...uint8) Item { return uintItem(FormatU1, widenU(v)) }

// U2 builds a FormatU2 item.
func U2(v ...uint16) Item { return uintItem(FormatU2, widenU(v)) }

// U4 builds a FormatU4 item.
func U4(v ...uint32) Item { return uintItem(FormatU4, widenU(v)) }

// U8 builds a FormatU8 item.
func U8(v ...uint64) Item { return uintItem(FormatU8, append([]uint64(nil), v...)) }

func uintItem(f Format, v []uint64) Item { return Item{format: f, uints: v} }

func widenU[T ~uint8 | ~uint16 | ~uint32](v []T) []uint64 {
	out := make([]uint64, len(v))
	for i, x := range v {
		out[i] = uint64(x)
	}
	return out
}

// Uints returns the widened elements of a U1/U2/U4/U8 item.
func (it Item) Uints() []uint64 { return it.uints }

// I1 builds a FormatI1 item.
func I1(v ...int8) Item { return intItem(FormatI1, widenI(v)) }

// I2 builds a FormatI2 item.
func I2(v ...int16) Item { return intItem(FormatI2, widenI(v)) }

// I4 builds a FormatI4 item.
func I4(v ...int32) Item { return intItem(FormatI4, widenI(v)) }

// I8 builds a FormatI8 item.
func I8(v ...int64) Item { return intItem(FormatI8, append([]int64(nil), v...)) }

func intItem(f Format, v []int64) Item { return Item{format: f, ints: v} }

func widenI[T ~int8 | ~int16 | ~int32](v []T) []int64 {
	out := make([]int64, len(v))
	for i, x := range v {
		out[i] = int64(x)
	}
	return out
}

// Ints returns the widened elements of an I1/I2/I4/I8 item.
func (it Item) Ints() []int64 { return it.ints }

// F4 builds a FormatF4 item.
func F4(v ...float32) Item {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return Item{format: FormatF4, flts: out}
}

// F8 builds a FormatF8 item.
func F8(v ...float64) Item { return Item{format: FormatF8, flts: append([]float64(nil), v...)} }

// Floats returns the widened elements of an F4/F8 item.
func (it Item) Floats() []float64 { return it.flts }

// Encode appends the wire representation of it to buf, choosing the
// smallest length-header size that fits the payload, per section 4.4
// "Encoding: choose the smallest length-header size that fits."
func Encode(buf []byte, it Item) ([]byte, error) {
	payloadLen, err := payloadByteLen(it)
	if err != nil {
		return nil, err
	}

	lenBytes := lengthHeaderSize(payloadLen)
	tag := byte(it.format)<<2 | byte(lenBytes)
	buf = append(buf, tag)
	buf = appendLength(buf, payloadLen, lenBytes)

	switch it.format {
	case FormatList:
		for _, child := range it.list {
			buf, err = Encode(buf, child)
			if err != nil {
				return nil, err
			}
		}
	case FormatBinary, FormatASCII, FormatJIS8:
		buf = append(buf, it.raw...)
	case FormatBoolean:
		for _, b := range it.bools {
			if b {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
		}
	case FormatU1:
		for _, v := range it.uints {
			buf = append(buf, byte(v))
		}
	case FormatU2:
		for _, v := range it.uints {
			buf = binary.BigEndian.AppendUint16(buf, uint16(v))
		}
	case FormatU4:
		for _, v := range it.uints {
			buf = binary.BigEndian.AppendUint32(buf, uint32(v))
		}
	case FormatU8:
		for _, v := range it.uints {
			buf = binary.BigEndian.AppendUint64(buf, v)
		}
	case FormatI1:
		for _, v := range it.ints {
			buf = append(buf, byte(v))
		}
	case FormatI2:
		for _, v := range it.ints {
			buf = binary.BigEndian.AppendUint16(buf, uint16(v))
		}
	case FormatI4:
		for _, v := range it.ints {
			buf = binary.BigEndian.AppendUint32(buf, uint32(v))
		}
	case FormatI8:
		for _, v := range it.ints {
			buf = binary.BigEndian.AppendUint64(buf, uint64(v))
		}
	case FormatF4:
		for _, v := range it.flts {
			buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(float32(v)))
		}
	case FormatF8:
		for _, v := range it.flts {
			buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(v))
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %s", ErrMalformedItem, it.format)
	}

	return buf, nil
}

func payloadByteLen(it Item) (int, error) {
	if !it.format.valid() {
		return 0, fmt.Errorf("%w: unsupported format %s", ErrMalformedItem, it.format)
	}
	if it.format == FormatList {
		return len(it.list), nil
	}
	if it.format == FormatBinary || it.format == FormatASCII || it.format == FormatJIS8 {
		return len(it.raw), nil
	}
	n := it.Size() * it.format.elemSize()
	if n > maxItemLen {
		return 0, fmt.Errorf("%w: payload exceeds %d bytes", ErrMalformedItem, maxItemLen)
	}
	return n, nil
}

func lengthHeaderSize(n int) int {
	switch {
	case n <= 0xff:
		return 1
	case n <= 0xffff:
		return 2
	default:
		return 3
	}
}

func appendLength(buf []byte, n, size int) []byte {
	switch size {
	case 1:
		return append(buf, byte(n))
	case 2:
		return append(buf, byte(n>>8), byte(n))
	default:
		return append(buf, byte(n>>16), byte(n>>8), byte(n))
	}
}

// Decode reads one item (recursively, for lists) from buf and returns
// it together with the number of bytes consumed.
func Decode(buf []byte) (Item, int, error) {
	if len(buf) < 2 {
		return Item{}, 0, ErrTruncated
	}

	tag := buf[0]
	format := Format(tag >> 2)
	lenBytes := int(tag & 0x03)
	if lenBytes == 0 {
		return Item{}, 0, fmt.Errorf("%w: zero length-header byte count", ErrLengthHeader)
	}
	if !format.valid() {
		return Item{}, 0, fmt.Errorf("%w: unknown format tag %#o", ErrMalformedItem, tag)
	}
	if 1+lenBytes > len(buf) {
		return Item{}, 0, ErrTruncated
	}

	payloadLen := 0
	for i := 0; i < lenBytes; i++ {
		payloadLen = payloadLen<<8 | int(buf[1+i])
	}
	i := 1 + lenBytes

	if format == FormatList {
		list := make([]Item, 0, payloadLen)
		for n := 0; n < payloadLen; n++ {
			if i >= len(buf) {
				return Item{}, 0, ErrTruncated
			}
			child, used, err := Decode(buf[i:])
			if err != nil {
				return Item{}, 0, err
			}
			list = append(list, child)
			i += used
		}
		return Item{format: FormatList, list: list}, i, nil
	}

	if i+payloadLen > len(buf) {
		return Item{}, 0, ErrTruncated
	}
	payload := buf[i : i+payloadLen]
	i += payloadLen

	switch format {
	case FormatBinary:
		return Item{format: format, raw: append([]byte(nil), payload...)}, i, nil
	case FormatASCII, FormatJIS8:
		return Item{format: format, raw: append([]byte(nil), payload...)}, i, nil
	case FormatBoolean:
		bools := make([]bool, len(payload))
		for n, b := range payload {
			bools[n] = b != 0
		}
		return Item{format: format, bools: bools}, i, nil
	}

	elemSize := format.elemSize()
	if elemSize == 0 || payloadLen%elemSize != 0 {
		return Item{}, 0, fmt.Errorf("%w: %s payload length %d not a multiple of %d",
			ErrMalformedItem, format, payloadLen, elemSize)
	}
	count := payloadLen / elemSize

	switch format {
	case FormatU1:
		vals := make([]uint64, count)
		for n := 0; n < count; n++ {
			vals[n] = uint64(payload[n])
		}
		return Item{format: format, uints: vals}, i, nil
	case FormatU2:
		vals := make([]uint64, count)
		for n := 0; n < count; n++ {
			vals[n] = uint64(binary.BigEndian.Uint16(payload[n*2:]))
		}
		return Item{format: format, uints: vals}, i, nil
	case FormatU4:
		vals := make([]uint64, count)
		for n := 0; n < count; n++ {
			vals[n] = uint64(binary.BigEndian.Uint32(payload[n*4:]))
		}
		return Item{format: format, uints: vals}, i, nil
	case FormatU8:
		vals := make([]uint64, count)
		for n := 0; n < count; n++ {
			vals[n] = binary.BigEndian.Uint64(payload[n*8:])
		}
		return Item{format: format, uints: vals}, i, nil
	case FormatI1:
		vals := make([]int64, count)
		for n := 0; n < count; n++ {
			vals[n] = int64(int8(payload[n]))
		}
		return Item{format: format, ints: vals}, i, nil
	case FormatI2:
		vals := make([]int64, count)
		for n := 0; n < count; n++ {
			vals[n] = int64(int16(binary.BigEndian.Uint16(payload[n*2:])))
		}
		return Item{format: format, ints: vals}, i, nil
	case FormatI4:
		vals := make([]int64, count)
		for n := 0; n < count; n++ {
			vals[n] = int64(int32(binary.BigEndian.Uint32(payload[n*4:])))
		}
		return Item{format: format, ints: vals}, i, nil
	case FormatI8:
		vals := make([]int64, count)
		for n := 0; n < count; n++ {
			vals[n] = int64(binary.BigEndian.Uint64(payload[n*8:]))
		}
		return Item{format: format, ints: vals}, i, nil
	case FormatF4:
		vals := make([]float64, count)
		for n := 0; n < count; n++ {
			vals[n] = float64(math.Float32frombits(binary.BigEndian.Uint32(payload[n*4:])))
		}
		return Item{format: format, flts: vals}, i, nil
	case FormatF8:
		vals := make([]float64, count)
		for n := 0; n < count; n++ {
			vals[n] = math.Float64frombits(binary.BigEndian.Uint64(payload[n*8:]))
		}
		return Item{format: format, flts: vals}, i, nil
	default:
		return Item{}, 0, fmt.Errorf("%w: unsupported format %s", ErrMalformedItem, format)
	}
}

// Equal reports whether it and other encode to the same bytes.
func (it Item) Equal(other Item) bool {
	a, err1 := Encode(nil, it)
	b, err2 := Encode(nil, other)
	if err1 != nil || err2 != nil {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
