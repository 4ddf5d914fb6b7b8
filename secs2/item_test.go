package secs2

import (
	"bytes"
	"testing"
)

// TestRoundTrip checks property 2 of spec section 8: for every item v,
// decode(encode(v)) == v.
func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		item Item
	}{
		{"empty list", L()},
		{"nested list", L(U1(1, 2), A("hi"), L(Bool(true, false)))},
		{"binary", B(0xDE, 0xAD, 0xBE, 0xEF)},
		{"boolean", Bool(true, false, true)},
		{"ascii", A("HELLO")},
		{"jis8", J("\x82\xa0")},
		{"u1", U1(0, 255)},
		{"u2", U2(0, 65535)},
		{"u4", U4(0, 4294967295)},
		{"u8", U8(0, 18446744073709551615)},
		{"i1", I1(-128, 127)},
		{"i2", I2(-32768, 32767)},
		{"i4", I4(-2147483648, 2147483647)},
		{"i8", I8(-9223372036854775808, 9223372036854775807)},
		{"f4", F4(-1.5, 0, 3.25)},
		{"f8", F8(-1.5, 0, 3.25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := Encode(nil, tt.item)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, n, err := Decode(buf)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if n != len(buf) {
				t.Errorf("Decode consumed %d bytes, want %d", n, len(buf))
			}
			if !got.Equal(tt.item) {
				t.Errorf("round trip mismatch: got %v, want %v", got, tt.item)
			}
		})
	}
}

// TestLengthHeaderMinimality checks property 3: encode chooses the
// smallest length-header size that fits.
func TestLengthHeaderMinimality(t *testing.T) {
	tests := []struct {
		item    Item
		lenSize byte
	}{
		{A(""), 1},
		{A(string(make([]byte, 0xff))), 1},
		{A(string(make([]byte, 0x100))), 2},
		{A(string(make([]byte, 0xffff))), 2},
		{A(string(make([]byte, 0x10000))), 3},
	}

	for _, tt := range tests {
		buf, err := Encode(nil, tt.item)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if got := buf[0] & 0x03; got != tt.lenSize {
			t.Errorf("item of %d bytes: length header size = %d, want %d", len(tt.item.raw), got, tt.lenSize)
		}
	}
}

// TestMalformedNumericPayload checks that a numeric item whose payload
// length is not a multiple of its element size fails to decode.
func TestMalformedNumericPayload(t *testing.T) {
	// tag for U2 (format 0o52) with 1-byte length header, length = 3
	// (not a multiple of 2).
	tag := byte(FormatU2)<<2 | 1
	buf := []byte{tag, 3, 0, 0, 0}
	_, _, err := Decode(buf)
	if err == nil {
		t.Fatal("expected error decoding malformed U2 payload")
	}
}

// TestListPayloadIsItemCount checks that a list's length field counts
// child items, not bytes.
func TestListPayloadIsItemCount(t *testing.T) {
	item := L(U1(1), U1(2), U1(3))
	buf, err := Encode(nil, item)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// tag, 1-byte length header = 3 (item count).
	if buf[1] != 3 {
		t.Errorf("list length field = %d, want 3 (item count)", buf[1])
	}
}

func TestDynamicLeafValidate(t *testing.T) {
	tmpl := DynamicLeaf(FormatU1, FormatU2, FormatASCII)

	if err := Validate(tmpl, U1(5)); err != nil {
		t.Errorf("U1 should be permitted: %v", err)
	}
	if err := Validate(tmpl, A("x")); err != nil {
		t.Errorf("ASCII should be permitted: %v", err)
	}
	if err := Validate(tmpl, F4(1.0)); err == nil {
		t.Error("F4 should be refused")
	}
}

func TestCountedLeaf(t *testing.T) {
	tmpl := Leaf(FormatU1).Counted(3)
	if err := Validate(tmpl, U1(1, 2, 3)); err != nil {
		t.Errorf("3 elements should satisfy count: %v", err)
	}
	if err := Validate(tmpl, U1(1, 2)); err == nil {
		t.Error("2 elements should violate count constraint")
	}
}

func TestCompilePathTable(t *testing.T) {
	tmpl := List(
		Leaf(FormatASCII).Named("RCMD"),
		Repeating("PARAMS", List(
			Leaf(FormatASCII).Named("CPNAME"),
			value().Named("CPVAL"),
		)),
	)
	c := Compile(tmpl)

	body := L(A("START"), L(
		L(A("LOTID"), A("abc123")),
	))

	rcmd, ok := c.Get(body, "RCMD")
	if !ok || rcmd.String() != "START" {
		t.Errorf("RCMD = %v, ok=%v, want START", rcmd, ok)
	}

	params, ok := c.Get(body, "PARAMS")
	if !ok || params.Format() != FormatList || len(params.List()) != 1 {
		t.Errorf("PARAMS = %v, ok=%v", params, ok)
	}
}

func TestRegistryDecodeEncode(t *testing.T) {
	fv, err := Default.Decode(1, 1, true, nil)
	if err != nil {
		t.Fatalf("decode S1F1: %v", err)
	}
	if fv.Descriptor.Name() != "S1F1" {
		t.Errorf("name = %s, want S1F1", fv.Descriptor.Name())
	}

	buf, err := fv.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(buf, []byte{0x01, 0x00}) {
		t.Errorf("empty S1F1 body = %#x, want empty list tag 0x0100", buf)
	}
}

func TestRegistryUnknownFunction(t *testing.T) {
	_, err := Default.Decode(99, 99, true, nil)
	if err == nil {
		t.Fatal("expected error for unknown function")
	}
}

func TestRegistryWBitMismatch(t *testing.T) {
	_, err := Default.Decode(1, 1, false, nil)
	if err == nil {
		t.Fatal("expected error for W-bit mismatch")
	}
}
