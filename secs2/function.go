package secs2

import "fmt"

// Direction states which side of the HSMS connection originates a
// stream/function message.
type Direction int

const (
	// ToHost messages originate at the equipment.
	ToHost Direction = iota
	// ToEquipment messages originate at the host.
	ToEquipment
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d == ToHost {
		return "to-host"
	}
	return "to-equipment"
}

// Descriptor is the immutable record of a single SxFy message, per
// section 3 "Function descriptor".
type Descriptor struct {
	Stream    uint8
	Function  uint8
	WBit      bool // reply required by the sender, per HSMS header byte2
	Direction Direction
	HasReply  bool
	MultiBlock bool
	Template  Template
	compiled  *Compiled
}

// compile lazily builds and caches the descriptor's path table.
func (d *Descriptor) compile() *Compiled {
	if d.compiled == nil {
		d.compiled = Compile(d.Template)
	}
	return d.compiled
}

// Name returns the "SxFy" mnemonic.
func (d Descriptor) Name() string { return fmt.Sprintf("S%dF%d", d.Stream, d.Function) }

// FunctionValue is a decoded (or about-to-be-encoded) message body
// bound to its Descriptor, offering typed, compiled-path accessors in
// place of the original's runtime attribute hooks — the "Named
// accessors into list bodies" re-architecture of the DESIGN NOTES.
type FunctionValue struct {
	Descriptor *Descriptor
	Body       Item
}

// NewFunctionValue validates body against d.Template and returns a
// bound FunctionValue.
func NewFunctionValue(d *Descriptor, body Item) (*FunctionValue, error) {
	if err := Validate(d.Template, body); err != nil {
		return nil, fmt.Errorf("%s: %w", d.Name(), err)
	}
	return &FunctionValue{Descriptor: d, Body: body}, nil
}

// Get returns the item at a named template position.
func (fv *FunctionValue) Get(name string) (Item, bool) {
	return fv.Descriptor.compile().Get(fv.Body, name)
}

// MustGet is like Get but panics when name is not compiled into the
// descriptor's template — a programmer error, not a wire error.
func (fv *FunctionValue) MustGet(name string) Item {
	it, ok := fv.Get(name)
	if !ok {
		panic(fmt.Sprintf("secs2: %s has no template position named %q", fv.Descriptor.Name(), name))
	}
	return it
}

// GetUint returns the first widened element of a named U-item.
func (fv *FunctionValue) GetUint(name string) (uint64, bool) {
	it, ok := fv.Get(name)
	if !ok || len(it.uints) == 0 {
		return 0, false
	}
	return it.uints[0], true
}

// GetInt returns the first widened element of a named I-item.
func (fv *FunctionValue) GetInt(name string) (int64, bool) {
	it, ok := fv.Get(name)
	if !ok || len(it.ints) == 0 {
		return 0, false
	}
	return it.ints[0], true
}

// GetString returns the text of a named A/J-item.
func (fv *FunctionValue) GetString(name string) (string, bool) {
	it, ok := fv.Get(name)
	if !ok {
		return "", false
	}
	return it.String(), true
}

// GetList returns the elements of a named list (or repeating group).
func (fv *FunctionValue) GetList(name string) ([]Item, bool) {
	it, ok := fv.Get(name)
	if !ok || it.Format() != FormatList {
		return nil, false
	}
	return it.list, true
}

// Encode serialises the function body.
func (fv *FunctionValue) Encode() ([]byte, error) {
	return Encode(nil, fv.Body)
}
