package secs2

import "fmt"

// ErrUnknownFunction signals an (stream, function) pair with no
// registered Descriptor.
var ErrUnknownFunction = fmt.Errorf("secs2: unknown stream/function")

// ErrDirectionMismatch signals a header W-bit/direction combination
// the registry does not expect for the looked-up Descriptor, per
// section 4.5 "if found and the header W-bit corresponds to the
// direction the receiver expects, deliver ... otherwise send RejectReq".
var ErrDirectionMismatch = fmt.Errorf("secs2: function received with unexpected W-bit")

type key struct {
	stream, function uint8
}

// Registry is the static (stream, function) -> Descriptor catalog of
// section 4.5.
type Registry struct {
	descriptors map[key]*Descriptor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[key]*Descriptor)}
}

// Register adds d to the catalog. Registering the same (stream,
// function) twice is a programmer error and panics.
func (r *Registry) Register(d *Descriptor) {
	k := key{d.Stream, d.Function}
	if _, exists := r.descriptors[k]; exists {
		panic(fmt.Sprintf("secs2: %s already registered", d.Name()))
	}
	r.descriptors[k] = d
}

// Lookup returns the Descriptor for (stream, function), if registered.
func (r *Registry) Lookup(stream, function uint8) (*Descriptor, bool) {
	d, ok := r.descriptors[key{stream, function}]
	return d, ok
}

// Decode selects the Descriptor for (stream, function), checks wBit
// against the expected reply semantics, and applies the template to
// parse body into a FunctionValue.
func (r *Registry) Decode(stream, function uint8, wBit bool, body []byte) (*FunctionValue, error) {
	d, ok := r.Lookup(stream, function)
	if !ok {
		return nil, fmt.Errorf("%w: S%dF%d", ErrUnknownFunction, stream, function)
	}
	if wBit != d.WBit {
		return nil, fmt.Errorf("%w: %s", ErrDirectionMismatch, d.Name())
	}

	var body_ Item
	var err error
	if len(body) == 0 {
		body_ = L()
	} else {
		body_, _, err = Decode(body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Name(), err)
		}
	}
	return NewFunctionValue(d, body_)
}

// Encode serialises fv's body.
func (r *Registry) Encode(fv *FunctionValue) ([]byte, error) {
	return fv.Encode()
}

// Default is the catalog populated by this package's catalog_s*.go
// files with the SEMI E5/E37 subset of section 6.
var Default = NewRegistry()

func register(stream, function uint8, wBit bool, dir Direction, hasReply, multiBlock bool, tmpl Template) {
	Default.Register(&Descriptor{
		Stream: stream, Function: function, WBit: wBit,
		Direction: dir, HasReply: hasReply, MultiBlock: multiBlock,
		Template: tmpl,
	})
}
