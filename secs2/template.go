package secs2

import (
	"fmt"
)

// ErrTypeRefused signals an item whose Format is not among the set
// permitted by a template leaf, per section 4.4 "Variable-kind
// dispatch" and the DESIGN NOTES re-architecture of dynamic kinds into
// a tagged variant with the template holding a set of permitted tags.
var ErrTypeRefused = fmt.Errorf("secs2: item format not permitted by template")

// ErrCountMismatch signals an element count outside a template's
// __count__ constraint.
var ErrCountMismatch = fmt.Errorf("secs2: item element count mismatch")

// ErrShapeMismatch signals a structural mismatch: a list where a leaf
// was expected, or vice versa, or a list with the wrong child count.
var ErrShapeMismatch = fmt.Errorf("secs2: item shape does not match template")

// Kind classifies a Template node.
type Kind int

const (
	// KindLeaf matches a single non-list item of one of a permitted
	// set of Formats.
	KindLeaf Kind = iota
	// KindList matches an ordered, fixed-arity SECS list.
	KindList
	// KindRepeating matches a named repeating group: a list whose
	// every child must match Elem, with no fixed arity.
	KindRepeating
)

// Template describes the structural shape of a stream/function body,
// per section 3's "Template grammar": a leaf item-kind descriptor, an
// ordered list literal, or a named repeating group. Named labels
// compile to a stable path table (see Compile) rather than relying on
// runtime attribute access.
type Template struct {
	Kind Kind

	// Name labels this position for Compile's path table. Optional.
	Name string

	// KindLeaf fields.
	Formats []Format // permitted wire formats; len > 1 means a dynamic leaf
	MaxLen  int       // maximum element/byte count, 0 = unbounded
	Count   int       // exact element count required (__count__), 0 = unconstrained

	// KindList fields.
	Children []Template

	// KindRepeating fields.
	Elem *Template // per-repetition template, usually a KindList
}

// Leaf returns a fixed-kind leaf template.
func Leaf(f Format) Template { return Template{Kind: KindLeaf, Formats: []Format{f}} }

// DynamicLeaf returns a leaf template accepting any of the given formats.
func DynamicLeaf(fs ...Format) Template { return Template{Kind: KindLeaf, Formats: fs} }

// Bounded returns a copy of t with MaxLen set. Valid for KindLeaf only.
func (t Template) Bounded(maxLen int) Template {
	t.MaxLen = maxLen
	return t
}

// Counted returns a copy of t with an exact element Count. Valid for
// KindLeaf only.
func (t Template) Counted(count int) Template {
	t.Count = count
	return t
}

// Named returns a copy of t labelled name for Compile's path table.
func (t Template) Named(name string) Template {
	t.Name = name
	return t
}

// List returns an ordered, fixed-arity list template.
func List(children ...Template) Template {
	return Template{Kind: KindList, Children: children}
}

// Repeating returns a named repeating group template, e.g. the
// "[[\"PARAMS\", LOC, QUA, MID]]" grammar of section 3: a list whose
// every element must itself match elem (typically a List of fields).
func Repeating(label string, elem Template) Template {
	return Template{Kind: KindRepeating, Name: label, Elem: &elem}
}

// Path is a sequence of child indices locating a named Template node
// (and its matching Item) from the root of a decoded body.
type Path []int

// Compiled is a Template together with its name -> Path table,
// computed once and reused across every decode against the template —
// the "stable path table" of the DESIGN NOTES' named-accessor
// re-architecture.
type Compiled struct {
	Root  Template
	Paths map[string]Path
}

// Compile walks t and builds the name -> Path table. Repeating groups
// contribute their own label to the table; the per-repetition Elem is
// not separately indexed since its instance count is dynamic.
func Compile(t Template) *Compiled {
	c := &Compiled{Root: t, Paths: make(map[string]Path)}
	c.walk(t, nil)
	return c
}

func (c *Compiled) walk(t Template, path Path) {
	if t.Name != "" {
		p := make(Path, len(path))
		copy(p, path)
		c.Paths[t.Name] = p
	}
	if t.Kind == KindList {
		for i, child := range t.Children {
			c.walk(child, append(path, i))
		}
	}
}

// At navigates path through a decoded List item and returns the
// located Item.
func At(root Item, path Path) (Item, bool) {
	cur := root
	for _, idx := range path {
		if cur.Format() != FormatList || idx >= len(cur.list) {
			return Item{}, false
		}
		cur = cur.list[idx]
	}
	return cur, true
}

// Get locates the item named by a Compile'd path table under root.
func (c *Compiled) Get(root Item, name string) (Item, bool) {
	path, ok := c.Paths[name]
	if !ok {
		return Item{}, false
	}
	return At(root, path)
}

// Validate reports whether it conforms to the shape and constraints of
// the template, recursively.
func Validate(t Template, it Item) error {
	switch t.Kind {
	case KindLeaf:
		return validateLeaf(t, it)

	case KindList:
		if it.Format() != FormatList {
			return fmt.Errorf("%w: want list, got %s", ErrShapeMismatch, it.Format())
		}
		if len(it.list) != len(t.Children) {
			return fmt.Errorf("%w: want %d elements, got %d", ErrShapeMismatch, len(t.Children), len(it.list))
		}
		for i, child := range t.Children {
			if err := Validate(child, it.list[i]); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		return nil

	case KindRepeating:
		if it.Format() != FormatList {
			return fmt.Errorf("%w: want repeating list, got %s", ErrShapeMismatch, it.Format())
		}
		for i, elem := range it.list {
			if err := Validate(*t.Elem, elem); err != nil {
				return fmt.Errorf("repetition %d: %w", i, err)
			}
		}
		return nil

	default:
		return fmt.Errorf("secs2: unknown template kind %d", t.Kind)
	}
}

func validateLeaf(t Template, it Item) error {
	if len(t.Formats) > 0 {
		ok := false
		for _, f := range t.Formats {
			if it.Format() == f {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%w: %s not in %v", ErrTypeRefused, it.Format(), t.Formats)
		}
	}
	if t.Count > 0 && it.Size() != t.Count {
		return fmt.Errorf("%w: want %d elements, got %d", ErrCountMismatch, t.Count, it.Size())
	}
	if t.MaxLen > 0 && it.Size() > t.MaxLen {
		return fmt.Errorf("%w: %d elements exceeds max %d", ErrShapeMismatch, it.Size(), t.MaxLen)
	}
	return nil
}
