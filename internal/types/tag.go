// Shallow type tags for the analyzer.
// A Tag is attached to every declared name and to every expression the
// parser recognizes. Tags are immutable values; composite tags share their
// element tags freely.

package types

import (
	"fmt"
	"strings"
)

// Kind represents the kind of a type tag
type Kind int

const (
	KindUnknown Kind = iota
	KindInt
	KindFloat64
	KindString
	KindBool
	KindSlice
	KindArray
	KindMap
	KindNamed
	KindStruct
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindSlice:
		return "slice"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindNamed:
		return "named"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// Tag is the shallow type of a name or expression
type Tag struct {
	Kind Kind
	Elem *Tag   // element type of slices and arrays, value type of maps
	Key  *Tag   // key type of maps
	Len  int    // declared length of arrays
	Name string // type name of named types
}

// Predeclared tags
var (
	Unknown = Tag{Kind: KindUnknown}
	Int     = Tag{Kind: KindInt}
	Float64 = Tag{Kind: KindFloat64}
	String  = Tag{Kind: KindString}
	Bool    = Tag{Kind: KindBool}
	Struct  = Tag{Kind: KindStruct}
)

// SliceOf creates a slice tag
func SliceOf(elem Tag) Tag {
	return Tag{Kind: KindSlice, Elem: &elem}
}

// ArrayOf creates an array tag of the given length. A negative length
// stands for an array whose length is not known.
func ArrayOf(n int, elem Tag) Tag {
	return Tag{Kind: KindArray, Elem: &elem, Len: n}
}

// MapOf creates a map tag
func MapOf(key, value Tag) Tag {
	return Tag{Kind: KindMap, Key: &key, Elem: &value}
}

// Named creates a tag referring to a declared type
func Named(name string) Tag {
	return Tag{Kind: KindNamed, Name: name}
}

// FromName maps a primitive type name to its tag
func FromName(name string) (Tag, bool) {
	switch name {
	case "int":
		return Int, true
	case "float64":
		return Float64, true
	case "string":
		return String, true
	case "bool":
		return Bool, true
	}
	return Unknown, false
}

// String renders the tag with Go type syntax
func (t Tag) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t Tag) write(b *strings.Builder) {
	switch t.Kind {
	case KindSlice:
		b.WriteString("[]")
		t.elem().write(b)
	case KindArray:
		if t.Len < 0 {
			b.WriteString("[...]")
		} else {
			fmt.Fprintf(b, "[%d]", t.Len)
		}
		t.elem().write(b)
	case KindMap:
		b.WriteString("map[")
		t.key().write(b)
		b.WriteString("]")
		t.elem().write(b)
	case KindNamed:
		b.WriteString(t.Name)
	default:
		b.WriteString(t.Kind.String())
	}
}

func (t Tag) elem() Tag {
	if t.Elem == nil {
		return Unknown
	}
	return *t.Elem
}

func (t Tag) key() Tag {
	if t.Key == nil {
		return Unknown
	}
	return *t.Key
}

// IsKnown reports whether the tag carries any type information
func (t Tag) IsKnown() bool {
	return t.Kind != KindUnknown
}

// IsNumeric reports whether the tag is int or float64
func (t Tag) IsNumeric() bool {
	return t.Kind == KindInt || t.Kind == KindFloat64
}

// Equal reports structural equality
func (t Tag) Equal(other Tag) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindSlice:
		return t.elem().Equal(other.elem())
	case KindArray:
		return t.Len == other.Len && t.elem().Equal(other.elem())
	case KindMap:
		return t.key().Equal(other.key()) && t.elem().Equal(other.elem())
	case KindNamed:
		return t.Name == other.Name
	}
	return true
}

// AssignableTo reports whether a value tagged t may initialize or be
// assigned to a location tagged target. Unknown on either side is always
// assignable; an int value may initialize a float64.
func (t Tag) AssignableTo(target Tag) bool {
	if !t.IsKnown() || !target.IsKnown() {
		return true
	}
	if t.Kind == KindInt && target.Kind == KindFloat64 {
		return true
	}
	return t.containsUnknown() || target.containsUnknown() || t.Equal(target)
}

func (t Tag) containsUnknown() bool {
	switch t.Kind {
	case KindUnknown:
		return true
	case KindArray:
		return t.Len < 0 || t.elem().containsUnknown()
	case KindSlice:
		return t.elem().containsUnknown()
	case KindMap:
		return t.key().containsUnknown() || t.elem().containsUnknown()
	}
	return false
}

// ElemType returns the tag produced by indexing a value tagged t
func (t Tag) ElemType() Tag {
	switch t.Kind {
	case KindSlice, KindArray, KindMap:
		return t.elem()
	case KindString:
		return Int
	}
	return Unknown
}

// KeyType returns the key tag of a map, or int for indexable sequences
func (t Tag) KeyType() Tag {
	switch t.Kind {
	case KindMap:
		return t.key()
	case KindSlice, KindArray, KindString:
		return Int
	}
	return Unknown
}

// Binary returns the tag of an arithmetic expression combining a and b.
// Mixed int and float64 operands widen to float64.
func Binary(a, b Tag) Tag {
	if !a.IsKnown() || !b.IsKnown() {
		return Unknown
	}
	if a.IsNumeric() && b.IsNumeric() {
		if a.Kind == KindFloat64 || b.Kind == KindFloat64 {
			return Float64
		}
		return Int
	}
	if a.Equal(b) {
		return a
	}
	return Unknown
}
