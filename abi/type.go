// Package abi implements the Solidity ABI encoding used for contract
// calldata and event logs: a type-string parser, a tagged-value encoder and
// decoder with head/tail dynamic layout, and event topic/data splitting.
//
// Runtime values are represented by the Value tagged union (see value.go)
// rather than via reflection, so the validator and encoder are structural
// matches against a parsed Type tree instead of type-switches over `any`.
package abi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ModChain/evmcodec/evmerr"
)

// Kind is the base kind of an ABI type descriptor.
type Kind int

const (
	KindAddress Kind = iota
	KindBool
	KindString
	KindBytes  // dynamic bytes
	KindUint   // uintN
	KindInt    // intN
	KindFixedBytes
	KindTuple
)

// Dim is one array dimension. Dynamic arrays (T[]) have Dynamic set; fixed
// arrays (T[N]) have Size set to N > 0.
type Dim struct {
	Dynamic bool
	Size    int
}

// Type is an ABI type descriptor tree node.
//
// Canonical form is the invariant: Width is always a valid bit width for
// Uint/Int (8..256, multiple of 8), FixedSize is always in [1,32] for
// FixedBytes, and Canonical() always reproduces the same string for two
// descriptors that should be considered equal.
type Type struct {
	Kind      Kind
	Width     int // uintN/intN bit width
	FixedSize int // bytesN size
	Dims      []Dim
	Tuple     []TupleField // for KindTuple, the ordered child fields
}

// TupleField is one named child of a tuple type.
type TupleField struct {
	Name string
	Type Type
}

// Elem returns the descriptor for one element of the outermost array
// dimension (panics if Dims is empty; callers must check IsArray first).
func (t Type) Elem() Type {
	inner := t
	inner.Dims = t.Dims[:len(t.Dims)-1]
	return inner
}

// IsArray reports whether t has at least one array dimension.
func (t Type) IsArray() bool {
	return len(t.Dims) > 0
}

// OutermostDim returns the last (outermost, last-applied) array
// dimension, i.e. the one Elem peels off first. ABI
// type strings apply dimensions left to right as written (`uint256[2][]` is
// a dynamic array of fixed-2 arrays of uint256), so the outermost dimension
// is the last one in Dims.
func (t Type) OutermostDim() Dim {
	return t.Dims[len(t.Dims)-1]
}

// IsDynamic reports whether values of this type have variable encoded
// length: strings, dynamic bytes, dynamic arrays, or any tuple/fixed array
// transitively containing a dynamic component.
func (t Type) IsDynamic() bool {
	if t.IsArray() {
		if t.OutermostDim().Dynamic {
			return true
		}
		return t.Elem().IsDynamic()
	}
	switch t.Kind {
	case KindString, KindBytes:
		return true
	case KindTuple:
		for _, f := range t.Tuple {
			if f.Type.IsDynamic() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Canonical returns the canonical type string: the form a selector or
// topic0 is computed over. It never includes parameter names, the
// `indexed` modifier, or whitespace.
func (t Type) Canonical() string {
	var sb strings.Builder
	t.writeCanonical(&sb)
	return sb.String()
}

func (t Type) writeCanonical(sb *strings.Builder) {
	if t.IsArray() {
		base := t
		base.Dims = nil
		base.writeCanonical(sb)
		for _, d := range t.Dims {
			if d.Dynamic {
				sb.WriteString("[]")
			} else {
				fmt.Fprintf(sb, "[%d]", d.Size)
			}
		}
		return
	}
	switch t.Kind {
	case KindAddress:
		sb.WriteString("address")
	case KindBool:
		sb.WriteString("bool")
	case KindString:
		sb.WriteString("string")
	case KindBytes:
		sb.WriteString("bytes")
	case KindUint:
		fmt.Fprintf(sb, "uint%d", t.Width)
	case KindInt:
		fmt.Fprintf(sb, "int%d", t.Width)
	case KindFixedBytes:
		fmt.Fprintf(sb, "bytes%d", t.FixedSize)
	case KindTuple:
		sb.WriteByte('(')
		for i, f := range t.Tuple {
			if i > 0 {
				sb.WriteByte(',')
			}
			f.Type.writeCanonical(sb)
		}
		sb.WriteByte(')')
	}
}

// Equal reports whether two descriptors are canonically equal.
func (t Type) Equal(o Type) bool {
	return t.Canonical() == o.Canonical()
}

// ParseType parses a single ABI type string such as "uint256", "bytes3[2]",
// "(uint256,bool)[]", applying the usual canonicalization rules (uint ->
// uint256, int -> int256, byte -> bytes1).
func ParseType(s string) (Type, error) {
	p := &typeParser{s: s}
	t, err := p.parseType()
	if err != nil {
		return Type{}, err
	}
	if p.pos != len(p.s) {
		return Type{}, fmt.Errorf("%w: unexpected trailing characters in type %q", evmerr.ErrInvalidType, s)
	}
	return t, nil
}

type typeParser struct {
	s   string
	pos int
}

func (p *typeParser) parseType() (Type, error) {
	var base Type
	var err error
	if p.pos < len(p.s) && p.s[p.pos] == '(' {
		base, err = p.parseTuple()
	} else {
		base, err = p.parseBase()
	}
	if err != nil {
		return Type{}, err
	}
	for p.pos < len(p.s) && p.s[p.pos] == '[' {
		end := strings.IndexByte(p.s[p.pos:], ']')
		if end == -1 {
			return Type{}, fmt.Errorf("%w: unmatched '[' in type %q", evmerr.ErrInvalidType, p.s)
		}
		inside := p.s[p.pos+1 : p.pos+end]
		p.pos += end + 1
		if inside == "" {
			base.Dims = append(base.Dims, Dim{Dynamic: true})
			continue
		}
		n, err := strconv.Atoi(inside)
		if err != nil || n <= 0 {
			return Type{}, fmt.Errorf("%w: array dimension %q must be a positive integer", evmerr.ErrInvalidType, inside)
		}
		base.Dims = append(base.Dims, Dim{Size: n})
	}
	return base, nil
}

func (p *typeParser) parseTuple() (Type, error) {
	if p.s[p.pos] != '(' {
		return Type{}, fmt.Errorf("%w: expected '(' at position %d in %q", evmerr.ErrInvalidType, p.pos, p.s)
	}
	p.pos++
	t := Type{Kind: KindTuple}
	if p.pos < len(p.s) && p.s[p.pos] == ')' {
		p.pos++
		return t, nil
	}
	for {
		child, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		t.Tuple = append(t.Tuple, TupleField{Type: child})
		if p.pos >= len(p.s) {
			return Type{}, fmt.Errorf("%w: unterminated tuple in %q", evmerr.ErrInvalidType, p.s)
		}
		switch p.s[p.pos] {
		case ',':
			p.pos++
			continue
		case ')':
			p.pos++
			return t, nil
		default:
			return Type{}, fmt.Errorf("%w: expected ',' or ')' at position %d in %q", evmerr.ErrInvalidType, p.pos, p.s)
		}
	}
}

func (p *typeParser) parseBase() (Type, error) {
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == '[' || c == ',' || c == ')' {
			break
		}
		p.pos++
	}
	name := p.s[start:p.pos]
	return parseBaseName(name)
}

func parseBaseName(name string) (Type, error) {
	switch {
	case name == "address":
		return Type{Kind: KindAddress}, nil
	case name == "bool":
		return Type{Kind: KindBool}, nil
	case name == "string":
		return Type{Kind: KindString}, nil
	case name == "bytes":
		return Type{Kind: KindBytes}, nil
	case name == "byte":
		return Type{Kind: KindFixedBytes, FixedSize: 1}, nil
	case name == "uint":
		return Type{Kind: KindUint, Width: 256}, nil
	case name == "int":
		return Type{Kind: KindInt, Width: 256}, nil
	case name == "fixed" || name == "ufixed":
		return Type{}, fmt.Errorf("%w: fixed-point types are not supported by this codec", evmerr.ErrInvalidType)
	case strings.HasPrefix(name, "uint"):
		w, err := strconv.Atoi(name[4:])
		if err != nil || w < 8 || w > 256 || w%8 != 0 {
			return Type{}, fmt.Errorf("%w: invalid uint width in %q", evmerr.ErrInvalidType, name)
		}
		return Type{Kind: KindUint, Width: w}, nil
	case strings.HasPrefix(name, "int"):
		w, err := strconv.Atoi(name[3:])
		if err != nil || w < 8 || w > 256 || w%8 != 0 {
			return Type{}, fmt.Errorf("%w: invalid int width in %q", evmerr.ErrInvalidType, name)
		}
		return Type{Kind: KindInt, Width: w}, nil
	case strings.HasPrefix(name, "bytes"):
		n, err := strconv.Atoi(name[5:])
		if err != nil || n < 1 || n > 32 {
			return Type{}, fmt.Errorf("%w: invalid fixed bytes size in %q", evmerr.ErrInvalidType, name)
		}
		return Type{Kind: KindFixedBytes, FixedSize: n}, nil
	default:
		return Type{}, fmt.Errorf("%w: unknown base type %q", evmerr.ErrInvalidType, name)
	}
}
