package abi

import "fmt"

// fieldTypes extracts the Type of each tuple field, in order.
func fieldTypes(fields []TupleField) []Type {
	types := make([]Type, len(fields))
	for i, f := range fields {
		types[i] = f.Type
	}
	return types
}

// repeatType returns a slice of n copies of t, used to treat a fixed or
// dynamic array's elements as an anonymous tuple's fields for the purposes
// of the shared head/tail layout walk.
func repeatType(t Type, n int) []Type {
	types := make([]Type, n)
	for i := range types {
		types[i] = t
	}
	return types
}

// headSize returns the number of bytes a static type occupies directly in
// a head region. It panics if called on a dynamic type; callers must check
// IsDynamic first.
func headSize(t Type) int {
	if t.IsDynamic() {
		panic(fmt.Sprintf("abi: headSize called on dynamic type %s", t.Canonical()))
	}
	if t.IsArray() {
		dim := t.OutermostDim()
		return dim.Size * headSize(t.Elem())
	}
	if t.Kind == KindTuple {
		total := 0
		for _, f := range t.Tuple {
			total += headSize(f.Type)
		}
		return total
	}
	return 32
}
