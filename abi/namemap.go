package abi

import "strconv"

// namedValue pairs a display name with its decoded Value, in declaration
// order, after the name-collision policy below has been applied.
type namedValue struct {
	Name  string
	Value Value
}

// buildNamedValues assigns a display name to each value: the declared name,
// or the positional index if the name is blank; if that name is already
// taken, it is suffixed with "_1", "_2", ... until a free name is found. This
// mirrors how a tuple's components are exposed in a keyed map despite
// Solidity allowing both blank and duplicate parameter names.
func buildNamedValues(names []string, values []Value) []namedValue {
	used := make(map[string]bool, len(values))
	out := make([]namedValue, len(values))
	for i, v := range values {
		name := names[i]
		if name == "" {
			name = strconv.Itoa(i)
		}
		candidate := name
		suffix := 0
		for used[candidate] {
			suffix++
			candidate = name + "_" + strconv.Itoa(suffix)
		}
		used[candidate] = true
		out[i] = namedValue{Name: candidate, Value: v}
	}
	return out
}

// NamedMap builds a map[string]Value from a tuple's declared field names and
// decoded values, applying the name-collision policy.
func NamedMap(names []string, values []Value) map[string]Value {
	out := make(map[string]Value, len(values))
	for _, nv := range buildNamedValues(names, values) {
		out[nv.Name] = nv.Value
	}
	return out
}
