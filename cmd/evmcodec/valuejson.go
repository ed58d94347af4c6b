package main

import (
	"encoding/hex"

	"github.com/ModChain/evmcodec/abi"
)

// valueToJSON renders an abi.Value back into a plain Go value encoding/json
// can marshal: addresses and byte strings as 0x-prefixed hex, integers as
// base-10 strings (precision would be lost as a JSON number), arrays and
// tuples as []any.
func valueToJSON(v abi.Value) any {
	if v.IsArray() {
		elems, _ := v.Elems()
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = valueToJSON(e)
		}
		return out
	}
	if a, ok := v.Address(); ok {
		return a.String()
	}
	if b, ok := v.Bool(); ok {
		return b
	}
	if s, ok := v.String(); ok {
		return s
	}
	if n, _, ok := v.Int(); ok {
		return n.String()
	}
	if b, ok := v.Bytes(); ok {
		return "0x" + hex.EncodeToString(b)
	}
	if elems, ok := v.Elems(); ok {
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = valueToJSON(e)
		}
		return out
	}
	return nil
}
