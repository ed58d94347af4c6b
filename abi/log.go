package abi

import (
	"fmt"

	"github.com/ModChain/evmcodec/evmerr"
)

// DecodeLog reverses the topic/data split for an event log: verifies topic0
// against sig (unless sig.Anonymous), routes each indexed parameter to the
// next topic and each non-indexed parameter to the data region, and returns
// a name-collision-safe map of every parameter's decoded value in
// declaration order.
//
// Indexed parameters of non-value types (string, bytes, tuples, arrays)
// carry only their Keccak-256 hash in the topic; for those, the returned
// Value is the raw 32-byte hash, not the original value, since the hash is
// not reversible.
func DecodeLog(sig *Signature, topics [][32]byte, data []byte) (map[string]Value, error) {
	ordered, err := decodeLogOrdered(sig, topics, data)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(sig.Inputs))
	values := make([]Value, len(sig.Inputs))
	for i, p := range sig.Inputs {
		names[i] = p.Name
		values[i] = ordered[i]
	}
	return NamedMap(names, values), nil
}

// decodeLogOrdered returns the decoded parameter values in declaration
// order, before name-collision resolution; DecodeLog keys them by name
// afterwards.
func decodeLogOrdered(sig *Signature, topics [][32]byte, data []byte) ([]Value, error) {
	topicIdx := 0
	if !sig.Anonymous {
		if len(topics) == 0 {
			return nil, fmt.Errorf("%w: non-anonymous event has no topics", evmerr.ErrSignatureMismatch)
		}
		want := sig.Topic0()
		if topics[0] != want {
			return nil, fmt.Errorf("%w: topic0 does not match event signature", evmerr.ErrSignatureMismatch)
		}
		topicIdx = 1
	}

	var dataTypes []Type
	var dataPositions []int
	values := make([]Value, len(sig.Inputs))

	for i, p := range sig.Inputs {
		if !p.Indexed {
			dataTypes = append(dataTypes, p.Type)
			dataPositions = append(dataPositions, i)
			continue
		}
		if topicIdx >= len(topics) {
			return nil, fmt.Errorf("%w: not enough topics for indexed parameters", evmerr.ErrMalformedEncoding)
		}
		topic := topics[topicIdx]
		topicIdx++
		if isValueType(p.Type) {
			v, err := decodeLeafSlot(p.Type, topic[:])
			if err != nil {
				return nil, err
			}
			values[i] = v
		} else {
			values[i] = FixedBytesValue(32, topic[:])
		}
	}

	if len(dataTypes) > 0 {
		decoded, err := DecodeParams(dataTypes, data)
		if err != nil {
			return nil, err
		}
		for j, pos := range dataPositions {
			values[pos] = decoded[j]
		}
	}

	return values, nil
}

// isValueType reports whether t's indexed-event topic carries the value
// itself (true) rather than its Keccak-256 hash (false). Only static,
// non-composite leaf types are value types: string, bytes, tuples, and
// arrays are always hashed when indexed.
func isValueType(t Type) bool {
	if t.IsArray() {
		return false
	}
	switch t.Kind {
	case KindString, KindBytes, KindTuple:
		return false
	default:
		return true
	}
}
