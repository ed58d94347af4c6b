// Package rlp implements the Recursive Length Prefix encoding Ethereum uses
// for transactions, block headers, receipts, and signing payloads.
//
// RLP encodes exactly two kinds of atom: byte strings and lists of items.
// Decode enforces canonical form throughout: a single byte below 0x80 must
// never be length-prefixed, and lengths must always be the minimal
// big-endian encoding of their value. Non-canonical input is rejected
// rather than silently accepted, matching the "bit-exact agreement with an
// external consensus system" requirement this module exists for.
package rlp

// Item is an RLP value: either a String (a byte string, possibly empty) or
// a List (an ordered sequence of items, possibly empty). It is the
// intermediate decode tree a caller walks before extracting typed values.
type Item interface {
	isItem()
}

// String is an RLP byte-string item.
type String []byte

func (String) isItem() {}

// List is an RLP list item.
type List []Item

func (List) isItem() {}

// AsString type-asserts item as a String, reporting false if item is a List.
func AsString(item Item) (String, bool) {
	s, ok := item.(String)
	return s, ok
}

// AsList type-asserts item as a List, reporting false if item is a String.
func AsList(item Item) (List, bool) {
	l, ok := item.(List)
	return l, ok
}
