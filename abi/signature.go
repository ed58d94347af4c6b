package abi

import (
	"fmt"
	"strings"

	"github.com/ModChain/evmcodec/common"
	"github.com/ModChain/evmcodec/evmerr"
)

// SigKind classifies what a Signature describes.
type SigKind int

const (
	SigFunction SigKind = iota
	SigEvent
	SigError
	SigConstructor
)

// Param is one (position, optional name, type, optional indexed-flag)
// tuple from a parsed signature.
type Param struct {
	Position int
	Name     string
	Type     Type
	Indexed  bool
}

// Signature is a parsed function/event/error/constructor declaration: a
// name, an ordered list of input parameters, and (for functions) an
// ordered list of output parameters.
type Signature struct {
	Kind      SigKind
	Name      string
	Inputs    []Param
	Outputs   []Param
	Anonymous bool
}

// InputTypes returns the Type of each input parameter, in order.
func (s *Signature) InputTypes() []Type {
	types := make([]Type, len(s.Inputs))
	for i, p := range s.Inputs {
		types[i] = p.Type
	}
	return types
}

// Canonical returns the signature text a selector/topic0 is computed over:
// name + "(" + comma-joined canonical child types + ")".
func (s *Signature) Canonical() string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	sb.WriteByte('(')
	for i, p := range s.Inputs {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.Type.Canonical())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Selector returns the first 4 bytes of Keccak-256 over the canonical
// function signature.
func (s *Signature) Selector() [4]byte {
	h := common.Keccak256([]byte(s.Canonical()))
	var sel [4]byte
	copy(sel[:], h[:4])
	return sel
}

// Topic0 returns the full Keccak-256 hash of the canonical event signature,
// or the zero hash if the event is anonymous (anonymous events omit
// topic0 entirely; callers must check Anonymous before using this value).
func (s *Signature) Topic0() [32]byte {
	var t [32]byte
	if s.Anonymous {
		return t
	}
	h := common.Keccak256([]byte(s.Canonical()))
	copy(t[:], h)
	return t
}

// ParseSignature parses a function/event/error/constructor declaration such
// as "transfer(address,uint256)" or
// "Transfer(address indexed from, address indexed to, uint256 value)".
// Whitespace is insignificant outside identifiers; `indexed` is only valid
// on parameters of an event signature.
func ParseSignature(kind SigKind, text string) (*Signature, error) {
	text = strings.TrimSpace(text)
	name, rest, err := splitNameAndParens(text)
	if err != nil {
		return nil, err
	}

	sig := &Signature{Kind: kind, Name: name}
	inputs, err := parseParamList(rest, kind)
	if err != nil {
		return nil, err
	}
	for i := range inputs {
		inputs[i].Position = i
	}
	sig.Inputs = inputs
	return sig, nil
}

// splitNameAndParens splits "name(...)" into name and the inner parameter
// list text, validating balanced parentheses.
func splitNameAndParens(text string) (name string, inner string, err error) {
	pos := strings.IndexByte(text, '(')
	if pos == -1 {
		return "", "", fmt.Errorf("%w: could not locate start of parameters in %q", evmerr.ErrInvalidType, text)
	}
	if !strings.HasSuffix(text, ")") {
		return "", "", fmt.Errorf("%w: %q does not end with a closing parenthesis", evmerr.ErrInvalidType, text)
	}
	name = strings.TrimSpace(text[:pos])
	inner = text[pos+1 : len(text)-1]
	depth := 0
	for _, c := range inner {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return "", "", fmt.Errorf("%w: mismatched parentheses in %q", evmerr.ErrInvalidType, text)
			}
		}
	}
	if depth != 0 {
		return "", "", fmt.Errorf("%w: mismatched parentheses in %q", evmerr.ErrInvalidType, text)
	}
	return name, inner, nil
}

// parseParamList splits a comma-separated parameter list, respecting
// parenthesis nesting for tuple types, and parses each entry as
// "type [indexed] [name]".
func parseParamList(s string, kind SigKind) ([]Param, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := splitTopLevel(s)
	params := make([]Param, 0, len(parts))
	for _, part := range parts {
		p, err := parseParam(part, kind)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

// splitTopLevel splits on commas that are not nested inside parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	last := 0
	for i, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

// parseParam parses one "type [indexed] [name]" entry. The type portion can
// itself contain spaces only inside a tuple's own nested parameter list, so
// we extract it by scanning for the base type / tuple / array text first.
func parseParam(s string, kind SigKind) (Param, error) {
	s = strings.TrimSpace(s)
	typeText, rest := splitTypeText(s)
	typeText = strings.Join(strings.Fields(typeText), "")

	t, err := ParseType(typeText)
	if err != nil {
		return Param{}, err
	}

	fields := strings.Fields(rest)
	p := Param{Type: t}
	for _, f := range fields {
		if f == "indexed" {
			if kind != SigEvent {
				return Param{}, fmt.Errorf("%w: 'indexed' is only valid on event parameters", evmerr.ErrInvalidType)
			}
			p.Indexed = true
			continue
		}
		if p.Name != "" {
			return Param{}, fmt.Errorf("%w: unexpected token %q in parameter %q", evmerr.ErrInvalidType, f, s)
		}
		p.Name = f
	}
	return p, nil
}

// splitTypeText separates the leading type expression (base name, optional
// tuple, optional array dimensions) from any trailing "indexed"/name
// tokens.
func splitTypeText(s string) (typeText, rest string) {
	i := 0
	depth := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == '[':
			depth++
		case c == ']':
			depth--
		case c == ' ' && depth == 0:
			return s[:i], s[i+1:]
		}
		i++
	}
	return s, ""
}

// PathError reports a value-validation failure with the path to the
// offending component, e.g. "param-2 (to) -> component-0 (amount)".
type PathError struct {
	Path []string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s", strings.Join(e.Path, " -> "), e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }
