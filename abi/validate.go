package abi

import (
	"fmt"

	"github.com/ModChain/evmcodec/common"
	"github.com/ModChain/evmcodec/evmerr"
)

// ValidateValue checks that v's shape and range match t, returning a
// *PathError naming the descriptor path on failure (e.g.
// "param-2 (to) -> component-0 (amount)").
func ValidateValue(t Type, v Value) error {
	return validateAt(t, v, nil)
}

// ValidateParams checks an ordered list of (param, value) pairs, as used
// for a full function call's argument list.
func ValidateParams(params []Param, values []Value) error {
	if len(params) != len(values) {
		return fmt.Errorf("%w: expected %d arguments, got %d", evmerr.ErrIncompatibleValue, len(params), len(values))
	}
	for i, p := range params {
		label := fmt.Sprintf("param-%d", i)
		if p.Name != "" {
			label = fmt.Sprintf("param-%d (%s)", i, p.Name)
		}
		if err := validateAt(p.Type, values[i], []string{label}); err != nil {
			return err
		}
	}
	return nil
}

func validateAt(t Type, v Value, path []string) error {
	fail := func(format string, args ...any) error {
		return &PathError{Path: path, Err: fmt.Errorf(format, args...)}
	}

	if t.IsArray() {
		if !v.IsArray() {
			return fail("%w: expected array value for type %s", evmerr.ErrIncompatibleValue, t.Canonical())
		}
		dim := t.OutermostDim()
		elems, _ := v.Elems()
		if !dim.Dynamic && len(elems) != dim.Size {
			return fail("%w: expected %d elements for %s, got %d", evmerr.ErrIncompatibleValue, dim.Size, t.Canonical(), len(elems))
		}
		elemType := t.Elem()
		for i, e := range elems {
			if err := validateAt(elemType, e, append(path, fmt.Sprintf("component-%d", i))); err != nil {
				return err
			}
		}
		return nil
	}

	switch t.Kind {
	case KindAddress:
		if _, ok := v.Address(); !ok {
			return fail("%w: expected address value", evmerr.ErrIncompatibleValue)
		}
	case KindBool:
		if _, ok := v.Bool(); !ok {
			return fail("%w: expected bool value", evmerr.ErrIncompatibleValue)
		}
	case KindString:
		if _, ok := v.String(); !ok {
			return fail("%w: expected string value", evmerr.ErrIncompatibleValue)
		}
	case KindBytes:
		b, ok := v.Bytes()
		if !ok || v.kind != KindBytes {
			return fail("%w: expected dynamic bytes value", evmerr.ErrIncompatibleValue)
		}
		_ = b
	case KindFixedBytes:
		b, ok := v.Bytes()
		if !ok || v.kind != KindFixedBytes {
			return fail("%w: expected bytes%d value", evmerr.ErrIncompatibleValue, t.FixedSize)
		}
		if len(b) != t.FixedSize {
			return fail("%w: expected %d bytes for bytes%d, got %d", evmerr.ErrIncompatibleValue, t.FixedSize, t.FixedSize, len(b))
		}
	case KindUint, KindInt:
		n, width, ok := v.Int()
		if !ok || (t.Kind == KindInt) != v.Signed() {
			return fail("%w: expected %s value", evmerr.ErrIncompatibleValue, t.Canonical())
		}
		if width != t.Width {
			return fail("%w: expected bit width %d, got %d", evmerr.ErrIncompatibleValue, t.Width, width)
		}
		if _, err := common.FixedBytes32(n, t.Width, t.Kind == KindInt); err != nil {
			return fail("%w", err)
		}
	case KindTuple:
		elems, ok := v.Elems()
		if !ok || v.kind != KindTuple {
			return fail("%w: expected tuple value", evmerr.ErrIncompatibleValue)
		}
		if len(elems) != len(t.Tuple) {
			return fail("%w: expected %d tuple fields, got %d", evmerr.ErrIncompatibleValue, len(t.Tuple), len(elems))
		}
		for i, f := range t.Tuple {
			label := fmt.Sprintf("component-%d", i)
			if f.Name != "" {
				label = fmt.Sprintf("component-%d (%s)", i, f.Name)
			}
			if err := validateAt(f.Type, elems[i], append(path, label)); err != nil {
				return err
			}
		}
	default:
		return fail("%w: unknown base kind", evmerr.ErrInvalidType)
	}
	return nil
}
