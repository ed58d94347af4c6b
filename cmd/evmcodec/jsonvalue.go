package main

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/KarpelesLab/typutil"

	"github.com/ModChain/evmcodec/abi"
	"github.com/ModChain/evmcodec/common"
	"github.com/ModChain/evmcodec/evmerr"
)

// jsonToValue builds an abi.Value out of a JSON-decoded argument, using
// typutil.As to coerce a decoded `any` into the concrete Go type a field
// needs.
func jsonToValue(t abi.Type, raw any) (abi.Value, error) {
	if t.IsArray() {
		elems, err := typutil.As[[]any](raw)
		if err != nil {
			return abi.Value{}, fmt.Errorf("expected a JSON array for %s: %w", t.Canonical(), err)
		}
		dim := t.OutermostDim()
		if !dim.Dynamic && len(elems) != dim.Size {
			return abi.Value{}, fmt.Errorf("%w: %s expects %d elements, got %d", evmerr.ErrIncompatibleValue, t.Canonical(), dim.Size, len(elems))
		}
		vals := make([]abi.Value, len(elems))
		for i, e := range elems {
			v, err := jsonToValue(t.Elem(), e)
			if err != nil {
				return abi.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			vals[i] = v
		}
		return abi.ArrayValue(dim.Dynamic, dim.Size, vals...), nil
	}

	switch t.Kind {
	case abi.KindTuple:
		elems, err := typutil.As[[]any](raw)
		if err != nil {
			return abi.Value{}, fmt.Errorf("expected a JSON array for tuple %s: %w", t.Canonical(), err)
		}
		if len(elems) != len(t.Tuple) {
			return abi.Value{}, fmt.Errorf("%w: tuple %s expects %d fields, got %d", evmerr.ErrIncompatibleValue, t.Canonical(), len(t.Tuple), len(elems))
		}
		vals := make([]abi.Value, len(elems))
		for i, f := range t.Tuple {
			v, err := jsonToValue(f.Type, elems[i])
			if err != nil {
				return abi.Value{}, fmt.Errorf("field %d (%s): %w", i, f.Name, err)
			}
			vals[i] = v
		}
		return abi.TupleValue(vals...), nil

	case abi.KindAddress:
		s, err := typutil.As[string](raw)
		if err != nil {
			return abi.Value{}, err
		}
		a, err := common.ParseAddress(s)
		if err != nil {
			return abi.Value{}, err
		}
		return abi.AddressValue(a), nil

	case abi.KindBool:
		b, err := typutil.As[bool](raw)
		if err != nil {
			return abi.Value{}, err
		}
		return abi.BoolValue(b), nil

	case abi.KindString:
		s, err := typutil.As[string](raw)
		if err != nil {
			return abi.Value{}, err
		}
		return abi.StringValue(s), nil

	case abi.KindBytes, abi.KindFixedBytes:
		s, err := typutil.As[string](raw)
		if err != nil {
			return abi.Value{}, err
		}
		b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return abi.Value{}, fmt.Errorf("%w: %s", evmerr.ErrMalformedEncoding, err)
		}
		if t.Kind == abi.KindFixedBytes {
			return abi.FixedBytesValue(t.FixedSize, b), nil
		}
		return abi.BytesValue(b), nil

	case abi.KindUint, abi.KindInt:
		n, err := jsonToBigInt(raw)
		if err != nil {
			return abi.Value{}, err
		}
		if t.Kind == abi.KindInt {
			return abi.Int(t.Width, n), nil
		}
		return abi.Uint(t.Width, n), nil

	default:
		return abi.Value{}, fmt.Errorf("%w: unhandled abi kind for JSON conversion", evmerr.ErrInvalidType)
	}
}

// jsonToBigInt accepts either a JSON string (required for values beyond
// float64's 53 bits of integer precision, such as a uint256) or a plain JSON
// number (convenient for small literals typed directly on a command line).
func jsonToBigInt(raw any) (*big.Int, error) {
	if s, err := typutil.As[string](raw); err == nil {
		n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a base-10 integer", evmerr.ErrIncompatibleValue, s)
		}
		return n, nil
	}
	f, err := typutil.As[float64](raw)
	if err != nil {
		return nil, fmt.Errorf("%w: expected a base-10 integer string or number", evmerr.ErrIncompatibleValue)
	}
	n, acc := big.NewFloat(f).Int(nil)
	if acc != big.Exact {
		return nil, fmt.Errorf("%w: %v is not an exact integer", evmerr.ErrIncompatibleValue, f)
	}
	return n, nil
}
