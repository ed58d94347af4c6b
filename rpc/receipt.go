package rpc

import (
	"fmt"

	"github.com/ModChain/evmcodec/common"
	"github.com/ModChain/evmcodec/evmerr"
	"github.com/ModChain/evmcodec/tx"
)

// ParseReceipt converts the generic JSON-RPC result of
// eth_getTransactionReceipt (the map HTTPTransport.EthGetTransactionReceipt
// returns) into a typed tx.Receipt, so a log can be handed to
// abi.DecodeLog without digging through raw map keys by hand.
func ParseReceipt(raw map[string]any) (*tx.Receipt, error) {
	r := &tx.Receipt{}

	if v, ok := raw["type"]; ok && v != nil {
		s, err := asHexString("type", v)
		if err != nil {
			return nil, err
		}
		n, err := decodeHexUint64(s)
		if err != nil {
			return nil, err
		}
		if n == 2 {
			r.Type = tx.DynamicFee
		} else {
			r.Type = tx.Legacy
		}
	}

	if v, ok := raw["status"]; ok && v != nil {
		s, err := asHexString("status", v)
		if err != nil {
			return nil, err
		}
		status, err := decodeHexUint64(s)
		if err != nil {
			return nil, err
		}
		r.Status = &status
	}
	if v, ok := raw["root"]; ok && v != nil {
		s, err := asHexString("root", v)
		if err != nil {
			return nil, err
		}
		b, err := decodeHexBytes(s)
		if err != nil {
			return nil, err
		}
		r.PostState = b
	}

	if v, ok := raw["cumulativeGasUsed"]; ok && v != nil {
		s, err := asHexString("cumulativeGasUsed", v)
		if err != nil {
			return nil, err
		}
		n, err := decodeHexUint64(s)
		if err != nil {
			return nil, err
		}
		r.CumulativeGasUsed = n
	}

	if v, ok := raw["logsBloom"]; ok && v != nil {
		s, err := asHexString("logsBloom", v)
		if err != nil {
			return nil, err
		}
		b, err := decodeHexBytes(s)
		if err != nil {
			return nil, err
		}
		if len(b) != len(r.Bloom) {
			return nil, fmt.Errorf("%w: logsBloom must be %d bytes, got %d", evmerr.ErrMalformedEncoding, len(r.Bloom), len(b))
		}
		copy(r.Bloom[:], b)
	}

	if v, ok := raw["contractAddress"]; ok && v != nil {
		s, err := asHexString("contractAddress", v)
		if err != nil {
			return nil, err
		}
		a, err := common.ParseAddress(s)
		if err != nil {
			return nil, err
		}
		r.ContractAddress = &a
	}

	if v, ok := raw["logs"]; ok && v != nil {
		rawLogs, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: logs must be a JSON array", evmerr.ErrMalformedEncoding)
		}
		logs := make([]tx.Log, len(rawLogs))
		for i, rl := range rawLogs {
			m, ok := rl.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: log %d must be a JSON object", evmerr.ErrMalformedEncoding, i)
			}
			l, err := parseLog(m)
			if err != nil {
				return nil, fmt.Errorf("log %d: %w", i, err)
			}
			logs[i] = l
		}
		r.Logs = logs
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func parseLog(m map[string]any) (tx.Log, error) {
	var l tx.Log

	addrS, err := asHexString("address", m["address"])
	if err != nil {
		return l, err
	}
	addr, err := common.ParseAddress(addrS)
	if err != nil {
		return l, err
	}
	l.Address = addr

	rawTopics, _ := m["topics"].([]any)
	l.Topics = make([][32]byte, len(rawTopics))
	for i, rt := range rawTopics {
		s, err := asHexString("topics", rt)
		if err != nil {
			return l, err
		}
		b, err := decodeHexBytes(s)
		if err != nil {
			return l, err
		}
		if len(b) != 32 {
			return l, fmt.Errorf("%w: topic %d must be 32 bytes, got %d", evmerr.ErrMalformedEncoding, i, len(b))
		}
		copy(l.Topics[i][:], b)
	}

	if v, ok := m["data"]; ok && v != nil {
		s, err := asHexString("data", v)
		if err != nil {
			return l, err
		}
		b, err := decodeHexBytes(s)
		if err != nil {
			return l, err
		}
		l.Data = b
	}
	return l, nil
}

func asHexString(field string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a hex string, got %T", evmerr.ErrMalformedEncoding, field, v)
	}
	return s, nil
}
