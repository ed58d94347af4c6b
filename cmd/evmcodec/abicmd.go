package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ModChain/evmcodec/abi"
)

var abiCmd = &cobra.Command{
	Use:   "abi",
	Short: "encode calldata and decode event logs",
}

var abiEncodeCmd = &cobra.Command{
	Use:   "encode <signature> <json-args>",
	Short: "encode a function call's selector and arguments",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sig, err := abi.ParseSignature(abi.SigFunction, args[0])
		if err != nil {
			return err
		}
		var rawArgs []any
		if err := json.Unmarshal([]byte(args[1]), &rawArgs); err != nil {
			return fmt.Errorf("parsing json args: %w", err)
		}
		types := sig.InputTypes()
		if len(rawArgs) != len(types) {
			return fmt.Errorf("%s expects %d arguments, got %d", sig.Canonical(), len(types), len(rawArgs))
		}
		values := make([]abi.Value, len(types))
		for i, t := range types {
			v, err := jsonToValue(t, rawArgs[i])
			if err != nil {
				return fmt.Errorf("argument %d: %w", i, err)
			}
			values[i] = v
		}
		calldata, err := abi.EncodeCall(sig, values)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "0x"+hex.EncodeToString(calldata))
		return nil
	},
}

var abiDecodeLogCmd = &cobra.Command{
	Use:   "decode-log <event-signature> <topics-json> <data-hex>",
	Short: "decode an event log's topics and data into named fields",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		sig, err := abi.ParseSignature(abi.SigEvent, args[0])
		if err != nil {
			return err
		}
		var topicStrs []string
		if err := json.Unmarshal([]byte(args[1]), &topicStrs); err != nil {
			return fmt.Errorf("parsing json topics: %w", err)
		}
		topics := make([][32]byte, len(topicStrs))
		for i, s := range topicStrs {
			b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
			if err != nil || len(b) != 32 {
				return fmt.Errorf("topic %d must be a 32-byte hex string", i)
			}
			copy(topics[i][:], b)
		}
		data, err := hex.DecodeString(strings.TrimPrefix(args[2], "0x"))
		if err != nil {
			return fmt.Errorf("parsing data: %w", err)
		}
		fields, err := abi.DecodeLog(sig, topics, data)
		if err != nil {
			return err
		}
		out := make(map[string]any, len(fields))
		for name, v := range fields {
			out[name] = valueToJSON(v)
		}
		enc, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(enc))
		return nil
	},
}

func init() {
	abiCmd.AddCommand(abiEncodeCmd)
	abiCmd.AddCommand(abiDecodeLogCmd)
}
