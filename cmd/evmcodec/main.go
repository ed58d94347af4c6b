// Command evmcodec exposes the ABI and nonce-store tooling from the command
// line: encoding calldata, decoding event logs, and inspecting a nonce
// store's on-disk marker files.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{Use: "evmcodec"}
	root.AddCommand(abiCmd)
	root.AddCommand(nonceCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
