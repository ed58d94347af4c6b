package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var nonceCmd = &cobra.Command{
	Use:   "nonce",
	Short: "inspect a nonce store's on-disk state",
}

var nonceInspectCmd = &cobra.Command{
	Use:   "inspect <dir>",
	Short: "list every account's reserved, failed, and spent nonces under dir",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		accounts, err := os.ReadDir(root)
		if err != nil {
			return err
		}
		for _, acc := range accounts {
			if !acc.IsDir() {
				continue
			}
			if err := inspectAccount(cmd, filepath.Join(root, acc.Name()), acc.Name()); err != nil {
				return err
			}
		}
		return nil
	},
}

func inspectAccount(cmd *cobra.Command, dir, account string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	reserved := map[uint64]bool{}
	failed := map[uint64]bool{}
	spent := map[uint64]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".nonce"):
			n, err := strconv.ParseUint(strings.TrimSuffix(name, ".nonce"), 10, 64)
			if err == nil {
				reserved[n] = true
			}
		case strings.HasSuffix(name, ".failed"):
			n, err := strconv.ParseUint(strings.TrimSuffix(name, ".failed"), 10, 64)
			if err == nil {
				failed[n] = true
			}
		case strings.HasSuffix(name, ".spent"):
			n, err := strconv.ParseUint(strings.TrimSuffix(name, ".spent"), 10, 64)
			if err == nil {
				spent[n] = true
			}
		}
	}
	nonces := make([]uint64, 0, len(reserved))
	for n := range reserved {
		nonces = append(nonces, n)
	}
	sort.Slice(nonces, func(i, j int) bool { return nonces[i] < nonces[j] })

	fmt.Fprintf(cmd.OutOrStdout(), "0x%s\n", account)
	for _, n := range nonces {
		status := "reserved"
		switch {
		case spent[n]:
			status = "spent"
		case failed[n]:
			status = "failed, awaiting grace window"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %d\t%s\n", n, status)
	}
	return nil
}

func init() {
	nonceCmd.AddCommand(nonceInspectCmd)
}
