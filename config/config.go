// Package config loads this module's on-disk configuration file: nonce
// store tuning, chain-registry overrides, and default RPC endpoints.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ModChain/evmcodec/chainreg"
)

// ChainOverride lets a deployment point a registered chain ID at a
// different RPC endpoint or poll interval without recompiling the binary.
type ChainOverride struct {
	ID           uint64        `yaml:"id"`
	Name         string        `yaml:"name,omitempty"`
	RPCURL       string        `yaml:"rpc_url"`
	PollInterval time.Duration `yaml:"poll_interval,omitempty"`
}

// File is the root of the YAML configuration document.
type File struct {
	NonceDir      string          `yaml:"nonce_dir"`
	NonceGrace    time.Duration   `yaml:"nonce_grace"`
	ChainOverrides []ChainOverride `yaml:"chain_overrides"`
}

// Default returns the zero-config defaults: a local nonce directory and the
// package-level 30s grace window.
func Default() *File {
	return &File{
		NonceDir:   "./nonces",
		NonceGrace: 30 * time.Second,
	}
}

// Load reads and parses the YAML file at path, filling in defaults for any
// field the file leaves unset.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := Default()
	if err := yaml.Unmarshal(raw, f); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return f, nil
}

// ResolveChain returns the registered entry for id, with any matching
// ChainOverride's name and poll interval applied on top.
func (f *File) ResolveChain(id uint64) (chainreg.Entry, bool) {
	entry, ok := chainreg.Lookup(id)
	for _, o := range f.ChainOverrides {
		if o.ID != id {
			continue
		}
		ok = true
		entry.ID = id
		if o.Name != "" {
			entry.Name = o.Name
		}
		if o.PollInterval != 0 {
			entry.PollInterval = o.PollInterval
		}
	}
	return entry, ok
}

// RPCURL returns the configured RPC endpoint override for id, or "" if none
// is set.
func (f *File) RPCURL(id uint64) string {
	for _, o := range f.ChainOverrides {
		if o.ID == id {
			return o.RPCURL
		}
	}
	return ""
}
