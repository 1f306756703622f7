// Package config holds runtime configuration for an mvfs instance: the
// StreamBuffer growth chunk size, the log level, the default codec to open
// streams with, and the options the mount bridge passes to go-fuse.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mvfslib/mvfs/internal/util"
)

// MB is bytes per megabyte, used for the handful of defaults expressed in
// those terms (DefaultMaxWrite).
const MB = 1024 * 1024

// Default configuration constants. See Config for field descriptions.
const (
	// DefaultBufferChunkSize is the StreamBuffer growth unit (spec §4.6),
	// matching the fixed 256-element buffer_chunk_size the source hardcodes
	// in virt_filebuf.h. Kept configurable here rather than as a Go
	// constant so callers can size it for their own workloads without
	// forking the buffer code.
	DefaultBufferChunkSize = 256

	// DefaultCodec is the name of the codec the mount bridge opens its
	// StreamBuffers with — the identity/no-conv codec.
	DefaultCodec = "identity"

	// DefaultMaxFH mirrors the teacher's libfuse-compatible file handle
	// ceiling: 31 bits to avoid signed overflow in the kernel's FUSE ABI.
	DefaultMaxFH = (1 << 31) - 1

	// DefaultMaxWrite is the maximum write size per FUSE request the mount
	// bridge advertises to the kernel.
	DefaultMaxWrite = 1 * MB

	// DefaultAttrTimeout is the attribute cache timeout, in seconds, the
	// mount bridge advertises to the kernel.
	DefaultAttrTimeout = 1.0

	// DefaultEntryTimeout is the directory entry cache timeout, in
	// seconds, the mount bridge advertises to the kernel.
	DefaultEntryTimeout = 1.0

	// DefaultDirectIO determines whether the mount bridge asks the kernel
	// to bypass its page cache — sensible here since the backing store is
	// already RAM.
	DefaultDirectIO = true

	// DefaultFsName and DefaultName are the mount's default FUSE identity
	// strings.
	DefaultFsName = "mvfs"
	DefaultName   = "mvfs"
)

// Config contains runtime configuration values for an mvfs instance.
type Config struct {
	BufferChunkSize int           // StreamBuffer growth chunk in bytes (Default 256)
	LogLvl          util.LogLevel // global log verbosity (Default InfoLevel)
	DefaultCodec    string        // codec.Lookup name the mount bridge opens streams with (Default "identity")
	MountOptions    MountOptions  // see mount.go
	MaxFH           int           // max FUSE file handle value (Default 2147483647)
	MaxWrite        int           // max write size per FUSE request in bytes (Default 1MB)
	AttrTimeout     float64       // attribute cache timeout in seconds (Default 1.0)
	EntryTimeout    float64       // directory entry cache timeout in seconds (Default 1.0)
	DirectIO        bool          // bypass kernel page cache on mount (Default true)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero
// values when loading partial configuration. See Config for field
// descriptions.
type ConfigOverride struct {
	BufferChunkSize *int     `yaml:"buffer_chunk_size,omitempty" json:"buffer_chunk_size,omitempty"`
	LogLvl          *int     `yaml:"log_lvl,omitempty" json:"log_lvl,omitempty"`
	DefaultCodec    *string  `yaml:"default_codec,omitempty" json:"default_codec,omitempty"`
	FsName          *string  `yaml:"fs_name,omitempty" json:"fs_name,omitempty"`
	Name            *string  `yaml:"name,omitempty" json:"name,omitempty"`
	Debug           *bool    `yaml:"debug,omitempty" json:"debug,omitempty"`
	MaxFH           *int     `yaml:"max_fh,omitempty" json:"max_fh,omitempty"`
	MaxWrite        *int     `yaml:"max_write,omitempty" json:"max_write,omitempty"`
	AttrTimeout     *float64 `yaml:"attr_timeout,omitempty" json:"attr_timeout,omitempty"`
	EntryTimeout    *float64 `yaml:"entry_timeout,omitempty" json:"entry_timeout,omitempty"`
	DirectIO        *bool    `yaml:"direct_io,omitempty" json:"direct_io,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		BufferChunkSize: DefaultBufferChunkSize,
		LogLvl:          util.InfoLevel,
		DefaultCodec:    DefaultCodec,
		MountOptions: MountOptions{
			FsName: DefaultFsName,
			Name:   DefaultName,
		},
		MaxFH:        DefaultMaxFH,
		MaxWrite:     DefaultMaxWrite,
		AttrTimeout:  DefaultAttrTimeout,
		EntryTimeout: DefaultEntryTimeout,
		DirectIO:     DefaultDirectIO,
	}
}

// Merge applies non-nil values from override onto this Config, allowing
// partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.BufferChunkSize != nil {
		c.BufferChunkSize = *override.BufferChunkSize
	}
	if override.LogLvl != nil {
		c.LogLvl = *override.LogLvl
	}
	if override.DefaultCodec != nil {
		c.DefaultCodec = *override.DefaultCodec
	}
	if override.FsName != nil {
		c.MountOptions.FsName = *override.FsName
	}
	if override.Name != nil {
		c.MountOptions.Name = *override.Name
	}
	if override.Debug != nil {
		c.MountOptions.Debug = *override.Debug
	}
	if override.MaxFH != nil {
		c.MaxFH = *override.MaxFH
	}
	if override.MaxWrite != nil {
		c.MaxWrite = *override.MaxWrite
	}
	if override.AttrTimeout != nil {
		c.AttrTimeout = *override.AttrTimeout
	}
	if override.EntryTimeout != nil {
		c.EntryTimeout = *override.EntryTimeout
	}
	if override.DirectIO != nil {
		c.DirectIO = *override.DirectIO
	}
}

// LoadConfigOverrideFile loads configuration overrides from a file without
// merging. Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with
// defaults — a convenience combining NewDefaultConfig, LoadConfigOverrideFile
// and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg.Merge(override)
	return cfg, nil
}
