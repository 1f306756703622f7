package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mvfslib/mvfs/internal/util"
)

func TestNewDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := NewDefaultConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, createDefaultCfg(), cfg)
}

func TestConfig_Merge_AllOverride(t *testing.T) {
	t.Parallel()

	override := createOverride()
	cfg := NewDefaultConfig()
	cfg.Merge(override)

	expCfg := &Config{
		BufferChunkSize: *override.BufferChunkSize,
		LogLvl:          *override.LogLvl,
		DefaultCodec:    *override.DefaultCodec,
		MountOptions: MountOptions{
			Debug:  *override.Debug,
			FsName: *override.FsName,
			Name:   *override.Name,
		},
		MaxFH:        *override.MaxFH,
		MaxWrite:     *override.MaxWrite,
		AttrTimeout:  *override.AttrTimeout,
		EntryTimeout: *override.EntryTimeout,
		DirectIO:     *override.DirectIO,
	}
	assert.Equal(t, expCfg, cfg, "must override all provided fields")
}

func TestConfig_Merge_NilOverrideVals(t *testing.T) {
	t.Parallel()

	cfg := NewDefaultConfig()
	cfg.Merge(&ConfigOverride{})

	assert.Equal(t, createDefaultCfg(), cfg, "must leave defaults for nil override fields")
}

func TestConfig_Merge_PartialOverride(t *testing.T) {
	t.Parallel()

	cfg := NewDefaultConfig()
	cfg.Merge(&ConfigOverride{
		FsName:          util.Pointer("test_fs"),
		BufferChunkSize: util.Pointer(DefaultBufferChunkSize + 1),
	})

	expCfg := createDefaultCfg()
	expCfg.MountOptions.FsName = "test_fs"
	expCfg.BufferChunkSize = DefaultBufferChunkSize + 1

	assert.Equal(t, expCfg, cfg, "must override provided fields and leave the rest default")
}

func TestLoadConfigOverrideFile_Valid(t *testing.T) {
	t.Parallel()

	type tc struct {
		ext   string
		build func() (*ConfigOverride, []byte)
	}

	cases := []tc{
		{
			ext: ".yaml",
			build: func() (*ConfigOverride, []byte) {
				o := createOverride()
				b, err := yaml.Marshal(o)
				require.NoError(t, err)
				return o, b
			},
		},
		{
			ext: ".yml",
			build: func() (*ConfigOverride, []byte) {
				o := createOverride()
				b, err := yaml.Marshal(o)
				require.NoError(t, err)
				return o, b
			},
		},
		{
			ext: ".json",
			build: func() (*ConfigOverride, []byte) {
				o := createOverride()
				b, err := json.Marshal(o)
				require.NoError(t, err)
				return o, b
			},
		},
	}

	for _, c := range cases {
		name := "valid" + c.ext
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			override, data := c.build()
			dir := t.TempDir()
			path := filepath.Join(dir, "override"+c.ext)
			require.NoError(t, os.WriteFile(path, data, 0o600))

			loaded, err := LoadConfigOverrideFile(path)

			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, *override, *loaded)
		})
	}
}

func TestLoadConfigOverrideFile_NonExistentFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "does_not_exist.yaml")

	_, err := LoadConfigOverrideFile(path)
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err), "expected not exist error, got %v", err)
}

func TestLoadConfigOverrideFile_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "override.txt")
	require.NoError(t, os.WriteFile(path, []byte("buffer_chunk_size: 1"), 0o600))

	_, err := LoadConfigOverrideFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config file extension")
}

func TestNewConfigFromFile_FileError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.json")

	_, err := NewConfigFromFile(path)
	require.Error(t, err)
}

func createDefaultCfg() *Config {
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

// createOverride makes a ConfigOverride with all non-default values.
func createOverride() *ConfigOverride {
	return &ConfigOverride{
		BufferChunkSize: util.Pointer(DefaultBufferChunkSize + 1),
		LogLvl:          util.Pointer(util.TraceLevel),
		DefaultCodec:    util.Pointer("utf16le"),
		FsName:          util.Pointer("test_fs"),
		Name:            util.Pointer("test_name"),
		Debug:           util.Pointer(true),
		MaxFH:           util.Pointer(1),
		MaxWrite:        util.Pointer(DefaultMaxWrite + 1),
		AttrTimeout:     util.Pointer(float64(DefaultAttrTimeout + 1)),
		EntryTimeout:    util.Pointer(float64(DefaultEntryTimeout + 1)),
		DirectIO:        util.Pointer(!DefaultDirectIO),
	}
}
