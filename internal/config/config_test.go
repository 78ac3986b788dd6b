package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, int64(1), cfg.Weight.ShortPushDataLength)
	require.Equal(t, int64(73), cfg.Weight.MaxSignatureLength)
	require.Equal(t, int64(4), cfg.Weight.SequenceLength)
	require.Equal(t, int64(4), cfg.Weight.VByteRatio)
	require.Equal(t, "btc", cfg.Refund.Network)
	require.Equal(t, int32(2), cfg.Refund.TxVersion)
	require.Less(t, cfg.Refund.Sequence, uint32(wire.MaxTxInSequenceNum))
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"zero ratio", func(c *Config) { c.Weight.VByteRatio = 0 }, ErrInvalidWeightCosts},
		{"negative sig", func(c *Config) { c.Weight.MaxSignatureLength = -1 }, ErrInvalidWeightCosts},
		{"final sequence", func(c *Config) { c.Refund.Sequence = wire.MaxTxInSequenceNum }, ErrInvalidSequence},
		{"zero version", func(c *Config) { c.Refund.TxVersion = 0 }, ErrInvalidTxVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestLoadConfigCreatesDefault(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig().Weight, cfg.Weight)

	_, err = os.Stat(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err, "default config file should be written")
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	doc := []byte(`
weight:
  max_signature_length: 72
refund:
  network: ltctestnet
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), doc, 0600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, int64(72), cfg.Weight.MaxSignatureLength)
	require.Equal(t, int64(4), cfg.Weight.VByteRatio, "unset fields keep defaults")
	require.Equal(t, "ltctestnet", cfg.Refund.Network)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	doc := []byte("weight:\n  vbyte_ratio: 0\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), doc, 0600))

	_, err := LoadConfig(dir)
	require.ErrorIs(t, err, ErrInvalidWeightCosts)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Refund.Sequence = 0
	require.NoError(t, cfg.Save(ConfigPath(dir)))

	loaded, err := LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, uint32(0), loaded.Refund.Sequence)
}
