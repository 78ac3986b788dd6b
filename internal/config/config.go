// Package config holds the tunable cost table and defaults used when building
// swap refund transactions. Values can be loaded from a YAML file so the same
// builder can serve networks with different accounting constants.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/wire"
	"gopkg.in/yaml.v3"

	"github.com/klingon-exchange/htlc-refund/pkg/logging"
)

// Validation errors.
var (
	ErrInvalidWeightCosts = errors.New("invalid weight costs")
	ErrInvalidSequence    = errors.New("refund sequence must not be final")
	ErrInvalidTxVersion   = errors.New("transaction version must be positive")
)

// WeightCosts is the fixed-cost table of the refund weight estimate. Every
// field is counted once per refunded UTXO except VByteRatio, which converts
// weight units to virtual bytes.
type WeightCosts struct {
	// ShortPushDataLength is the size of a single-byte push opcode.
	ShortPushDataLength int64 `yaml:"short_push_data_length"`

	// MaxSignatureLength is the worst-case DER signature plus sighash byte.
	MaxSignatureLength int64 `yaml:"max_signature_length"`

	// SequenceLength is the size of an input sequence field.
	SequenceLength int64 `yaml:"sequence_length"`

	// VByteRatio is the witness scale factor.
	VByteRatio int64 `yaml:"vbyte_ratio"`
}

// DefaultWeightCosts returns the Bitcoin cost table.
func DefaultWeightCosts() WeightCosts {
	return WeightCosts{
		ShortPushDataLength: 1,
		MaxSignatureLength:  73,
		SequenceLength:      4,
		VByteRatio:          blockchain.WitnessScaleFactor,
	}
}

// Validate checks the table for values that would break the estimate.
func (w WeightCosts) Validate() error {
	if w.VByteRatio <= 0 {
		return fmt.Errorf("%w: vbyte ratio %d", ErrInvalidWeightCosts, w.VByteRatio)
	}
	if w.ShortPushDataLength < 0 || w.MaxSignatureLength < 0 || w.SequenceLength < 0 {
		return fmt.Errorf("%w: negative length", ErrInvalidWeightCosts)
	}
	return nil
}

// RefundConfig holds defaults applied to refund transactions.
type RefundConfig struct {
	// Network is used when a request leaves its network empty.
	Network string `yaml:"network"`

	// TxVersion is the version of built refund transactions.
	TxVersion int32 `yaml:"tx_version"`

	// Sequence is written to every refund input. It must stay below the
	// final value or CHECKLOCKTIMEVERIFY fails.
	Sequence uint32 `yaml:"sequence"`
}

// Config is the top-level configuration document.
type Config struct {
	Weight  WeightCosts    `yaml:"weight"`
	Refund  RefundConfig   `yaml:"refund"`
	Logging logging.Config `yaml:"logging"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Weight: DefaultWeightCosts(),
		Refund: RefundConfig{
			Network:   "btc",
			TxVersion: 2,
			Sequence:  wire.MaxTxInSequenceNum - 1,
		},
		Logging: logging.Config{
			Level:      "info",
			TimeFormat: "15:04:05",
		},
	}
}

// Validate checks the whole document.
func (c *Config) Validate() error {
	if err := c.Weight.Validate(); err != nil {
		return err
	}
	if c.Refund.Sequence == wire.MaxTxInSequenceNum {
		return ErrInvalidSequence
	}
	if c.Refund.TxVersion <= 0 {
		return ErrInvalidTxVersion
	}
	return nil
}

// ConfigFileName is the default config file name.
const ConfigFileName = "refund.yaml"

// LoadConfig loads configuration from a YAML file in dir.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(dir string) (*Config, error) {
	configPath := ConfigPath(dir)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# Swap refund builder configuration\n\n")
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ConfigPath returns the full path to the config file for the given directory.
func ConfigPath(dir string) string {
	return filepath.Join(expandPath(dir), ConfigFileName)
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
