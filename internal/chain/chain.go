// Package chain defines network parameters for the Bitcoin-family chains that
// can host swap escrows. All chain-specific values are hardcoded here.
package chain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
)

// ErrUnknownNetwork is returned when a network identifier is not registered.
var ErrUnknownNetwork = errors.New("unknown network")

// Network represents mainnet, testnet or regtest.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Regtest Network = "regtest"
)

// Params contains the address and key encoding parameters of a chain.
type Params struct {
	// Identity
	Name     string  // network identifier: btc, btctestnet, ltc, ...
	Symbol   string  // BTC, LTC
	Network  Network // mainnet, testnet, regtest
	Decimals uint8

	// Address prefixes
	PubKeyHashAddrID byte   // P2PKH
	ScriptHashAddrID byte   // P2SH
	Bech32HRP        string // Bech32 human-readable prefix
	WIF              byte   // Private key prefix

	// BIP32 HD key magic bytes
	HDPrivateKeyID [4]byte
	HDPublicKeyID  [4]byte

	// Magic is the P2P network magic. Only used for chains btcd doesn't ship.
	Magic uint32

	// btcd params; set by Register for chains btcd doesn't ship.
	native *chaincfg.Params
}

// ChainCfg returns btcd chaincfg params for address and WIF handling.
// Bitcoin networks map to btcd's own params. Other chains get params built
// at registration time.
func (p *Params) ChainCfg() *chaincfg.Params {
	return p.native
}

// buildChainCfg derives btcd params from p: a copy of mainnet params with
// the chain's prefixes and network magic swapped in.
func (p *Params) buildChainCfg() *chaincfg.Params {
	hdPrivateKeyID := p.HDPrivateKeyID
	hdPublicKeyID := p.HDPublicKeyID
	if hdPrivateKeyID == [4]byte{} {
		hdPrivateKeyID = [4]byte{0x04, 0x88, 0xad, 0xe4} // xprv
	}
	if hdPublicKeyID == [4]byte{} {
		hdPublicKeyID = [4]byte{0x04, 0x88, 0xb2, 0x1e} // xpub
	}

	cfg := chaincfg.MainNetParams
	cfg.Name = p.Name
	cfg.Net = wire.BitcoinNet(p.Magic)
	cfg.Bech32HRPSegwit = p.Bech32HRP
	cfg.PubKeyHashAddrID = p.PubKeyHashAddrID
	cfg.ScriptHashAddrID = p.ScriptHashAddrID
	cfg.PrivateKeyID = p.WIF
	cfg.HDPrivateKeyID = hdPrivateKeyID
	cfg.HDPublicKeyID = hdPublicKeyID
	return &cfg
}

// registry holds all chain parameters indexed by network identifier.
var registry = make(map[string]*Params)

// Register adds chain params to the registry under params.Name. Chains
// without native btcd params are also registered with chaincfg so that
// btcutil recognizes their bech32 prefix when decoding addresses.
func Register(params *Params) {
	if params.native == nil {
		params.native = params.buildChainCfg()
		if err := chaincfg.Register(params.native); err != nil && !errors.Is(err, chaincfg.ErrDuplicateNet) {
			panic(fmt.Sprintf("chain: register %s: %v", params.Name, err))
		}
	}
	registry[params.Name] = params
}

// ByName returns the params registered under a network identifier such as
// "btc" or "ltctestnet". Lookup is case-insensitive.
func ByName(name string) (*Params, error) {
	params, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, ErrUnknownNetwork
	}
	return params, nil
}

// Names returns all registered network identifiers, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
