package chain

import "github.com/btcsuite/btcd/chaincfg"

func init() {
	// Bitcoin Mainnet
	Register(&Params{
		Name:     "btc",
		Symbol:   "BTC",
		Network:  Mainnet,
		Decimals: 8,

		PubKeyHashAddrID: 0x00, // 1...
		ScriptHashAddrID: 0x05, // 3...
		Bech32HRP:        "bc",
		WIF:              0x80,

		HDPrivateKeyID: [4]byte{0x04, 0x88, 0xad, 0xe4}, // xprv
		HDPublicKeyID:  [4]byte{0x04, 0x88, 0xb2, 0x1e}, // xpub

		native: &chaincfg.MainNetParams,
	})

	// Bitcoin Testnet (testnet3)
	Register(&Params{
		Name:     "btctestnet",
		Symbol:   "BTC",
		Network:  Testnet,
		Decimals: 8,

		PubKeyHashAddrID: 0x6F, // m or n
		ScriptHashAddrID: 0xC4, // 2...
		Bech32HRP:        "tb",
		WIF:              0xEF,

		HDPrivateKeyID: [4]byte{0x04, 0x35, 0x83, 0x94}, // tprv
		HDPublicKeyID:  [4]byte{0x04, 0x35, 0x87, 0xcf}, // tpub

		native: &chaincfg.TestNet3Params,
	})

	// Bitcoin Regtest
	Register(&Params{
		Name:     "btcregtest",
		Symbol:   "BTC",
		Network:  Regtest,
		Decimals: 8,

		PubKeyHashAddrID: 0x6F,
		ScriptHashAddrID: 0xC4,
		Bech32HRP:        "bcrt",
		WIF:              0xEF,

		HDPrivateKeyID: [4]byte{0x04, 0x35, 0x83, 0x94},
		HDPublicKeyID:  [4]byte{0x04, 0x35, 0x87, 0xcf},

		native: &chaincfg.RegressionNetParams,
	})
}
