package chain

func init() {
	// Litecoin Mainnet
	Register(&Params{
		Name:     "ltc",
		Symbol:   "LTC",
		Network:  Mainnet,
		Decimals: 8,

		PubKeyHashAddrID: 0x30, // L...
		ScriptHashAddrID: 0x32, // M...
		Bech32HRP:        "ltc",
		WIF:              0xB0,
		Magic:            0xdbb6c0fb,

		HDPrivateKeyID: [4]byte{0x01, 0x9d, 0x9c, 0xfe}, // Ltpv
		HDPublicKeyID:  [4]byte{0x01, 0x9d, 0xa4, 0x62}, // Ltub
	})

	// Litecoin Testnet
	Register(&Params{
		Name:     "ltctestnet",
		Symbol:   "LTC",
		Network:  Testnet,
		Decimals: 8,

		PubKeyHashAddrID: 0x6F,
		ScriptHashAddrID: 0x3A, // Q...
		Bech32HRP:        "tltc",
		WIF:              0xEF,
		Magic:            0xf1c8d2fd,

		HDPrivateKeyID: [4]byte{0x04, 0x36, 0xef, 0x7d}, // ttpv
		HDPublicKeyID:  [4]byte{0x04, 0x36, 0xf6, 0xe1}, // ttub
	})
}
