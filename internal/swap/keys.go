package swap

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"

	"github.com/klingon-exchange/htlc-refund/internal/chain"
)

// PrivateKeyFromWIF decodes a WIF-encoded private key and checks that it was
// encoded for params. Decoding errors are returned as produced by btcutil.
func PrivateKeyFromWIF(wifStr string, params *chain.Params) (*btcec.PrivateKey, error) {
	wif, err := btcutil.DecodeWIF(wifStr)
	if err != nil {
		return nil, err
	}

	// Verify network
	if !wif.IsForNet(params.ChainCfg()) {
		return nil, ErrWrongNetworkKey
	}

	return wif.PrivKey, nil
}

// PrivateKeyToWIF encodes a private key in Wallet Import Format for params,
// always with the compressed public key flag.
func PrivateKeyToWIF(privKey *btcec.PrivateKey, params *chain.Params) (string, error) {
	wif, err := btcutil.NewWIF(privKey, params.ChainCfg(), true)
	if err != nil {
		return "", err
	}
	return wif.String(), nil
}
