package swap

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/klingon-exchange/htlc-refund/internal/chain"
	"github.com/klingon-exchange/htlc-refund/pkg/helpers"
)

// SerializeTx serializes a transaction to hex.
func SerializeTx(tx *wire.MsgTx) (string, error) {
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return helpers.BytesToHex(buf.Bytes()), nil
}

// DeserializeTx deserializes a transaction from hex.
func DeserializeTx(hexStr string) (*wire.MsgTx, error) {
	data, err := helpers.HexToBytes(hexStr)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}

	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.Deserialize(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to deserialize: %w", err)
	}

	return tx, nil
}

// addressToScript converts an address string to a scriptPubKey. Decoding
// errors from btcutil are returned unchanged so callers can match them.
// btcutil decodes a segwit address under any registered HRP, so the network
// is checked separately.
func addressToScript(address string, params *chain.Params) ([]byte, error) {
	addr, err := btcutil.DecodeAddress(address, params.ChainCfg())
	if err != nil {
		return nil, err
	}
	if !addr.IsForNet(params.ChainCfg()) {
		return nil, fmt.Errorf("%w: %s is not a %s address", ErrWrongNetworkAddress, address, params.Name)
	}
	return txscript.PayToAddrScript(addr)
}
