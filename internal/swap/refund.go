package swap

import (
	"fmt"
	"math"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/klingon-exchange/htlc-refund/internal/chain"
	"github.com/klingon-exchange/htlc-refund/internal/config"
	"github.com/klingon-exchange/htlc-refund/pkg/helpers"
	"github.com/klingon-exchange/htlc-refund/pkg/logging"
)

// UTXO is a swap escrow output to refund.
type UTXO struct {
	// RedeemScript is the hex-encoded swap script.
	RedeemScript string

	// Tokens is the output value in the smallest unit.
	Tokens uint64

	// TxID is the funding transaction id in display byte order.
	TxID string
	Vout uint32

	// Nested marks a P2SH-wrapped P2WSH output. Native P2WSH otherwise.
	Nested bool
}

// RefundRequest contains parameters for building a refund transaction.
type RefundRequest struct {
	// CurrentHeight becomes the transaction locktime. It must be at or past
	// the lock height of every swap script for the refund to be valid.
	CurrentHeight uint32

	// Network identifier such as "btc" or "ltctestnet". Empty selects the
	// builder default.
	Network string

	// Destination of the refunded coins. A non-empty DestinationScript wins
	// over DestinationAddress.
	DestinationAddress string
	DestinationScript  []byte

	// FeeTokensPerVByte is the fee rate. Fractional rates are allowed.
	FeeTokensPerVByte float64

	// IsPublicKeyHashRefund selects the public-key-hash swap script template.
	IsPublicKeyHashRefund bool

	// PrivateKey is the WIF-encoded refund key. Empty builds an unsigned
	// preview with the same size accounting.
	PrivateKey string

	UTXOs []UTXO
}

// RefundResult is a built refund transaction.
type RefundResult struct {
	// Transaction is the hex-encoded transaction.
	Transaction string

	// Fee is the amount deducted from the refunded value.
	Fee int64

	// Weight is the estimated weight the fee was computed from.
	Weight int64

	// Signed is false for previews.
	Signed bool
}

// Builder builds swap refund transactions. It is immutable after
// construction and safe for concurrent use.
type Builder struct {
	costs  config.WeightCosts
	refund config.RefundConfig
	log    *logging.Logger
}

// NewBuilder creates a builder from cfg. A nil cfg uses config.DefaultConfig
// and a nil log uses the default logger.
func NewBuilder(cfg *config.Config, log *logging.Logger) (*Builder, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.GetDefault().Component("refund")
	}

	return &Builder{
		costs:  cfg.Weight,
		refund: cfg.Refund,
		log:    log,
	}, nil
}

// LoadBuilder creates a builder from the config file in dir, writing a
// default one first if none exists. Logging follows the file's settings.
func LoadBuilder(dir string) (*Builder, error) {
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	return NewBuilder(cfg, logging.New(&cfg.Logging).Component("refund"))
}

// BuildRefund builds a refund with the default configuration.
func BuildRefund(req *RefundRequest) (*RefundResult, error) {
	b, err := NewBuilder(nil, nil)
	if err != nil {
		return nil, err
	}
	return b.BuildRefund(req)
}

// BuildRefund builds a transaction that sends every UTXO of req, minus the
// fee, to the destination. Without a private key the result is an unsigned
// preview whose fee already accounts for the witnesses a signed refund adds.
// With a key every input is signed and gets the witness
// <sig> <spacer> <redeem script>.
func (b *Builder) BuildRefund(req *RefundRequest) (*RefundResult, error) {
	if req == nil || len(req.UTXOs) == 0 {
		return nil, ErrExpectedUTXOs
	}
	if req.CurrentHeight == 0 || req.CurrentHeight >= txscript.LockTimeThreshold {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLockHeight, req.CurrentHeight)
	}
	if math.IsNaN(req.FeeTokensPerVByte) || math.IsInf(req.FeeTokensPerVByte, 0) || req.FeeTokensPerVByte < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFeeRate, req.FeeTokensPerVByte)
	}

	network := req.Network
	if network == "" {
		network = b.refund.Network
	}
	params, err := chain.ByName(network)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, network)
	}

	destScript := req.DestinationScript
	if len(destScript) == 0 {
		destScript, err = addressToScript(req.DestinationAddress, params)
		if err != nil {
			return nil, err
		}
	}

	tx := wire.NewMsgTx(b.refund.TxVersion)
	redeemScripts := make([][]byte, len(req.UTXOs))
	var total int64

	for i, utxo := range req.UTXOs {
		script, err := helpers.HexToBytes(utxo.RedeemScript)
		if err != nil {
			return nil, err
		}
		if len(script) == 0 {
			return nil, fmt.Errorf("%w: input %d has no redeem script", ErrInvalidUTXO, i)
		}
		if utxo.Tokens > math.MaxInt64 || total > math.MaxInt64-int64(utxo.Tokens) {
			return nil, fmt.Errorf("%w: input %d overflows the output value", ErrInvalidUTXO, i)
		}

		txHash, err := chainhash.NewHashFromStr(utxo.TxID)
		if err != nil {
			return nil, err
		}

		txIn := wire.NewTxIn(wire.NewOutPoint(txHash, utxo.Vout), nil, nil)
		txIn.Sequence = b.refund.Sequence
		if utxo.Nested {
			txIn.SignatureScript = NestedInputScript(script)
		}
		tx.AddTxIn(txIn)

		redeemScripts[i] = script
		total += int64(utxo.Tokens)
	}

	tx.AddTxOut(wire.NewTxOut(total, destScript))
	tx.LockTime = req.CurrentHeight

	var key *btcec.PrivateKey
	if req.PrivateKey != "" {
		key, err = PrivateKeyFromWIF(req.PrivateKey, params)
		if err != nil {
			return nil, err
		}
	}
	spacer := ResolveSpacer(req.IsPublicKeyHashRefund, key)

	weight := EstimateRefundWeight(DraftWeight(tx), b.costs, spacer, redeemScripts, req.IsPublicKeyHashRefund)
	fee := RefundFee(req.FeeTokensPerVByte, weight, b.costs)
	if fee > total {
		return nil, fmt.Errorf("%w: fee %d, value %d", ErrFeeExceedsValue, fee, total)
	}
	tx.TxOut[0].Value = total - fee

	if key != nil {
		if err := signRefund(tx, key, spacer, redeemScripts, req.UTXOs); err != nil {
			return nil, err
		}
	}

	txHex, err := SerializeTx(tx)
	if err != nil {
		return nil, err
	}

	b.log.With("network", params.Name).Debug("Built refund transaction",
		"inputs", len(tx.TxIn),
		"weight", weight,
		"fee", fee,
		"refunded", helpers.FormatAmount(tx.TxOut[0].Value, params.Decimals),
		"spacer", spacer.Kind,
		"signed", key != nil,
	)

	return &RefundResult{
		Transaction: txHex,
		Fee:         fee,
		Weight:      weight,
		Signed:      key != nil,
	}, nil
}

// signRefund signs every input with a BIP143 SIGHASH_ALL signature over its
// redeem script and sets the refund witness.
func signRefund(tx *wire.MsgTx, key *btcec.PrivateKey, spacer Spacer, redeemScripts [][]byte, utxos []UTXO) error {
	prevOutFetcher := txscript.NewMultiPrevOutFetcher(nil)
	for i, txIn := range tx.TxIn {
		prevOutFetcher.AddPrevOut(txIn.PreviousOutPoint, wire.NewTxOut(
			int64(utxos[i].Tokens),
			escrowOutputScript(redeemScripts[i], utxos[i].Nested),
		))
	}
	sigHashes := txscript.NewTxSigHashes(tx, prevOutFetcher)

	for i := range tx.TxIn {
		sighash, err := txscript.CalcWitnessSigHash(
			redeemScripts[i],
			sigHashes,
			txscript.SigHashAll,
			tx,
			i,
			int64(utxos[i].Tokens),
		)
		if err != nil {
			return fmt.Errorf("failed to compute sighash for input %d: %w", i, err)
		}

		// Sign with ECDSA and append SIGHASH_ALL byte
		sig := btcecdsa.Sign(key, sighash)
		sigBytes := append(sig.Serialize(), byte(txscript.SigHashAll))

		tx.TxIn[i].Witness = wire.TxWitness{sigBytes, spacer.Bytes(), redeemScripts[i]}
	}

	return nil
}
