package swap

import (
	"bytes"
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"

	"github.com/klingon-exchange/htlc-refund/internal/chain"
	"github.com/klingon-exchange/htlc-refund/pkg/helpers"
)

// DER signature bounds, sighash byte included.
const (
	minSignatureLength = 9
	maxSignatureLength = 73
	derSequenceTag     = 0x30
)

// SpendInput is a transaction input to classify.
type SpendInput struct {
	// Network identifier such as "btc". It only selects the encoding of
	// SwapSpend.Address and never decides whether an input matches.
	Network string

	// Script is the input scriptSig.
	Script []byte

	// Witness is the input witness stack.
	Witness [][]byte

	// PrevOutScript is the scriptPubKey of the spent output. When set, the
	// redeem script must hash to it in the form the input spends it.
	PrevOutScript []byte
}

// SpendKind identifies which swap script branch an input takes.
type SpendKind int

const (
	SpendRefund SpendKind = iota
	SpendClaim
)

// String returns the string representation of the kind.
func (k SpendKind) String() string {
	if k == SpendClaim {
		return "claim"
	}
	return "refund"
}

// SwapSpend describes an input recognized as spending a swap script.
type SwapSpend struct {
	Kind   SpendKind
	Script *SwapScript

	// Preimage is set for claims.
	Preimage []byte

	// RefundPubKey is the key revealed by a public-key-hash refund.
	RefundPubKey []byte

	// Address is the escrow address the input spends from. Empty when the
	// network is unknown.
	Address string
}

// IsSwapSpend reports whether an input spends one of the swap script
// templates. It never fails: anything it cannot make sense of is not a swap
// spend.
func IsSwapSpend(in SpendInput) bool {
	_, ok := ClassifySwapSpend(in)
	return ok
}

// ClassifySwapSpend matches an input against the swap script templates and
// tells a claim, which reveals the payment preimage, from a refund.
//
// Accepted input shapes:
//   - native P2WSH: empty scriptSig, witness <sig> <item> <script>
//   - nested P2WSH: scriptSig pushing OP_0 <sha256(script)>, same witness
//   - legacy P2SH: no witness, push-only scriptSig <sig> <item> <script>
func ClassifySwapSpend(in SpendInput) (*SwapSpend, bool) {
	stack, outScript, ok := spendStack(in)
	if !ok || len(stack) != 3 {
		return nil, false
	}
	sig, item, redeem := stack[0], stack[1], stack[2]

	if len(in.PrevOutScript) > 0 && !bytes.Equal(in.PrevOutScript, outScript) {
		return nil, false
	}
	if !isSignatureShaped(sig) {
		return nil, false
	}
	switch len(item) {
	case 0, 1, PreimageSize, btcec.PubKeyBytesLenCompressed:
	default:
		return nil, false
	}

	script, err := ParseSwapScript(redeem)
	if err != nil {
		return nil, false
	}

	spend := &SwapSpend{
		Kind:    SpendRefund,
		Script:  script,
		Address: spendAddress(outScript, in.Network),
	}
	if len(item) == PreimageSize {
		hash := sha256.Sum256(item)
		if bytes.Equal(hash[:], script.PaymentHash) {
			spend.Kind = SpendClaim
			spend.Preimage = helpers.CopyBytes(item)
			return spend, true
		}
	}
	if script.Kind == ScriptPublicKeyHash && len(item) == btcec.PubKeyBytesLenCompressed && !helpers.IsZeroBytes(item) {
		spend.RefundPubKey = helpers.CopyBytes(item)
	}

	return spend, true
}

// spendStack returns the stack an input presents to its redeem script and
// the scriptPubKey that redeem script must have been locked under.
func spendStack(in SpendInput) ([][]byte, []byte, bool) {
	if len(in.Witness) > 0 {
		redeem := in.Witness[len(in.Witness)-1]
		if len(in.Script) == 0 {
			return in.Witness, P2WSHOutputScript(redeem), true
		}

		// Nested P2WSH: the scriptSig pushes exactly the witness program of
		// the last witness item.
		if !bytes.Equal(in.Script, NestedInputScript(redeem)) {
			return nil, nil, false
		}
		return in.Witness, NestedOutputScript(redeem), true
	}

	if len(in.Script) == 0 || !txscript.IsPushOnlyScript(in.Script) {
		return nil, nil, false
	}
	stack, ok := pushedData(in.Script)
	if !ok || len(stack) == 0 {
		return nil, nil, false
	}
	return stack, scriptHashOutputScript(stack[len(stack)-1]), true
}

// spendAddress encodes the escrow output script as an address on network.
func spendAddress(outScript []byte, network string) string {
	params, err := chain.ByName(network)
	if err != nil {
		return ""
	}
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(outScript, params.ChainCfg())
	if err != nil || len(addrs) != 1 {
		return ""
	}
	return addrs[0].EncodeAddress()
}
// pushedData collects the items a push-only script leaves on the stack.
func pushedData(script []byte) ([][]byte, bool) {
	var stack [][]byte
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	for tokenizer.Next() {
		op := tokenizer.Opcode()
		switch {
		case op == txscript.OP_0:
			stack = append(stack, []byte{})
		case op == txscript.OP_1NEGATE:
			stack = append(stack, []byte{0x81})
		case op >= txscript.OP_1 && op <= txscript.OP_16:
			stack = append(stack, []byte{op - (txscript.OP_1 - 1)})
		default:
			stack = append(stack, tokenizer.Data())
		}
	}
	if tokenizer.Err() != nil {
		return nil, false
	}
	return stack, true
}

// isSignatureShaped checks the outer markers of a DER signature with a
// trailing sighash byte. The signature itself is not verified.
func isSignatureShaped(sig []byte) bool {
	return len(sig) >= minSignatureLength && len(sig) <= maxSignatureLength && sig[0] == derSequenceTag
}
