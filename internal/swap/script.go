package swap

import (
	"crypto/sha256"
	"fmt"
	"math"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"

	"github.com/klingon-exchange/htlc-refund/internal/chain"
	"github.com/klingon-exchange/htlc-refund/pkg/helpers"
)

// ScriptKind identifies one of the swap script templates.
type ScriptKind int

const (
	ScriptUnknown ScriptKind = iota
	// ScriptPublicKey commits to the refund public key directly.
	ScriptPublicKey
	// ScriptPublicKeyHash commits to the HASH160 of the refund public key.
	ScriptPublicKeyHash
)

// String returns the string representation of the kind.
func (k ScriptKind) String() string {
	switch k {
	case ScriptPublicKey:
		return "pubkey"
	case ScriptPublicKeyHash:
		return "pubkeyhash"
	default:
		return "unknown"
	}
}

// SwapScript holds the values a swap script commits to.
type SwapScript struct {
	Kind        ScriptKind
	PaymentHash []byte
	ClaimPubKey []byte

	// RefundPubKey is only known for ScriptPublicKey scripts.
	RefundPubKey     []byte
	RefundPubKeyHash []byte

	// LockTime is the CHECKLOCKTIMEVERIFY operand.
	LockTime uint32
}

// BuildSwapScript creates a swap script that commits to the refund public key.
//
// Script structure:
//
//	OP_SHA256 <payment_hash> OP_EQUAL
//	OP_IF
//	    <claim_pubkey>
//	OP_ELSE
//	    <lock_height> OP_CHECKLOCKTIMEVERIFY OP_DROP
//	    <refund_pubkey>
//	OP_ENDIF
//	OP_CHECKSIG
//
// Claim witness: <sig> <preimage> <script>
// Refund witness: <sig> <any non-preimage item> <script>
func BuildSwapScript(paymentHash, claimPubKey, refundPubKey []byte, lockHeight uint32) ([]byte, error) {
	if err := checkTemplateArgs(paymentHash, claimPubKey, lockHeight); err != nil {
		return nil, err
	}
	if len(refundPubKey) != btcec.PubKeyBytesLenCompressed {
		return nil, fmt.Errorf("%w: refund key is %d bytes", ErrInvalidPubKey, len(refundPubKey))
	}

	builder := txscript.NewScriptBuilder()

	builder.AddOp(txscript.OP_SHA256)
	builder.AddData(paymentHash)
	builder.AddOp(txscript.OP_EQUAL)

	// Claim path
	builder.AddOp(txscript.OP_IF)
	builder.AddData(claimPubKey)

	// Refund path
	builder.AddOp(txscript.OP_ELSE)
	builder.AddInt64(int64(lockHeight))
	builder.AddOp(txscript.OP_CHECKLOCKTIMEVERIFY)
	builder.AddOp(txscript.OP_DROP)
	builder.AddData(refundPubKey)
	builder.AddOp(txscript.OP_ENDIF)

	builder.AddOp(txscript.OP_CHECKSIG)

	return builder.Script()
}

// BuildPKHashSwapScript creates a swap script that commits to the HASH160 of
// the refund public key.
//
// Script structure:
//
//	OP_DUP OP_SHA256 <payment_hash> OP_EQUAL
//	OP_IF
//	    OP_DROP <claim_pubkey>
//	OP_ELSE
//	    <lock_height> OP_CHECKLOCKTIMEVERIFY OP_DROP
//	    OP_DUP OP_HASH160 <refund_pubkey_hash> OP_EQUALVERIFY
//	OP_ENDIF
//	OP_CHECKSIG
//
// Claim witness: <sig> <preimage> <script>
// Refund witness: <sig> <refund_pubkey> <script>
func BuildPKHashSwapScript(paymentHash, claimPubKey, refundPubKeyHash []byte, lockHeight uint32) ([]byte, error) {
	if err := checkTemplateArgs(paymentHash, claimPubKey, lockHeight); err != nil {
		return nil, err
	}
	if len(refundPubKeyHash) != PubKeyHashSize {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidPubKeyHash, len(refundPubKeyHash))
	}

	builder := txscript.NewScriptBuilder()

	builder.AddOp(txscript.OP_DUP)
	builder.AddOp(txscript.OP_SHA256)
	builder.AddData(paymentHash)
	builder.AddOp(txscript.OP_EQUAL)

	// Claim path drops the preimage copy
	builder.AddOp(txscript.OP_IF)
	builder.AddOp(txscript.OP_DROP)
	builder.AddData(claimPubKey)

	// Refund path checks the revealed key against its hash
	builder.AddOp(txscript.OP_ELSE)
	builder.AddInt64(int64(lockHeight))
	builder.AddOp(txscript.OP_CHECKLOCKTIMEVERIFY)
	builder.AddOp(txscript.OP_DROP)
	builder.AddOp(txscript.OP_DUP)
	builder.AddOp(txscript.OP_HASH160)
	builder.AddData(refundPubKeyHash)
	builder.AddOp(txscript.OP_EQUALVERIFY)
	builder.AddOp(txscript.OP_ENDIF)

	builder.AddOp(txscript.OP_CHECKSIG)

	return builder.Script()
}

func checkTemplateArgs(paymentHash, claimPubKey []byte, lockHeight uint32) error {
	if len(paymentHash) != PaymentHashSize {
		return fmt.Errorf("%w, got %d", ErrInvalidPaymentHash, len(paymentHash))
	}
	if len(claimPubKey) != btcec.PubKeyBytesLenCompressed {
		return fmt.Errorf("%w: claim key is %d bytes", ErrInvalidPubKey, len(claimPubKey))
	}
	if lockHeight == 0 || lockHeight >= txscript.LockTimeThreshold {
		return fmt.Errorf("%w: %d", ErrInvalidLockHeight, lockHeight)
	}
	return nil
}

// ParseSwapScript matches a script against both swap templates and extracts
// the committed values. Any deviation in opcodes or operand sizes is an error.
func ParseSwapScript(script []byte) (*SwapScript, error) {
	r := &scriptReader{tokenizer: txscript.MakeScriptTokenizer(0, script)}

	parsed := &SwapScript{Kind: ScriptPublicKey}
	if len(script) > 0 && script[0] == txscript.OP_DUP {
		parsed.Kind = ScriptPublicKeyHash
		r.op(txscript.OP_DUP)
	}

	r.op(txscript.OP_SHA256)
	parsed.PaymentHash = r.push(PaymentHashSize, "payment hash")
	r.op(txscript.OP_EQUAL)

	r.op(txscript.OP_IF)
	if parsed.Kind == ScriptPublicKeyHash {
		r.op(txscript.OP_DROP)
	}
	parsed.ClaimPubKey = r.push(btcec.PubKeyBytesLenCompressed, "claim public key")

	r.op(txscript.OP_ELSE)
	parsed.LockTime = r.lockTime()
	r.op(txscript.OP_CHECKLOCKTIMEVERIFY)
	r.op(txscript.OP_DROP)
	if parsed.Kind == ScriptPublicKeyHash {
		r.op(txscript.OP_DUP)
		r.op(txscript.OP_HASH160)
		parsed.RefundPubKeyHash = r.push(PubKeyHashSize, "refund public key hash")
		r.op(txscript.OP_EQUALVERIFY)
	} else {
		parsed.RefundPubKey = r.push(btcec.PubKeyBytesLenCompressed, "refund public key")
	}
	r.op(txscript.OP_ENDIF)

	r.op(txscript.OP_CHECKSIG)
	r.end()

	if r.err != nil {
		return nil, r.err
	}
	if parsed.Kind == ScriptPublicKey {
		parsed.RefundPubKeyHash = btcutil.Hash160(parsed.RefundPubKey)
	}
	return parsed, nil
}

// scriptReader walks a script one opcode at a time and keeps the first
// mismatch. Once err is set every further step is a no-op.
type scriptReader struct {
	tokenizer txscript.ScriptTokenizer
	err       error
}

func (r *scriptReader) fail(format string, args ...interface{}) {
	r.err = fmt.Errorf("%w: %s", ErrInvalidSwapScript, fmt.Sprintf(format, args...))
}

func (r *scriptReader) op(want byte) {
	if r.err != nil {
		return
	}
	if !r.tokenizer.Next() || r.tokenizer.Opcode() != want {
		name, _ := txscript.DisasmString([]byte{want})
		r.fail("expected %s", name)
	}
}

// push reads a canonical push of exactly size bytes.
func (r *scriptReader) push(size int, what string) []byte {
	if r.err != nil {
		return nil
	}
	if !r.tokenizer.Next() || r.tokenizer.Opcode() != byte(size) || len(r.tokenizer.Data()) != size {
		r.fail("expected %d-byte %s", size, what)
		return nil
	}
	return helpers.CopyBytes(r.tokenizer.Data())
}

// lockTime reads a small integer opcode or a minimally encoded script number.
func (r *scriptReader) lockTime() uint32 {
	if r.err != nil {
		return 0
	}
	if !r.tokenizer.Next() {
		r.fail("expected lock time")
		return 0
	}

	op := r.tokenizer.Opcode()
	switch {
	case op >= txscript.OP_1 && op <= txscript.OP_16:
		return uint32(op - (txscript.OP_1 - 1))

	case op >= txscript.OP_DATA_1 && op <= txscript.OP_DATA_1+maxLockPushSize-1:
		num, err := txscript.MakeScriptNum(r.tokenizer.Data(), true, maxLockPushSize)
		if err != nil || num <= 0 || num > math.MaxUint32 {
			r.fail("bad lock time encoding")
			return 0
		}
		return uint32(num)
	}

	r.fail("expected lock time")
	return 0
}

func (r *scriptReader) end() {
	if r.err != nil {
		return
	}
	if r.tokenizer.Next() {
		r.fail("unexpected trailing opcodes")
		return
	}
	if err := r.tokenizer.Err(); err != nil {
		r.fail("%v", err)
	}
}

// WitnessScriptHash returns the SHA256 of a witness script.
func WitnessScriptHash(script []byte) []byte {
	hash := sha256.Sum256(script)
	return hash[:]
}

// P2WSHOutputScript creates the scriptPubKey for a P2WSH output.
// Format: OP_0 <32-byte-script-hash>
func P2WSHOutputScript(script []byte) []byte {
	builder := txscript.NewScriptBuilder()
	builder.AddOp(txscript.OP_0)
	builder.AddData(WitnessScriptHash(script))
	scriptPubKey, _ := builder.Script()
	return scriptPubKey
}

// NestedInputScript creates the scriptSig of a P2SH-wrapped P2WSH input,
// a single push of the P2WSH witness program.
func NestedInputScript(script []byte) []byte {
	builder := txscript.NewScriptBuilder()
	builder.AddData(P2WSHOutputScript(script))
	sigScript, _ := builder.Script()
	return sigScript
}

// NestedOutputScript creates the scriptPubKey of a P2SH-wrapped P2WSH output.
// Format: OP_HASH160 <20-byte-hash-of-witness-program> OP_EQUAL
func NestedOutputScript(script []byte) []byte {
	return scriptHashOutputScript(P2WSHOutputScript(script))
}

// scriptHashOutputScript creates the P2SH scriptPubKey of a redeem script.
func scriptHashOutputScript(redeem []byte) []byte {
	builder := txscript.NewScriptBuilder()
	builder.AddOp(txscript.OP_HASH160)
	builder.AddData(btcutil.Hash160(redeem))
	builder.AddOp(txscript.OP_EQUAL)
	scriptPubKey, _ := builder.Script()
	return scriptPubKey
}

// escrowOutputScript returns the scriptPubKey locking a swap UTXO.
func escrowOutputScript(script []byte, nested bool) []byte {
	if nested {
		return NestedOutputScript(script)
	}
	return P2WSHOutputScript(script)
}

// SwapAddress derives the escrow address of a swap script on a network.
// Nested addresses are P2SH-wrapped P2WSH, others are native P2WSH.
func SwapAddress(script []byte, network string, nested bool) (string, error) {
	params, err := chain.ByName(network)
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, network)
	}
	netParams := params.ChainCfg()

	if nested {
		address, err := btcutil.NewAddressScriptHash(P2WSHOutputScript(script), netParams)
		if err != nil {
			return "", fmt.Errorf("failed to create P2SH address: %w", err)
		}
		return address.EncodeAddress(), nil
	}

	address, err := btcutil.NewAddressWitnessScriptHash(WitnessScriptHash(script), netParams)
	if err != nil {
		return "", fmt.Errorf("failed to create P2WSH address: %w", err)
	}
	return address.EncodeAddress(), nil
}
