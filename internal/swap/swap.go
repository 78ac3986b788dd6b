// Package swap builds refund transactions for hashed-timelock swap escrows
// and recognizes inputs that spend such escrows.
//
// Two escrow script shapes are supported. Both pay the claimer when the
// payment preimage is revealed and let the funder take the coins back once
// the absolute lock height has passed:
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
// and the public-key-hash variant, where the refund path commits to the
// HASH160 of the refund key and the key itself is revealed in the witness.
package swap

import (
	"errors"
)

// Refund errors
var (
	ErrExpectedUTXOs       = errors.New("expected utxos to spend")
	ErrInvalidUTXO         = errors.New("invalid utxo")
	ErrInvalidLockHeight   = errors.New("lock height must be a block height below the locktime threshold")
	ErrInvalidFeeRate      = errors.New("fee rate must be a non-negative number")
	ErrFeeExceedsValue     = errors.New("fee exceeds refunded value")
	ErrWrongNetworkKey     = errors.New("private key is for a different network")
	ErrWrongNetworkAddress = errors.New("address is for a different network")
)

// Script errors
var (
	ErrInvalidSwapScript  = errors.New("invalid swap script")
	ErrInvalidPaymentHash = errors.New("payment hash must be 32 bytes")
	ErrInvalidPubKey      = errors.New("public key must be 33 bytes (compressed)")
	ErrInvalidPubKeyHash  = errors.New("public key hash must be 20 bytes")
)

const (
	// PaymentHashSize is the size of the SHA256 payment hash.
	PaymentHashSize = 32

	// PreimageSize is the size of a payment preimage.
	PreimageSize = 32

	// PubKeyHashSize is the size of a HASH160 of a public key.
	PubKeyHashSize = 20

	// maxLockPushSize is the widest script number CHECKLOCKTIMEVERIFY reads.
	maxLockPushSize = 5
)
