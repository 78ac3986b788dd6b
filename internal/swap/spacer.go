package swap

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/klingon-exchange/htlc-refund/pkg/helpers"
)

// SpacerKind identifies the middle witness item of a refund spend.
type SpacerKind int

const (
	// NoKeyPlaceholder stands in for the refund public key when a
	// public-key-hash refund is previewed without a key.
	NoKeyPlaceholder SpacerKind = iota
	// PublicKeyHashSpacer is the refund public key revealed to a
	// public-key-hash swap script.
	PublicKeyHashSpacer
	// DummySpacer is a single zero byte that fails the preimage check of a
	// public-key swap script.
	DummySpacer
)

// String returns the string representation of the kind.
func (k SpacerKind) String() string {
	switch k {
	case NoKeyPlaceholder:
		return "placeholder"
	case PublicKeyHashSpacer:
		return "pubkey"
	case DummySpacer:
		return "dummy"
	default:
		return "unknown"
	}
}

// Spacer is the witness item placed between the signature and the swap
// script. It selects the refund branch and, for public-key-hash scripts,
// carries the refund key.
type Spacer struct {
	Kind SpacerKind
	item []byte
}

// ResolveSpacer picks the spacer for a refund. Public-key-hash refunds carry
// the compressed public key of key, or 33 zero bytes of the same size when no
// key is known yet. Every other refund uses the dummy byte.
func ResolveSpacer(isPublicKeyHashRefund bool, key *btcec.PrivateKey) Spacer {
	if !isPublicKeyHashRefund {
		return Spacer{Kind: DummySpacer, item: []byte{txscript.OP_0}}
	}
	if key == nil {
		return Spacer{Kind: NoKeyPlaceholder, item: make([]byte, secp256k1.PubKeyBytesLenCompressed)}
	}
	return Spacer{Kind: PublicKeyHashSpacer, item: key.PubKey().SerializeCompressed()}
}

// Bytes returns a copy of the witness item.
func (s Spacer) Bytes() []byte {
	return helpers.CopyBytes(s.item)
}

// Len returns the size of the witness item in bytes.
func (s Spacer) Len() int64 {
	return int64(len(s.item))
}
