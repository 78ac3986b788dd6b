package swap

import (
	"math"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"

	"github.com/klingon-exchange/htlc-refund/internal/config"
)

// DraftWeight returns the consensus weight of a transaction as it is, before
// any witness data is attached.
func DraftWeight(tx *wire.MsgTx) int64 {
	return blockchain.GetTransactionWeight(btcutil.NewTx(tx))
}

// EstimateRefundWeight returns the expected weight of a signed refund given
// the weight of its unsigned draft. Each redeem script adds a signature push,
// the worst-case signature, a sequence allowance, the spacer and the script
// itself. Public-key-hash refunds pay one more push byte per input.
func EstimateRefundWeight(draftWeight int64, costs config.WeightCosts, spacer Spacer, redeemScripts [][]byte, isPublicKeyHashRefund bool) int64 {
	weight := draftWeight
	for _, script := range redeemScripts {
		weight += costs.ShortPushDataLength +
			costs.MaxSignatureLength +
			costs.SequenceLength +
			spacer.Len() +
			int64(len(script))

		if isPublicKeyHashRefund {
			weight += costs.ShortPushDataLength
		}
	}
	return weight
}

// VirtualSize converts weight to virtual bytes, rounding up.
func VirtualSize(weight int64, costs config.WeightCosts) int64 {
	return (weight + costs.VByteRatio - 1) / costs.VByteRatio
}

// RefundFee returns the fee for a refund of the given weight at feeRate
// tokens per virtual byte, rounded up to a whole token.
func RefundFee(feeRate float64, weight int64, costs config.WeightCosts) int64 {
	return int64(math.Ceil(feeRate * float64(VirtualSize(weight, costs))))
}
