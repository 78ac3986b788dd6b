package swap

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"

	"github.com/klingon-exchange/htlc-refund/internal/chain"
)

const (
	testNetwork    = "btcregtest"
	testLockHeight = 200
	testHeight     = 250
	testTxID       = "5d4b529f841a4beac6f56abd91fe4b2002cd3f429064519d32dd9df10a70a87e"
)

// Native segwit 2-of-3 multisig spend.
const multisigSpendHex = "010000000001015d4b529f841a4beac6f56abd91fe4b2002cd3f429064519d32dd9df10a70a87e0000000000ffffffff02203c670000000000160014a2e667bb74537ddea9aad6c1892afd320a6cba3b9009460200000000220020701a8d401c84fb13e6baf169d59684e17abd9fa216c8cc5b9fc63d622ff8c58d04004730440220115f01faaa6c0ab0e1efc94bf2b0b3953a4533de6a4070f28194d5622ea7c04a0220301224188c32f0672fc481db839d12f08459965d637138a8ace1f707d4eed91801473044022076d7b91b7f20f02d106afcd69218c580f647de7ecab7a8e055a6ca1a654241d70220071c03fb4fc88bd8ddfbb70eb869ddce969e8fb41608712a409201ad4f577fe401695221022b003d276bce58bef509bdcd9cf7e156f0eae18e1175815282e65e7da788bb5b21035c58f2f60ecf38c9c8b9d1316b662627ec672f5fd912b1a2cc28d0b9b00575fd2103c96d495bfdd5ba4145e3e046fee45e84a8a48ad05bd8dbb395c011a32cf9f88053ae00000000"

// Two P2WPKH spends.
const p2wpkhSpendHex = "010000000001029535cc822cf304ab387529d42fc046f4b5008cf08792c2911a5e563399852ad30100000000ffffffffe4a9020553334c0cfeb0b487aa647a84feb5095b4d9a3fe65d11ad04b788a8f60100000000ffffffff02f09e5c00000000001976a9143cdb231544122b9d00d07243a9732e4eeadf16e488ac60230000000000001600148d310acec1cb3c14eca9084b07c2a6e13264a9550247304402200cd07173982a1a96794ed174c4265fcfba41a175fb461bd86c9558eddbc64f0c02204b732786f05ed807ae6cd0c9d47906a440844d1f41518fef1a47db1d8ebe707c012102bb6f0d424dfedc310291e5a237bc833bc73c4a2ed6fbd69b1ce73acd4fe2f3e102483045022100dfe2fa6b1b4b570039b91d50967a1df2a75bb0e558a32f5bf3914a5aa50a193802200c9cab49dd8a7e22d783f375de205c1716ccc138aa92d83d0a6b981a41cdf853012102bb6f0d424dfedc310291e5a237bc833bc73c4a2ed6fbd69b1ce73acd4fe2f3e100000000"

// swapFixture is a funded swap escrow and everything needed to refund it.
type swapFixture struct {
	claimKey    *btcec.PrivateKey
	refundKey   *btcec.PrivateKey
	preimage    []byte
	paymentHash []byte
	script      []byte
	wif         string
	destination string
}

func testKey(seed byte) *btcec.PrivateKey {
	key, _ := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{seed}, 32))
	return key
}

func newSwapFixture(t *testing.T, pkh bool) *swapFixture {
	t.Helper()

	params, err := chain.ByName(testNetwork)
	require.NoError(t, err)

	f := &swapFixture{
		claimKey:  testKey(0x11),
		refundKey: testKey(0x22),
		preimage:  bytes.Repeat([]byte{0x42}, PreimageSize),
	}
	hash := sha256.Sum256(f.preimage)
	f.paymentHash = hash[:]

	claimPub := f.claimKey.PubKey().SerializeCompressed()
	refundPub := f.refundKey.PubKey().SerializeCompressed()
	if pkh {
		f.script, err = BuildPKHashSwapScript(f.paymentHash, claimPub, btcutil.Hash160(refundPub), testLockHeight)
	} else {
		f.script, err = BuildSwapScript(f.paymentHash, claimPub, refundPub, testLockHeight)
	}
	require.NoError(t, err)

	f.wif, err = PrivateKeyToWIF(f.refundKey, params)
	require.NoError(t, err)

	destHash := btcutil.Hash160(testKey(0x33).PubKey().SerializeCompressed())
	dest, err := btcutil.NewAddressWitnessPubKeyHash(destHash, params.ChainCfg())
	require.NoError(t, err)
	f.destination = dest.EncodeAddress()

	return f
}

func (f *swapFixture) utxo(tokens uint64, vout uint32, nested bool) UTXO {
	return UTXO{
		RedeemScript: hex.EncodeToString(f.script),
		Tokens:       tokens,
		TxID:         testTxID,
		Vout:         vout,
		Nested:       nested,
	}
}

func (f *swapFixture) request(pkh, signed bool, utxos ...UTXO) *RefundRequest {
	req := &RefundRequest{
		CurrentHeight:         testHeight,
		Network:               testNetwork,
		DestinationAddress:    f.destination,
		FeeTokensPerVByte:     2,
		IsPublicKeyHashRefund: pkh,
		UTXOs:                 utxos,
	}
	if signed {
		req.PrivateKey = f.wif
	}
	return req
}

// verifyRefund runs every input of a signed refund through the script engine.
func verifyRefund(t *testing.T, txHex string, utxos []UTXO) {
	t.Helper()

	tx, err := DeserializeTx(txHex)
	require.NoError(t, err)
	require.Len(t, tx.TxIn, len(utxos))

	prevOutFetcher := txscript.NewMultiPrevOutFetcher(nil)
	pkScripts := make([][]byte, len(utxos))
	for i, utxo := range utxos {
		script, err := hex.DecodeString(utxo.RedeemScript)
		require.NoError(t, err)
		pkScripts[i] = escrowOutputScript(script, utxo.Nested)
		prevOutFetcher.AddPrevOut(tx.TxIn[i].PreviousOutPoint, wire.NewTxOut(int64(utxo.Tokens), pkScripts[i]))
	}
	sigHashes := txscript.NewTxSigHashes(tx, prevOutFetcher)

	for i, utxo := range utxos {
		vm, err := txscript.NewEngine(
			pkScripts[i],
			tx,
			i,
			txscript.StandardVerifyFlags,
			nil,
			sigHashes,
			int64(utxo.Tokens),
			prevOutFetcher,
		)
		require.NoError(t, err)
		require.NoError(t, vm.Execute(), "input %d", i)
	}
}

func decodeTx(t *testing.T, txHex string) *wire.MsgTx {
	t.Helper()
	tx, err := DeserializeTx(txHex)
	require.NoError(t, err)
	return tx
}
