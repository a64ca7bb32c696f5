package warp

import (
	"context"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/interchainlabs/warpcore/adapter"
)

func TestGetTransferRemoteTxsTransferOnly(t *testing.T) {
	f := scenarioFixture(t)

	txs, err := f.core.GetTransferRemoteTxs(context.Background(), f.params, nil)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, adapter.TxCategoryTransfer, txs[0].Category)
	require.Equal(t, adapter.TxKind("evm"), txs[0].Kind)

	// the transfer carries the resolved interchain fee and destination domain
	require.NotNil(t, f.originFake.lastTransfer)
	require.Equal(t, uint32(cosmosDomain), f.originFake.lastTransfer.DestinationDomain)
	require.Equal(t, int64(20000), f.originFake.lastTransfer.InterchainFee.Amount.Int64())
	require.Equal(t, f.params.Recipient, f.originFake.lastTransfer.Recipient)
}

func TestGetTransferRemoteTxsApprovalFirst(t *testing.T) {
	f := scenarioFixture(t)
	f.originFake.approveRequired = true

	txs, err := f.core.GetTransferRemoteTxs(context.Background(), f.params, nil)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	require.Equal(t, adapter.TxCategoryApproval, txs[0].Category)
	require.Equal(t, adapter.TxCategoryTransfer, txs[1].Category)

	// a plain token approves exactly the transfer amount
	require.NotNil(t, f.originFake.lastApprove)
	require.True(t, f.originFake.lastApprove.Amount.Equal(f.params.Origin.Amount))
}

func TestGetTransferRemoteTxsMultiCollateralApprovesFee(t *testing.T) {
	cfg := routeConfig(StandardMultiCollateral, StandardSynthetic)
	f := newValidationFixture(t, cfg)
	f.originFake.approveRequired = true

	// the fee leg is denominated in the transferred token
	fee := NewTokenAmount(f.origin, sdkmath.NewInt(700))
	txs, err := f.core.GetTransferRemoteTxs(context.Background(), f.params, &fee)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	expected := f.params.Origin.Amount.Add(fee.Amount)
	require.True(t, f.originFake.lastApprove.Amount.Equal(expected))
	// the transfer itself still moves only the requested amount
	require.True(t, f.originFake.lastTransfer.Amount.Equal(f.params.Origin.Amount))
}

func TestGetTransferRemoteTxsNoRoute(t *testing.T) {
	f := scenarioFixture(t)

	p := f.params
	p.Destination = evmChainName // no edge back into the origin chain
	_, err := f.core.GetTransferRemoteTxs(context.Background(), p, nil)
	require.ErrorIs(t, err, ErrNoConnection)
}

func TestMaxTransferAmount(t *testing.T) {
	native := Token{ChainName: evmChainName, Standard: StandardNative, Decimals: 18, Symbol: "ETH"}
	other := Token{ChainName: evmChainName, Standard: StandardCollateral, Decimals: 6, Symbol: "USDC", AddressOrDenom: syntheticAddr}

	balance := NewTokenAmount(native, sdkmath.NewInt(1000))

	// fees in the balance token reduce the maximum
	max := MaxTransferAmount(balance,
		NewTokenAmount(native, sdkmath.NewInt(300)),
		NewTokenAmount(native, sdkmath.NewInt(200)),
	)
	require.Equal(t, int64(500), max.Amount.Int64())

	// fees in unrelated tokens leave the balance untouched
	max = MaxTransferAmount(balance,
		NewTokenAmount(other, sdkmath.NewInt(999999)),
		NewTokenAmount(other, sdkmath.NewInt(999999)),
	)
	require.Equal(t, int64(1000), max.Amount.Int64())

	// never negative
	max = MaxTransferAmount(balance,
		NewTokenAmount(native, sdkmath.NewInt(900)),
		NewTokenAmount(native, sdkmath.NewInt(900)),
	)
	require.True(t, max.Amount.IsZero())
}

func TestGetMaxTransferAmount(t *testing.T) {
	f := scenarioFixture(t)

	max, err := f.core.GetMaxTransferAmount(context.Background(), f.params)
	require.NoError(t, err)
	expected := sdkmath.NewIntWithDecimal(10, 18).SubRaw(220000)
	require.True(t, max.Amount.Equal(expected))
}
