package evm

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	gethcommon "github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/interchainlabs/warpcore/adapter"
)

const testMailbox = "0xfFAEF09B3cd11D9b20d1a19bECca54EEC2884766"

func dispatchLog(destination uint32) adapter.Log {
	return adapter.Log{
		Address: testMailbox,
		Topics: []string{
			dispatchTopic.Hex(),
			gethcommon.HexToHash("0xaF9053bB6c4346381C77C2FeD279B17ABAfCDf4d").Hex(),
			gethcommon.BigToHash(new(big.Int).SetUint64(uint64(destination))).Hex(),
		},
	}
}

func dispatchIDLog(messageID string) adapter.Log {
	return adapter.Log{
		Address: testMailbox,
		Topics:  []string{dispatchIDTopic.Hex(), messageID},
	}
}

func newTestAdapter(t *testing.T, caller *fakeCaller) *MessageAdapter {
	t.Helper()
	a, err := NewMessageAdapter(testMailbox, caller, zaptest.NewLogger(t))
	require.NoError(t, err)
	return a
}

func TestNewMessageAdapterRejectsBadMailbox(t *testing.T) {
	_, err := NewMessageAdapter("not-hex", nil, nil)
	require.ErrorContains(t, err, "invalid mailbox address")
}

func TestExtractMessageIDs(t *testing.T) {
	a := newTestAdapter(t, nil)

	id := gethcommon.HexToHash("0x01").Hex()
	receipt := &adapter.Receipt{
		Logs: []adapter.Log{
			{Address: testMailbox, Topics: []string{gethcommon.HexToHash("0xdead").Hex()}},
			dispatchLog(69420),
			dispatchIDLog(id),
		},
	}

	msgs := a.ExtractMessageIDs(receipt)
	require.Len(t, msgs, 1)
	require.Equal(t, id, msgs[0].MessageID)
	require.Equal(t, "69420", msgs[0].Destination)
}

func TestExtractMessageIDsMultipleDispatches(t *testing.T) {
	a := newTestAdapter(t, nil)

	first := gethcommon.HexToHash("0x01").Hex()
	second := gethcommon.HexToHash("0x02").Hex()
	receipt := &adapter.Receipt{
		Logs: []adapter.Log{
			dispatchLog(1),
			dispatchIDLog(first),
			dispatchLog(2),
			dispatchIDLog(second),
		},
	}

	msgs := a.ExtractMessageIDs(receipt)
	require.Len(t, msgs, 2)
	require.Equal(t, first, msgs[0].MessageID)
	require.Equal(t, "1", msgs[0].Destination)
	require.Equal(t, second, msgs[1].MessageID)
	require.Equal(t, "2", msgs[1].Destination)
}

func TestExtractMessageIDsSkipsUnpairedDispatchID(t *testing.T) {
	a := newTestAdapter(t, nil)

	// an id log with no preceding Dispatch log yields nothing
	receipt := &adapter.Receipt{
		Logs: []adapter.Log{
			dispatchIDLog(gethcommon.HexToHash("0x01").Hex()),
		},
	}
	require.Empty(t, a.ExtractMessageIDs(receipt))

	// a trailing unpaired id does not taint the paired one before it
	id := gethcommon.HexToHash("0x02").Hex()
	receipt = &adapter.Receipt{
		Logs: []adapter.Log{
			dispatchLog(69420),
			dispatchIDLog(id),
			dispatchIDLog(gethcommon.HexToHash("0x03").Hex()),
		},
	}
	msgs := a.ExtractMessageIDs(receipt)
	require.Len(t, msgs, 1)
	require.Equal(t, id, msgs[0].MessageID)
	require.Equal(t, "69420", msgs[0].Destination)
}

func TestExtractMessageIDsEmpty(t *testing.T) {
	a := newTestAdapter(t, nil)
	require.Empty(t, a.ExtractMessageIDs(nil))
	require.Empty(t, a.ExtractMessageIDs(&adapter.Receipt{}))
}

// fakeCaller answers delivered() calls with a scripted sequence.
type fakeCaller struct {
	responses []bool
	calls     int
}

func (c *fakeCaller) CallContract(_ context.Context, _ ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	delivered := c.responses[min(c.calls, len(c.responses)-1)]
	c.calls++
	return mailboxABI.Methods["delivered"].Outputs.Pack(delivered)
}

func TestWaitForMessageProcessed(t *testing.T) {
	caller := &fakeCaller{responses: []bool{false, false, true}}
	a := newTestAdapter(t, caller)

	err := a.WaitForMessageProcessed(context.Background(),
		gethcommon.HexToHash("0x01").Hex(),
		adapter.PollOptions{Interval: 1, MaxAttempts: 10},
	)
	require.NoError(t, err)
	require.Equal(t, 3, caller.calls)
}

func TestWaitForMessageProcessedExhausted(t *testing.T) {
	caller := &fakeCaller{responses: []bool{false}}
	a := newTestAdapter(t, caller)

	err := a.WaitForMessageProcessed(context.Background(),
		gethcommon.HexToHash("0x01").Hex(),
		adapter.PollOptions{Interval: 1, MaxAttempts: 3},
	)
	require.ErrorIs(t, err, adapter.ErrDeliveryExhausted)
}

func TestReceiptFromGeth(t *testing.T) {
	require.Nil(t, ReceiptFromGeth(nil))

	r := &gethtypes.Receipt{
		TxHash: gethcommon.HexToHash("0xabc"),
		Logs: []*gethtypes.Log{
			{
				Address: gethcommon.HexToAddress(testMailbox),
				Topics:  []gethcommon.Hash{dispatchIDTopic, gethcommon.HexToHash("0x01")},
				Data:    []byte{1, 2, 3},
			},
		},
	}

	out := ReceiptFromGeth(r)
	require.Equal(t, r.TxHash.Hex(), out.TxHash)
	require.Len(t, out.Logs, 1)
	require.Equal(t, gethcommon.HexToAddress(testMailbox).Hex(), out.Logs[0].Address)
	require.Equal(t, []string{dispatchIDTopic.Hex(), gethcommon.HexToHash("0x01").Hex()}, out.Logs[0].Topics)
	require.Equal(t, []byte{1, 2, 3}, out.Logs[0].Data)
}
