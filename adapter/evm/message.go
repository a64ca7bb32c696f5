// Package evm implements the message capability for contract chains: mailbox
// dispatch-log extraction and delivered-flag polling.
package evm

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	gethcommon "github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/interchainlabs/warpcore/adapter"
	"github.com/interchainlabs/warpcore/provider"
)

// Mailbox event signatures:
//
//	Dispatch(address indexed sender, uint32 indexed destination, bytes32 indexed recipient, bytes message)
//	DispatchId(bytes32 indexed messageId)
var (
	dispatchTopic   = crypto.Keccak256Hash([]byte("Dispatch(address,uint32,bytes32,bytes)"))
	dispatchIDTopic = crypto.Keccak256Hash([]byte("DispatchId(bytes32)"))
)

var mailboxABI abi.ABI

func init() {
	a, err := abi.JSON(strings.NewReader(rawMailboxABI))
	if err != nil {
		panic(err)
	}
	mailboxABI = a
}

const rawMailboxABI = `[
  {
    "constant": true,
    "inputs": [
      {
        "name": "messageId",
        "type": "bytes32"
      }
    ],
    "name": "delivered",
    "outputs": [
      {
        "name": "",
        "type": "bool"
      }
    ],
    "type": "function"
  }
]`

// MessageAdapter reads mailbox state on one contract chain.
type MessageAdapter struct {
	mailbox gethcommon.Address
	caller  provider.EVMCaller
	logger  *zap.Logger
}

var _ adapter.MessageAdapter = (*MessageAdapter)(nil)

// NewMessageAdapter binds a message adapter to the chain's mailbox contract.
func NewMessageAdapter(mailbox string, caller provider.EVMCaller, logger *zap.Logger) (*MessageAdapter, error) {
	if !gethcommon.IsHexAddress(mailbox) {
		return nil, fmt.Errorf("invalid mailbox address %q", mailbox)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageAdapter{
		mailbox: gethcommon.HexToAddress(mailbox),
		caller:  caller,
		logger:  logger,
	}, nil
}

// ExtractMessageIDs pairs each DispatchId log with the Dispatch log emitted
// just before it to recover the destination domain. A single transaction may
// dispatch several messages; every pair is returned.
func (a *MessageAdapter) ExtractMessageIDs(receipt *adapter.Receipt) []adapter.DispatchedMessage {
	if receipt == nil {
		return nil
	}

	var pendingDestinations []string
	var out []adapter.DispatchedMessage
	for _, lg := range receipt.Logs {
		if len(lg.Topics) == 0 {
			continue
		}
		switch gethcommon.HexToHash(lg.Topics[0]) {
		case dispatchTopic:
			if len(lg.Topics) < 3 {
				continue
			}
			domain := new(big.Int).SetBytes(gethcommon.HexToHash(lg.Topics[2]).Bytes())
			pendingDestinations = append(pendingDestinations, strconv.FormatUint(domain.Uint64(), 10))
		case dispatchIDTopic:
			if len(lg.Topics) < 2 {
				continue
			}
			// an id without a preceding Dispatch log has no destination;
			// skip it rather than emit a partial record
			if len(pendingDestinations) == 0 {
				continue
			}
			destination := pendingDestinations[0]
			pendingDestinations = pendingDestinations[1:]
			out = append(out, adapter.DispatchedMessage{
				MessageID:   gethcommon.HexToHash(lg.Topics[1]).Hex(),
				Destination: destination,
			})
		}
	}
	return out
}

// WaitForMessageProcessed polls the mailbox delivered flag.
func (a *MessageAdapter) WaitForMessageProcessed(ctx context.Context, messageID string, opts adapter.PollOptions) error {
	a.logger.Debug("waiting for message delivery",
		zap.String("message_id", messageID),
		zap.String("mailbox", a.mailbox.Hex()),
	)
	return adapter.PollDelivery(ctx, opts, func(ctx context.Context) (bool, error) {
		return a.delivered(ctx, messageID)
	})
}

func (a *MessageAdapter) delivered(ctx context.Context, messageID string) (bool, error) {
	data, err := mailboxABI.Pack("delivered", gethcommon.HexToHash(messageID))
	if err != nil {
		return false, fmt.Errorf("packing delivered call: %w", err)
	}

	msg := ethereum.CallMsg{
		To:   &a.mailbox,
		Data: data,
	}
	result, err := a.caller.CallContract(ctx, msg, nil)
	if err != nil {
		return false, fmt.Errorf("querying mailbox %s: %w", a.mailbox.Hex(), err)
	}

	var delivered bool
	if err := mailboxABI.UnpackIntoInterface(&delivered, "delivered", result); err != nil {
		return false, fmt.Errorf("unpacking delivered result: %w", err)
	}
	return delivered, nil
}

// ReceiptFromGeth converts a contract-chain receipt into the neutral form the
// adapter reads.
func ReceiptFromGeth(r *gethtypes.Receipt) *adapter.Receipt {
	if r == nil {
		return nil
	}
	out := &adapter.Receipt{TxHash: r.TxHash.Hex()}
	for _, lg := range r.Logs {
		topics := make([]string, len(lg.Topics))
		for i, topic := range lg.Topics {
			topics[i] = topic.Hex()
		}
		out.Logs = append(out.Logs, adapter.Log{
			Address: lg.Address.Hex(),
			Topics:  topics,
			Data:    lg.Data,
		})
	}
	return out
}
