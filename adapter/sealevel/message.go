// Package sealevel implements the message capability for account-model
// ledger chains: program-log extraction and processed-record polling.
package sealevel

import (
	"context"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"go.uber.org/zap"

	"github.com/interchainlabs/warpcore/adapter"
	"github.com/interchainlabs/warpcore/provider"
)

// The mailbox program logs one fixed-format line per dispatched message.
var dispatchLogPattern = regexp.MustCompile(`Dispatched message to (\S+), ID (\S+)`)

// MessageAdapter reads mailbox program state on one ledger chain.
type MessageAdapter struct {
	reader provider.LedgerReader
	logger *zap.Logger
}

var _ adapter.MessageAdapter = (*MessageAdapter)(nil)

func NewMessageAdapter(reader provider.LedgerReader, logger *zap.Logger) *MessageAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageAdapter{reader: reader, logger: logger}
}

// ExtractMessageIDs matches the dispatch log line against every program log
// in the receipt. Lines that do not match are ignored; a matching line always
// yields a complete record.
func (a *MessageAdapter) ExtractMessageIDs(receipt *adapter.Receipt) []adapter.DispatchedMessage {
	if receipt == nil {
		return nil
	}

	var out []adapter.DispatchedMessage
	for _, line := range receipt.LogMessages {
		m := dispatchLogPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out = append(out, adapter.DispatchedMessage{
			MessageID:   strings.Trim(m[2], `"`),
			Destination: m[1],
		})
	}
	return out
}

// WaitForMessageProcessed polls for the existence of the derived
// processed-message account.
func (a *MessageAdapter) WaitForMessageProcessed(ctx context.Context, messageID string, opts adapter.PollOptions) error {
	address, err := a.reader.DeriveAddress(processedMessageSeeds(messageID))
	if err != nil {
		return fmt.Errorf("deriving processed-message account for %s: %w", messageID, err)
	}

	a.logger.Debug("waiting for message delivery",
		zap.String("message_id", messageID),
		zap.String("account", address),
	)
	return adapter.PollDelivery(ctx, opts, func(ctx context.Context) (bool, error) {
		exists, err := a.reader.AccountExists(ctx, address)
		if err != nil {
			return false, fmt.Errorf("checking account %s: %w", address, err)
		}
		return exists, nil
	})
}

// processedMessageSeeds is the derivation path of the mailbox's
// processed-message marker account.
func processedMessageSeeds(messageID string) [][]byte {
	return [][]byte{
		[]byte("hyperlane"),
		[]byte("-"),
		[]byte("processed_message"),
		[]byte("-"),
		messageIDBytes(messageID),
	}
}

// messageIDBytes normalizes a message id into raw bytes. Ids arrive either
// hex-encoded (when produced by contract chains) or base58-encoded (when
// produced locally).
func messageIDBytes(messageID string) []byte {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(messageID, "0x"), "0X")
	if b, err := hex.DecodeString(trimmed); err == nil && len(b) > 0 {
		return b
	}
	if b := base58.Decode(messageID); len(b) > 0 {
		return b
	}
	return []byte(messageID)
}
