// Package cosmos implements the message capability for module-based chains:
// typed-event extraction and delivery confirmation via event-indexed
// transaction search.
package cosmos

import (
	"context"
	"fmt"
	"strings"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	"go.uber.org/zap"

	"github.com/interchainlabs/warpcore/adapter"
	"github.com/interchainlabs/warpcore/provider"
)

const (
	eventDispatch = "hyperlane.core.v1.EventDispatch"
	eventProcess  = "hyperlane.core.v1.EventProcess"

	attrMessageID   = "message_id"
	attrDestination = "destination"
)

// MessageAdapter reads dispatch and process events on one module-based chain.
type MessageAdapter struct {
	searcher provider.TxSearcher
	logger   *zap.Logger
}

var _ adapter.MessageAdapter = (*MessageAdapter)(nil)

func NewMessageAdapter(searcher provider.TxSearcher, logger *zap.Logger) *MessageAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageAdapter{searcher: searcher, logger: logger}
}

// ExtractMessageIDs reads every dispatch event from the receipt. Events with
// a missing id or destination are skipped whole.
func (a *MessageAdapter) ExtractMessageIDs(receipt *adapter.Receipt) []adapter.DispatchedMessage {
	if receipt == nil {
		return nil
	}

	var out []adapter.DispatchedMessage
	for _, ev := range receipt.Events {
		if ev.Type != eventDispatch {
			continue
		}
		id := unquote(ev.Attributes[attrMessageID])
		destination := unquote(ev.Attributes[attrDestination])
		if id == "" || destination == "" {
			continue
		}
		out = append(out, adapter.DispatchedMessage{
			MessageID:   id,
			Destination: destination,
		})
	}
	return out
}

// WaitForMessageProcessed polls the chain's tx index for the process event
// carrying the message id.
func (a *MessageAdapter) WaitForMessageProcessed(ctx context.Context, messageID string, opts adapter.PollOptions) error {
	a.logger.Debug("waiting for message delivery", zap.String("message_id", messageID))

	query := fmt.Sprintf("%s.%s='%s'", eventProcess, attrMessageID, messageID)
	page, perPage := 1, 1
	return adapter.PollDelivery(ctx, opts, func(ctx context.Context) (bool, error) {
		res, err := a.searcher.TxSearch(ctx, query, false, &page, &perPage, "asc")
		if err != nil {
			return false, fmt.Errorf("searching for process event: %w", err)
		}
		return res.TotalCount > 0, nil
	})
}

// ReceiptFromEvents converts committed ABCI events into the neutral receipt
// form.
func ReceiptFromEvents(txHash string, events []abcitypes.Event) *adapter.Receipt {
	out := &adapter.Receipt{TxHash: txHash}
	for _, ev := range events {
		attrs := make(map[string]string, len(ev.Attributes))
		for _, attr := range ev.Attributes {
			attrs[attr.Key] = attr.Value
		}
		out.Events = append(out.Events, adapter.Event{
			Type:       ev.Type,
			Attributes: attrs,
		})
	}
	return out
}

// unquote strips the JSON-style quoting the event encoder applies to string
// attribute values.
func unquote(v string) string {
	return strings.Trim(v, `"`)
}
