// Package track correlates message dispatch on a source chain with delivery
// on a destination chain. It owns the protocol-to-adapter factory and the
// all-or-nothing multi-message wait.
package track

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/interchainlabs/warpcore/adapter"
	"github.com/interchainlabs/warpcore/adapter/cosmos"
	"github.com/interchainlabs/warpcore/adapter/evm"
	"github.com/interchainlabs/warpcore/adapter/sealevel"
	"github.com/interchainlabs/warpcore/chain"
	"github.com/interchainlabs/warpcore/provider"
)

// TrackerConfig wires a Tracker.
type TrackerConfig struct {
	Chains   *chain.Registry
	Provider provider.Provider
	Logger   *zap.Logger
}

// Tracker resolves message adapters per chain and awaits deliveries.
type Tracker struct {
	chains   *chain.Registry
	provider provider.Provider
	logger   *zap.Logger
}

func NewTracker(cfg TrackerConfig) (*Tracker, error) {
	if cfg.Chains == nil {
		return nil, fmt.Errorf("chain registry is required")
	}
	if cfg.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Tracker{
		chains:   cfg.Chains,
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}, nil
}

// MessageAdapter constructs the message adapter for a chain. The protocol
// switch is exhaustive over chain.Protocol; an unlisted protocol cannot be
// routed.
func (t *Tracker) MessageAdapter(chainName string) (adapter.MessageAdapter, error) {
	meta, ok := t.chains.Get(chainName)
	if !ok {
		return nil, fmt.Errorf("unknown chain %s", chainName)
	}

	logger := t.logger.With(zap.String("chain", chainName))
	switch meta.Protocol {
	case chain.ProtocolEthereum:
		if meta.CoreContracts == nil || meta.CoreContracts.Mailbox == "" {
			return nil, fmt.Errorf("chain %s has no mailbox address", chainName)
		}
		caller, err := t.provider.EVMCaller(chainName)
		if err != nil {
			return nil, fmt.Errorf("getting caller for %s: %w", chainName, err)
		}
		return evm.NewMessageAdapter(meta.CoreContracts.Mailbox, caller, logger)
	case chain.ProtocolCosmosNative:
		searcher, err := t.provider.TxSearcher(chainName)
		if err != nil {
			return nil, fmt.Errorf("getting tx searcher for %s: %w", chainName, err)
		}
		return cosmos.NewMessageAdapter(searcher, logger), nil
	case chain.ProtocolSealevel:
		reader, err := t.provider.LedgerReader(chainName)
		if err != nil {
			return nil, fmt.Errorf("getting ledger reader for %s: %w", chainName, err)
		}
		return sealevel.NewMessageAdapter(reader, logger), nil
	default:
		return nil, fmt.Errorf("chain %s: unknown protocol %q", chainName, meta.Protocol)
	}
}

// WaitForMessagesProcessed extracts every message dispatched by the source
// receipt and awaits delivery confirmation for all of them concurrently. Any
// single non-delivery fails the whole wait. A receipt from which no messages
// can be extracted is an error, never a vacuous success.
func (t *Tracker) WaitForMessagesProcessed(ctx context.Context, origin, destination string, receipt *adapter.Receipt, opts adapter.PollOptions) error {
	originAdapter, err := t.MessageAdapter(origin)
	if err != nil {
		return err
	}
	destAdapter, err := t.MessageAdapter(destination)
	if err != nil {
		return err
	}

	messages := originAdapter.ExtractMessageIDs(receipt)
	if len(messages) == 0 {
		return fmt.Errorf("no dispatched messages found in receipt %s", receipt.TxHash)
	}

	t.logger.Info("awaiting message deliveries",
		zap.String("origin", origin),
		zap.String("destination", destination),
		zap.Int("messages", len(messages)),
	)

	eg, egCtx := errgroup.WithContext(ctx)
	for _, msg := range messages {
		eg.Go(func() error {
			if err := destAdapter.WaitForMessageProcessed(egCtx, msg.MessageID, opts); err != nil {
				return fmt.Errorf("message %s to %s: %w", msg.MessageID, destination, err)
			}
			t.logger.Debug("message delivered", zap.String("message_id", msg.MessageID))
			return nil
		})
	}
	return eg.Wait()
}
