package chain

import (
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	gethcommon "github.com/ethereum/go-ethereum/common"
)

const sealevelAddressBytes = 32

// ValidateRecipient checks that addr is a well-formed, non-burn recipient
// address under this chain's address rules.
func (m Metadata) ValidateRecipient(addr string) error {
	switch m.Protocol {
	case ProtocolEthereum:
		if !gethcommon.IsHexAddress(addr) {
			return fmt.Errorf("invalid %s address %q", m.Name, addr)
		}
		if gethcommon.HexToAddress(addr) == (gethcommon.Address{}) {
			return fmt.Errorf("recipient is the zero address")
		}
	case ProtocolCosmosNative:
		prefix, _, err := bech32.DecodeAndConvert(addr)
		if err != nil {
			return fmt.Errorf("invalid %s address %q: %w", m.Name, addr, err)
		}
		if prefix != m.Bech32Prefix {
			return fmt.Errorf("address prefix %q does not match chain prefix %q", prefix, m.Bech32Prefix)
		}
	case ProtocolSealevel:
		decoded := base58.Decode(addr)
		if len(decoded) != sealevelAddressBytes {
			return fmt.Errorf("invalid %s address %q", m.Name, addr)
		}
	default:
		return fmt.Errorf("chain %s: unknown protocol %q", m.Name, m.Protocol)
	}
	return nil
}
