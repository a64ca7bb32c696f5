package chain

import "fmt"

// Protocol identifies the execution model family of a chain. The set is
// closed: routing a token or message to a chain whose protocol is not listed
// here is a compile-time concern, not a runtime lookup miss.
type Protocol string

const (
	// ProtocolEthereum covers account/contract chains with EVM-style
	// transactions and hex addresses.
	ProtocolEthereum Protocol = "ethereum"
	// ProtocolCosmosNative covers module-based chains with bech32 addresses
	// and ABCI events.
	ProtocolCosmosNative Protocol = "cosmosnative"
	// ProtocolSealevel covers account-model ledger chains with base58
	// addresses and program-derived accounts.
	ProtocolSealevel Protocol = "sealevel"
)

func (p Protocol) Valid() bool {
	switch p {
	case ProtocolEthereum, ProtocolCosmosNative, ProtocolSealevel:
		return true
	}
	return false
}

// Metadata contains the static per-chain information the engine consumes.
// It is loaded by external registry tooling and read-only afterwards.
type Metadata struct {
	Name        string   `json:"name" yaml:"name"`
	DomainID    uint32   `json:"domainId" yaml:"domainId"`
	Protocol    Protocol `json:"protocol" yaml:"protocol"`
	DisplayName string   `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	IsTestnet   bool     `json:"isTestnet,omitempty" yaml:"isTestnet,omitempty"`

	NativeToken NativeToken  `json:"nativeToken" yaml:"nativeToken"`
	Blocks      *BlockConfig `json:"blocks,omitempty" yaml:"blocks,omitempty"`
	GasPrice    *GasPrice    `json:"gasPrice,omitempty" yaml:"gasPrice,omitempty"`

	// Cosmos-specific fields
	Bech32Prefix         string `json:"bech32Prefix,omitempty" yaml:"bech32Prefix,omitempty"`
	CanonicalAsset       string `json:"canonicalAsset,omitempty" yaml:"canonicalAsset,omitempty"`
	ContractAddressBytes int    `json:"contractAddressBytes,omitempty" yaml:"contractAddressBytes,omitempty"`
	Slip44               int    `json:"slip44,omitempty" yaml:"slip44,omitempty"`

	CoreContracts *CoreContracts `json:"coreContracts,omitempty" yaml:"coreContracts,omitempty"`
}

// NativeToken describes the chain's gas token.
type NativeToken struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
	Denom    string `json:"denom,omitempty" yaml:"denom,omitempty"`
}

// BlockConfig carries finality parameters.
type BlockConfig struct {
	Confirmations     int `json:"confirmations" yaml:"confirmations"`
	EstimateBlockTime int `json:"estimateBlockTime" yaml:"estimateBlockTime"`
	ReorgPeriod       int `json:"reorgPeriod" yaml:"reorgPeriod"`
}

type GasPrice struct {
	Denom  string `json:"denom" yaml:"denom"`
	Amount string `json:"amount" yaml:"amount"`
}

// CoreContracts holds the addresses of the chain's message-passing entry
// points, as recorded in the deployment registry.
type CoreContracts struct {
	Mailbox                string `json:"mailbox" yaml:"mailbox"`
	InterchainGasPaymaster string `json:"interchainGasPaymaster,omitempty" yaml:"interchainGasPaymaster,omitempty"`
	MerkleTreeHook         string `json:"merkleTreeHook,omitempty" yaml:"merkleTreeHook,omitempty"`
	ValidatorAnnounce      string `json:"validatorAnnounce,omitempty" yaml:"validatorAnnounce,omitempty"`
}

// Validate checks the fields the engine depends on.
func (m Metadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("chain metadata missing name")
	}
	if !m.Protocol.Valid() {
		return fmt.Errorf("chain %s: unknown protocol %q", m.Name, m.Protocol)
	}
	if m.Protocol == ProtocolCosmosNative && m.Bech32Prefix == "" {
		return fmt.Errorf("chain %s: cosmosnative chains require a bech32 prefix", m.Name)
	}
	return nil
}

// NativeDenom returns the identifier of the chain's implicit native token.
// Contract chains address their native token by the empty string.
func (m Metadata) NativeDenom() string {
	return m.NativeToken.Denom
}
