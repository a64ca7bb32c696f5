package adapter

// TxCategory tags what a sequenced transaction does.
type TxCategory string

const (
	TxCategoryApproval TxCategory = "approval"
	TxCategoryTransfer TxCategory = "transfer"
)

// TxKind tags the underlying chain's transaction representation so a generic
// caller can route the request to the correct signer and submitter.
type TxKind string

const (
	TxKindEVM      TxKind = "evm"
	TxKindCosmos   TxKind = "cosmos"
	TxKindSealevel TxKind = "sealevel"
)

// TxRequest is an unsigned, protocol-specific transaction payload produced by
// a TokenAdapter.
type TxRequest interface {
	Kind() TxKind
}

// Tx is one step of a sequenced transfer.
type Tx struct {
	Category TxCategory
	Kind     TxKind
	Request  TxRequest
}
