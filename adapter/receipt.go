package adapter

// Receipt is a protocol-neutral view of a committed transaction, carrying the
// pieces each message adapter knows how to read. Exactly one of the payload
// families is populated per protocol.
type Receipt struct {
	TxHash string

	// Logs are contract-chain event logs.
	Logs []Log
	// Events are module-chain ABCI events.
	Events []Event
	// LogMessages are ledger-chain program log lines.
	LogMessages []string
}

// Log is a contract-chain event log entry.
type Log struct {
	Address string
	Topics  []string
	Data    []byte
}

// Event is a module-chain typed event.
type Event struct {
	Type       string
	Attributes map[string]string
}
