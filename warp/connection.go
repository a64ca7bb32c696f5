package warp

// tokenID indexes a token in the core's arena. Connections store index pairs
// rather than token references so the graph can be rebuilt from config
// without cyclic ownership.
type tokenID int

// Connection is a directed edge from one token to its fungible counterpart on
// another chain. Routes are single-hop by construction: one edge per chain
// pair, installed at load time.
type Connection struct {
	from tokenID
	to   tokenID

	// IBC carries route-specific transport arguments for IbcLinked tokens.
	IBC *IBCArgs
}

// IBCArgs identify the channel an IbcLinked route travels through. Port and
// channel are the identifiers on the declaring token's chain; a transfer in
// the opposite direction needs the counterparty identifiers, which the config
// declares on the other token.
type IBCArgs struct {
	SourcePort    string
	SourceChannel string
}
