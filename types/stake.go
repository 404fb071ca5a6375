package types

import "encoding/json"

// StakeAccountSample is one sampled stake account. Parsed carries the
// jsonParsed info blob verbatim when the RPC node could decode the account,
// nil otherwise.
type StakeAccountSample struct {
	Pubkey  string          `json:"pubkey"`
	Balance float64         `json:"balance"` // SOL
	Parsed  json.RawMessage `json:"parsed,omitempty"`
}

type StakeAccountSamples []*StakeAccountSample

// StakeDistribution buckets the sampled accounts by balance. Categories,
// Counts and Amounts are parallel slices; all three are empty when no
// accounts were sampled. The bucket sums reproduce the input: the counts add
// up to TotalAccounts and the amounts to TotalStake.
type StakeDistribution struct {
	Categories    []string  `json:"categories"`
	Counts        []uint64  `json:"counts"`
	Amounts       []float64 `json:"amounts"`
	TotalStake    float64   `json:"totalStake"`
	TotalAccounts uint64    `json:"totalAccounts"`
}
