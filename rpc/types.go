package rpc

import "encoding/json"

// Typed records for every remote method the dashboard uses. Raw JSON never
// leaves this package as an untyped map: decoding happens here, once, and a
// shape that cannot be decoded is an error at the gateway boundary.

// VoteAccounts is the getVoteAccounts result, already split by the node into
// validators voting within expected bounds and delinquent ones.
type VoteAccounts struct {
	Current    []VoteAccount `json:"current"`
	Delinquent []VoteAccount `json:"delinquent"`
}

type VoteAccount struct {
	VotePubkey     string `json:"votePubkey"`
	NodePubkey     string `json:"nodePubkey"`
	ActivatedStake uint64 `json:"activatedStake"` // lamports
	Commission     int64  `json:"commission"`
	LastVote       uint64 `json:"lastVote"`
	RootSlot       uint64 `json:"rootSlot"`
	// Each entry is [epoch, credits, previousCredits]
	EpochCredits [][3]int64 `json:"epochCredits"`
}

type EpochInfo struct {
	Epoch        uint64 `json:"epoch"`
	SlotIndex    uint64 `json:"slotIndex"`
	SlotsInEpoch uint64 `json:"slotsInEpoch"`
	AbsoluteSlot uint64 `json:"absoluteSlot"`
	BlockHeight  uint64 `json:"blockHeight"`
}

// InflationRate rates are fractions as reported by the node (0.08 = 8%).
type InflationRate struct {
	Total      float64 `json:"total"`
	Validator  float64 `json:"validator"`
	Foundation float64 `json:"foundation"`
	Epoch      uint64  `json:"epoch"`
}

type Supply struct {
	Value SupplyValue `json:"value"`
}

type SupplyValue struct {
	Total          uint64 `json:"total"`          // lamports
	Circulating    uint64 `json:"circulating"`    // lamports
	NonCirculating uint64 `json:"nonCirculating"` // lamports
}

type ClusterNode struct {
	Pubkey  string  `json:"pubkey"`
	Gossip  string  `json:"gossip"`
	Version *string `json:"version"`
}

// StakeAccount is one getProgramAccounts row for the stake program with
// jsonParsed encoding.
type StakeAccount struct {
	Pubkey  string             `json:"pubkey"`
	Account StakeAccountDetail `json:"account"`
}

type StakeAccountDetail struct {
	Lamports uint64 `json:"lamports"`
	Owner    string `json:"owner"`
	// Data is left raw: when the node can parse the account it is an object
	// with a "parsed" field, otherwise a [base64, encoding] pair.
	Data json.RawMessage `json:"data"`
}

// ParsedInfo extracts the jsonParsed info blob from the account data, nil if
// the node returned the account unparsed.
func (d StakeAccountDetail) ParsedInfo() json.RawMessage {
	var wrapper struct {
		Parsed struct {
			Info json.RawMessage `json:"info"`
		} `json:"parsed"`
	}
	if err := json.Unmarshal(d.Data, &wrapper); err != nil {
		return nil
	}
	if len(wrapper.Parsed.Info) == 0 {
		return nil
	}
	return wrapper.Parsed.Info
}
