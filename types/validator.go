package types

// Validator status values as shown on the dashboard
const (
	StatusActive     = "Active"
	StatusDelinquent = "Delinquent"
)

// ValidatorRecord is one row of the validator table, rebuilt in full on every
// refresh cycle. Stake amounts are in SOL, not lamports.
type ValidatorRecord struct {
	NodePubkey      string  `ch:"nodePubkey" json:"nodePubkey"`
	VotePubkey      string  `ch:"votePubkey" json:"votePubkey"`
	ActivatedStake  float64 `ch:"activatedStake" json:"activatedStake"`
	StakePercentage float64 `ch:"stakePercentage" json:"stakePercentage"`
	Commission      int64   `ch:"commission" json:"commission"`
	LastVote        uint64  `ch:"lastVote" json:"lastVote"`
	RootSlot        uint64  `ch:"rootSlot" json:"rootSlot"`
	// Credits is the difference of the first two counters in the newest
	// epochCredits entry reported for the vote account (0 when the account
	// has no entries).
	Credits int64  `ch:"credits" json:"credits"`
	Status  string `ch:"status" json:"status"`
	// Rank is dense: the largest stake ranks 1, equal stakes share a rank,
	// and no rank number is skipped.
	Rank int64 `ch:"rank" json:"rank"`
	// EstimatedAPY = total inflation (percent) x (1 - commission/100),
	// rounded to 2 decimals.
	EstimatedAPY float64 `ch:"estimatedApy" json:"estimatedAPY"`
}

type ValidatorRecords []*ValidatorRecord
