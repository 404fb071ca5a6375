package types

import "time"

// NetworkSnapshot is the network-wide summary computed once per refresh cycle.
// All supply figures are in SOL; all rates are percentages.
type NetworkSnapshot struct {
	Epoch         EpochStatus        `json:"epoch"`
	Inflation     InflationInfo      `json:"inflation"`
	Supply        SupplyInfo         `json:"supply"`
	Validators    ValidatorCounts    `json:"validators"`
	Concentration StakeConcentration `json:"concentration"`
	Performance   NetworkPerformance `json:"performance"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

type EpochStatus struct {
	Current        uint64  `json:"current"`
	SlotsInEpoch   uint64  `json:"slotsInEpoch"`
	SlotIndex      uint64  `json:"slotIndex"`
	Progress       float64 `json:"progressPercentage"`
	HoursRemaining float64 `json:"hoursRemaining"`
}

type InflationInfo struct {
	Total      float64 `json:"total"`
	Validator  float64 `json:"validator"`
	Foundation float64 `json:"foundation"`
}

type SupplyInfo struct {
	Total       float64 `json:"total"`
	Circulating float64 `json:"circulating"`
	Staked      float64 `json:"staked"`
	// StakingRatio = staked / circulating x 100 (0 when circulating is 0)
	StakingRatio float64 `json:"stakingRatio"`
}

type ValidatorCounts struct {
	Active     uint64 `json:"active"`
	Delinquent uint64 `json:"delinquent"`
}

// StakeConcentration is the share of total stake held by the largest
// validators. Top10 <= Top20 <= Top50 <= 100 always holds.
type StakeConcentration struct {
	Top10 float64 `json:"top10"`
	Top20 float64 `json:"top20"`
	Top50 float64 `json:"top50"`
}

type NetworkPerformance struct {
	CurrentSlot uint64 `json:"currentSlot"`
	NodeCount   uint64 `json:"nodeCount"`
	// Distinct software versions seen across gossip nodes
	NodeVersions uint64 `json:"nodeVersions"`
}
