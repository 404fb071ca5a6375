package aggregate

import (
	"sort"

	"github.com/gagliardetto/solana-go"

	"dashboard/rpc"
	"dashboard/types"
	"dashboard/utils"
)

// LamportsToSol converts base units to SOL for display.
func LamportsToSol(lamports uint64) float64 {
	return float64(lamports) / float64(solana.LAMPORTS_PER_SOL)
}

// BuildValidatorRecords merges the current and delinquent vote-account lists
// into display records: stake in SOL, stake share of the whole set, epoch
// credits, dense rank by stake and a commission-adjusted yield estimate.
// inflationTotalPct is the network's total inflation rate in percent.
//
// The returned slice keeps the RPC order (current first, then delinquent);
// only the Rank field reflects stake ordering.
func BuildValidatorRecords(va *rpc.VoteAccounts, inflationTotalPct float64) types.ValidatorRecords {
	if va == nil {
		return types.ValidatorRecords{}
	}

	records := make(types.ValidatorRecords, 0, len(va.Current)+len(va.Delinquent))
	appendRecords := func(accounts []rpc.VoteAccount, status string) {
		for _, a := range accounts {
			records = append(records, &types.ValidatorRecord{
				NodePubkey:     a.NodePubkey,
				VotePubkey:     a.VotePubkey,
				ActivatedStake: LamportsToSol(a.ActivatedStake),
				Commission:     a.Commission,
				LastVote:       a.LastVote,
				RootSlot:       a.RootSlot,
				Credits:        epochCreditsDelta(a.EpochCredits),
				Status:         status,
			})
		}
	}
	appendRecords(va.Current, types.StatusActive)
	appendRecords(va.Delinquent, types.StatusDelinquent)

	var total float64
	for _, r := range records {
		total += r.ActivatedStake
	}

	for _, r := range records {
		if total > 0 {
			r.StakePercentage = r.ActivatedStake / total * 100
		}
		r.EstimatedAPY = EstimatedYield(inflationTotalPct, r.Commission)
	}

	assignRanks(records)
	return records
}

// EstimatedYield is the simplified staking yield model shown in the validator
// table: the total inflation rate minus the validator's commission cut,
// rounded to 2 decimals.
func EstimatedYield(inflationTotalPct float64, commission int64) float64 {
	return utils.FloatRound(inflationTotalPct*(1-float64(commission)/100), 2)
}

// epochCreditsDelta derives the performance figure from the newest
// epochCredits entry as the difference of its first two counters. This is the
// historical dashboard behavior and is kept as-is; see the companion test for
// the exact expectation.
func epochCreditsDelta(entries [][3]int64) int64 {
	if len(entries) == 0 {
		return 0
	}
	last := entries[len(entries)-1]
	return last[1] - last[0]
}

// assignRanks sets a dense descending rank: the largest stake ranks 1, equal
// stakes share a rank, and no rank number is skipped.
func assignRanks(records types.ValidatorRecords) {
	byStake := make(types.ValidatorRecords, len(records))
	copy(byStake, records)
	sort.SliceStable(byStake, func(i, j int) bool {
		return byStake[i].ActivatedStake > byStake[j].ActivatedStake
	})

	var rank int64
	prev := -1.0
	for _, r := range byStake {
		if r.ActivatedStake != prev {
			rank++
			prev = r.ActivatedStake
		}
		r.Rank = rank
	}
}
