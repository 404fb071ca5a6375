package aggregate

import (
	"dashboard/rpc"
	"dashboard/types"
)

// Fixed balance buckets (in SOL) for the stake distribution chart. A balance
// falls into the last bucket whose lower bound it reaches.
var (
	bucketLabels = []string{"0-100", "100-1K", "1K-10K", "10K-100K", "100K+"}
	bucketLower  = []float64{0, 100, 1000, 10000, 100000}
)

// BuildStakeSamples converts raw stake program accounts into display samples,
// carrying the parsed metadata blob through when the node provided one.
func BuildStakeSamples(accounts []rpc.StakeAccount) types.StakeAccountSamples {
	samples := make(types.StakeAccountSamples, 0, len(accounts))
	for _, a := range accounts {
		samples = append(samples, &types.StakeAccountSample{
			Pubkey:  a.Pubkey,
			Balance: LamportsToSol(a.Account.Lamports),
			Parsed:  a.Account.ParsedInfo(),
		})
	}
	return samples
}

// BuildStakeDistribution buckets the samples by balance. An empty sample set
// yields an all-zero distribution with empty slices, never an error, so the
// rest of the dashboard still renders when the stake scan came back empty.
func BuildStakeDistribution(samples types.StakeAccountSamples) *types.StakeDistribution {
	dist := &types.StakeDistribution{
		Categories: []string{},
		Counts:     []uint64{},
		Amounts:    []float64{},
	}
	if len(samples) == 0 {
		return dist
	}

	counts := make([]uint64, len(bucketLabels))
	amounts := make([]float64, len(bucketLabels))
	for _, s := range samples {
		i := bucketIndex(s.Balance)
		counts[i]++
		amounts[i] += s.Balance
		dist.TotalStake += s.Balance
	}

	dist.Categories = append(dist.Categories, bucketLabels...)
	dist.Counts = counts
	dist.Amounts = amounts
	dist.TotalAccounts = uint64(len(samples))
	return dist
}

func bucketIndex(balance float64) int {
	for i := len(bucketLower) - 1; i > 0; i-- {
		if balance >= bucketLower[i] {
			return i
		}
	}
	return 0
}
