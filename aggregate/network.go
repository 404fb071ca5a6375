package aggregate

import (
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"dashboard/config"
	"dashboard/rpc"
	"dashboard/types"
)

// NetworkInputs collects the raw responses a network snapshot is derived
// from. Nil pointers are tolerated and fall back to zero values so a partial
// fetch still yields a renderable snapshot.
type NetworkInputs struct {
	EpochInfo   *rpc.EpochInfo
	Inflation   *rpc.InflationRate
	Supply      *rpc.Supply
	CurrentSlot uint64
	Nodes       []rpc.ClusterNode
	Validators  types.ValidatorRecords
	Now         time.Time
}

// BuildNetworkSnapshot derives the network summary: epoch progress and time
// remaining, inflation in percent, supply and staking ratio, validator counts
// and stake concentration over the already-ranked validator records.
func BuildNetworkSnapshot(in NetworkInputs) *types.NetworkSnapshot {
	snap := &types.NetworkSnapshot{UpdatedAt: in.Now}

	if e := in.EpochInfo; e != nil {
		snap.Epoch.Current = e.Epoch
		snap.Epoch.SlotsInEpoch = e.SlotsInEpoch
		snap.Epoch.SlotIndex = e.SlotIndex
		if e.SlotsInEpoch > 0 {
			snap.Epoch.Progress = float64(e.SlotIndex) / float64(e.SlotsInEpoch) * 100
		}
		if e.SlotsInEpoch >= e.SlotIndex {
			remaining := time.Duration(e.SlotsInEpoch-e.SlotIndex) * config.SLOT_DURATION
			snap.Epoch.HoursRemaining = remaining.Hours()
		}
	}

	if r := in.Inflation; r != nil {
		snap.Inflation.Total = r.Total * 100
		snap.Inflation.Validator = r.Validator * 100
		snap.Inflation.Foundation = r.Foundation * 100
	}

	var staked float64
	for _, v := range in.Validators {
		staked += v.ActivatedStake
		switch v.Status {
		case types.StatusDelinquent:
			snap.Validators.Delinquent++
		default:
			snap.Validators.Active++
		}
	}

	if s := in.Supply; s != nil {
		snap.Supply.Total = LamportsToSol(s.Value.Total)
		snap.Supply.Circulating = LamportsToSol(s.Value.Circulating)
	}
	snap.Supply.Staked = staked
	if snap.Supply.Circulating > 0 {
		snap.Supply.StakingRatio = staked / snap.Supply.Circulating * 100
	}

	snap.Concentration = stakeConcentration(in.Validators, staked)

	snap.Performance.CurrentSlot = in.CurrentSlot
	snap.Performance.NodeCount = uint64(len(in.Nodes))
	snap.Performance.NodeVersions = uint64(nodeVersions(in.Nodes).Cardinality())

	return snap
}

// stakeConcentration computes the share of total stake held by the 10, 20
// and 50 largest validators. The three figures are non-decreasing and capped
// at 100 by construction.
func stakeConcentration(records types.ValidatorRecords, total float64) types.StakeConcentration {
	if total <= 0 || len(records) == 0 {
		return types.StakeConcentration{}
	}

	stakes := make([]float64, len(records))
	for i, r := range records {
		stakes[i] = r.ActivatedStake
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(stakes)))

	topShare := func(n int) float64 {
		if n > len(stakes) {
			n = len(stakes)
		}
		var sum float64
		for _, s := range stakes[:n] {
			sum += s
		}
		return sum / total * 100
	}

	return types.StakeConcentration{
		Top10: topShare(10),
		Top20: topShare(20),
		Top50: topShare(50),
	}
}

func nodeVersions(nodes []rpc.ClusterNode) mapset.Set[string] {
	versions := mapset.NewThreadUnsafeSet[string]()
	for _, n := range nodes {
		if n.Version != nil && *n.Version != "" {
			versions.Add(*n.Version)
		}
	}
	return versions
}
