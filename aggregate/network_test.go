package aggregate

import (
	"fmt"
	"math"
	"testing"
	"time"

	"dashboard/rpc"
	"dashboard/types"
	"dashboard/utils"
)

func TestBuildNetworkSnapshotEpochDerivations(t *testing.T) {
	snap := BuildNetworkSnapshot(NetworkInputs{
		EpochInfo: &rpc.EpochInfo{
			Epoch:        700,
			SlotIndex:    216000,
			SlotsInEpoch: 432000,
		},
		Now: time.Unix(1756100000, 0),
	})

	if snap.Epoch.Current != 700 {
		t.Errorf("epoch = %d, want 700", snap.Epoch.Current)
	}
	if math.Abs(snap.Epoch.Progress-50) > utils.EPSILON {
		t.Errorf("progress = %v, want 50", snap.Epoch.Progress)
	}
	// 216000 slots x 0.4s = 24h remaining
	if math.Abs(snap.Epoch.HoursRemaining-24) > utils.EPSILON {
		t.Errorf("hours remaining = %v, want 24", snap.Epoch.HoursRemaining)
	}
}

func TestBuildNetworkSnapshotZeroSlotsInEpoch(t *testing.T) {
	snap := BuildNetworkSnapshot(NetworkInputs{
		EpochInfo: &rpc.EpochInfo{Epoch: 1},
		Now:       time.Unix(1756100000, 0),
	})
	if snap.Epoch.Progress != 0 {
		t.Errorf("progress = %v, want 0 when slotsInEpoch is 0", snap.Epoch.Progress)
	}
}

func TestBuildNetworkSnapshotSupplyAndStakingRatio(t *testing.T) {
	validators := types.ValidatorRecords{
		{ActivatedStake: 100, Status: types.StatusActive},
		{ActivatedStake: 100, Status: types.StatusDelinquent},
	}
	snap := BuildNetworkSnapshot(NetworkInputs{
		Supply: &rpc.Supply{Value: rpc.SupplyValue{
			Total:       1000e9,
			Circulating: 400e9,
		}},
		Validators: validators,
		Now:        time.Unix(1756100000, 0),
	})

	if math.Abs(snap.Supply.Total-1000) > utils.EPSILON {
		t.Errorf("total supply = %v, want 1000", snap.Supply.Total)
	}
	if math.Abs(snap.Supply.Staked-200) > utils.EPSILON {
		t.Errorf("staked supply = %v, want 200", snap.Supply.Staked)
	}
	// 200 staked of 400 circulating
	if math.Abs(snap.Supply.StakingRatio-50) > utils.EPSILON {
		t.Errorf("staking ratio = %v, want 50", snap.Supply.StakingRatio)
	}
	if snap.Validators.Active != 1 || snap.Validators.Delinquent != 1 {
		t.Errorf("validator counts = %d/%d, want 1/1", snap.Validators.Active, snap.Validators.Delinquent)
	}
}

func TestStakingRatioZeroCirculating(t *testing.T) {
	snap := BuildNetworkSnapshot(NetworkInputs{
		Validators: types.ValidatorRecords{{ActivatedStake: 100}},
		Now:        time.Unix(1756100000, 0),
	})
	if snap.Supply.StakingRatio != 0 {
		t.Errorf("staking ratio = %v, want 0 when circulating supply is 0", snap.Supply.StakingRatio)
	}
}

func TestInflationConvertedToPercent(t *testing.T) {
	snap := BuildNetworkSnapshot(NetworkInputs{
		Inflation: &rpc.InflationRate{Total: 0.08, Validator: 0.075, Foundation: 0.005},
		Now:       time.Unix(1756100000, 0),
	})
	if math.Abs(snap.Inflation.Total-8.0) > utils.EPSILON ||
		math.Abs(snap.Inflation.Validator-7.5) > utils.EPSILON ||
		math.Abs(snap.Inflation.Foundation-0.5) > utils.EPSILON {
		t.Errorf("inflation = %+v, want 8/7.5/0.5 percent", snap.Inflation)
	}
}

func TestConcentrationMonotonicity(t *testing.T) {
	// 60 validators with strictly decreasing stakes
	validators := make(types.ValidatorRecords, 0, 60)
	for i := 0; i < 60; i++ {
		validators = append(validators, &types.ValidatorRecord{
			VotePubkey:     fmt.Sprintf("v%d", i),
			ActivatedStake: float64(1000 - i*10),
			Status:         types.StatusActive,
		})
	}

	snap := BuildNetworkSnapshot(NetworkInputs{
		Validators: validators,
		Now:        time.Unix(1756100000, 0),
	})

	c := snap.Concentration
	if !(c.Top10 <= c.Top20+utils.EPSILON && c.Top20 <= c.Top50+utils.EPSILON && c.Top50 <= 100+utils.EPSILON) {
		t.Fatalf("concentration not monotone: top10=%v top20=%v top50=%v", c.Top10, c.Top20, c.Top50)
	}
	if c.Top10 <= 0 {
		t.Fatalf("top10 = %v, want > 0 for a non-empty validator set", c.Top10)
	}
}

func TestConcentrationFewerValidatorsThanBucket(t *testing.T) {
	validators := types.ValidatorRecords{
		{ActivatedStake: 60}, {ActivatedStake: 40},
	}
	snap := BuildNetworkSnapshot(NetworkInputs{
		Validators: validators,
		Now:        time.Unix(1756100000, 0),
	})
	c := snap.Concentration
	// With 2 validators every top-N bucket covers all stake
	for _, v := range []float64{c.Top10, c.Top20, c.Top50} {
		if math.Abs(v-100) > utils.EPSILON {
			t.Errorf("concentration = %v, want 100", v)
		}
	}
}

func TestConcentrationEmptySet(t *testing.T) {
	snap := BuildNetworkSnapshot(NetworkInputs{Now: time.Unix(1756100000, 0)})
	if snap.Concentration != (types.StakeConcentration{}) {
		t.Errorf("concentration = %+v, want zero for empty validator set", snap.Concentration)
	}
}

func TestNodeVersionCounting(t *testing.T) {
	v1, v2 := "2.0.15", "2.0.16"
	nodes := []rpc.ClusterNode{
		{Pubkey: "a", Version: &v1},
		{Pubkey: "b", Version: &v1},
		{Pubkey: "c", Version: &v2},
		{Pubkey: "d", Version: nil},
	}
	snap := BuildNetworkSnapshot(NetworkInputs{Nodes: nodes, Now: time.Unix(1756100000, 0)})
	if snap.Performance.NodeCount != 4 {
		t.Errorf("node count = %d, want 4", snap.Performance.NodeCount)
	}
	if snap.Performance.NodeVersions != 2 {
		t.Errorf("distinct versions = %d, want 2", snap.Performance.NodeVersions)
	}
}
