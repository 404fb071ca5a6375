package poller

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"dashboard/aggregate"
	"dashboard/db"
	"dashboard/logger"
	"dashboard/rpc"
	"dashboard/types"
)

// Gateway is the slice of the RPC client the poller needs; the real
// implementation is *rpc.Client.
type Gateway interface {
	GetVoteAccounts() (*rpc.VoteAccounts, error)
	GetEpochInfo() (*rpc.EpochInfo, error)
	GetInflationRate() (*rpc.InflationRate, error)
	GetSupply() (*rpc.Supply, error)
	GetSlot() (uint64, error)
	GetClusterNodes() ([]rpc.ClusterNode, error)
	GetStakeAccounts(limit int) ([]rpc.StakeAccount, error)
}

// Result is the assembled triple a refresh cycle produces for the
// presentation layer. It is immutable once built; the next cycle replaces it
// wholesale.
type Result struct {
	Validators types.ValidatorRecords   `json:"validators"`
	Network    *types.NetworkSnapshot   `json:"network"`
	Stake      *types.StakeDistribution `json:"stake"`
	FromCache  bool                     `json:"fromCache"`
	UpdatedAt  time.Time                `json:"updatedAt"`
}

// Poller drives one refresh cycle at a time: cache freshness check, RPC
// fetch when stale, aggregation, best-effort write-back. It remembers the
// last good result so a failing endpoint degrades to stale data instead of
// an empty dashboard.
type Poller struct {
	gw    Gateway
	store db.Store
	cfg   Config
	log   *slog.Logger

	mu   sync.RWMutex
	last *Result
}

func New(gw Gateway, store db.Store, cfg Config) *Poller {
	if store == nil {
		store = db.NewNoop()
	}
	return &Poller{gw: gw, store: store, cfg: cfg, log: logger.GlobalLogger}
}

// Last returns the most recent good result, nil before the first successful
// refresh.
func (p *Poller) Last() *Result {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

func (p *Poller) setLast(res *Result) *Result {
	p.mu.Lock()
	p.last = res
	p.mu.Unlock()
	return res
}

// Refresh runs one cycle. On RPC failure it returns the previous good result
// when one exists (the error is logged, not surfaced); with no prior data the
// error propagates to the caller.
func (p *Poller) Refresh() (*Result, error) {
	if res := p.fromCache(); res != nil {
		p.log.Info("Serving refresh from cache", "epoch", res.Network.Epoch.Current)
		return p.setLast(res), nil
	}

	res, err := p.fromRPC()
	if err != nil {
		if last := p.Last(); last != nil {
			p.log.Warn("Refresh failed, keeping last good data", "err", err, "age", time.Since(last.UpdatedAt))
			return last, nil
		}
		return nil, fmt.Errorf("refresh failed with no prior data: %w", err)
	}
	return p.setLast(res), nil
}

// fromCache assembles a result from the store when caching is enabled and
// the newest snapshot is within the refresh interval. Any missing piece
// means fall through to RPC.
func (p *Poller) fromCache() *Result {
	if !p.cfg.CacheEnabled || !p.store.IsFresh(p.cfg.RefreshInterval) {
		return nil
	}

	network, ok := p.store.LatestNetwork()
	if !ok {
		return nil
	}
	validators, ok := p.store.LatestValidators()
	if !ok {
		return nil
	}
	// Stake samples are best-effort everywhere, absence is fine here too
	samples, _ := p.store.LatestStakeAccounts(p.cfg.StakeFetchLimit)

	return &Result{
		Validators: validators,
		Network:    network,
		Stake:      aggregate.BuildStakeDistribution(samples),
		FromCache:  true,
		UpdatedAt:  network.UpdatedAt,
	}
}

func (p *Poller) fromRPC() (*Result, error) {
	voteAccounts, err := p.gw.GetVoteAccounts()
	if err != nil {
		return nil, err
	}
	epochInfo, err := p.gw.GetEpochInfo()
	if err != nil {
		return nil, err
	}
	inflation, err := p.gw.GetInflationRate()
	if err != nil {
		return nil, err
	}
	supply, err := p.gw.GetSupply()
	if err != nil {
		return nil, err
	}
	currentSlot, err := p.gw.GetSlot()
	if err != nil {
		return nil, err
	}
	nodes, err := p.gw.GetClusterNodes()
	if err != nil {
		return nil, err
	}

	// Stake data is best-effort: a failed scan leaves the distribution empty
	// while the rest of the dashboard still updates.
	accounts, err := p.gw.GetStakeAccounts(p.cfg.StakeFetchLimit)
	if err != nil {
		p.log.Warn("Stake account fetch failed, continuing without stake data", "err", err)
		accounts = nil
	}

	now := time.Now()
	validators := aggregate.BuildValidatorRecords(voteAccounts, inflation.Total*100)
	network := aggregate.BuildNetworkSnapshot(aggregate.NetworkInputs{
		EpochInfo:   epochInfo,
		Inflation:   inflation,
		Supply:      supply,
		CurrentSlot: currentSlot,
		Nodes:       nodes,
		Validators:  validators,
		Now:         now,
	})
	samples := aggregate.BuildStakeSamples(accounts)

	if p.cfg.CacheEnabled {
		p.store.StoreValidators(validators, epochInfo.Epoch)
		p.store.StoreNetwork(network)
		p.store.StoreStakeAccounts(samples, epochInfo.Epoch)
	}

	return &Result{
		Validators: validators,
		Network:    network,
		Stake:      aggregate.BuildStakeDistribution(samples),
		UpdatedAt:  now,
	}, nil
}

// Run refreshes on the configured interval until stop is closed. Cycles are
// strictly sequential; a slow RPC endpoint delays the next tick rather than
// overlapping it.
func (p *Poller) Run(stop <-chan struct{}) {
	if _, err := p.Refresh(); err != nil {
		p.log.Error("Initial refresh failed", "err", err)
	}

	ticker := time.NewTicker(p.cfg.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if _, err := p.Refresh(); err != nil {
				p.log.Error("Refresh failed", "err", err)
			}
		}
	}
}
