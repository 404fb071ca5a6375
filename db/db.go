package db

import (
	"time"

	"dashboard/types"
)

// Store is the cache the dashboard reads before touching the RPC endpoint.
// Caching is an optimization, not a correctness requirement: reads report
// absence instead of errors, writes are best-effort and never propagate a
// failure. A store that could not be reached at startup stays in a
// permanently-absent mode and every caller falls through to RPC.
type Store interface {
	Close() error

	// IsFresh reports whether a network snapshot newer than maxAge exists.
	// An unreachable store is never fresh.
	IsFresh(maxAge time.Duration) bool

	// Latest* return the most recent epoch's full record set, or absent.
	LatestValidators() (types.ValidatorRecords, bool)
	LatestNetwork() (*types.NetworkSnapshot, bool)
	LatestStakeAccounts(limit int) (types.StakeAccountSamples, bool)

	// Store* are write-back hooks: failures are logged and swallowed.
	// Writes are idempotent per (epoch, kind); last writer wins.
	StoreValidators(records types.ValidatorRecords, epoch uint64)
	StoreNetwork(snap *types.NetworkSnapshot)
	StoreStakeAccounts(samples types.StakeAccountSamples, epoch uint64)
}

// NewNoop returns a store that is always absent, for running with caching
// disabled.
func NewNoop() Store { return noopStore{} }

type noopStore struct{}

func (noopStore) Close() error               { return nil }
func (noopStore) IsFresh(time.Duration) bool { return false }

func (noopStore) LatestValidators() (types.ValidatorRecords, bool) { return nil, false }
func (noopStore) LatestNetwork() (*types.NetworkSnapshot, bool)    { return nil, false }
func (noopStore) LatestStakeAccounts(int) (types.StakeAccountSamples, bool) {
	return nil, false
}

func (noopStore) StoreValidators(types.ValidatorRecords, uint64)       {}
func (noopStore) StoreNetwork(*types.NetworkSnapshot)                  {}
func (noopStore) StoreStakeAccounts(types.StakeAccountSamples, uint64) {}
