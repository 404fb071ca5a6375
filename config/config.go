package config

import "time"

// Path config
const (
	LogPath    = "./logs/"
	ConfigPath = "./"
)

// Network config
const (
	DefaultRPCEndpoint = "https://api.mainnet-beta.solana.com"
)

// Refresh config
const (
	// The refresh interval is user-tunable but clamped to this range so a
	// misconfigured value cannot hammer the RPC endpoint.
	REFRESH_INTERVAL_MIN     = 30 * time.Second
	REFRESH_INTERVAL_MAX     = 300 * time.Second
	REFRESH_INTERVAL_DEFAULT = 60 * time.Second

	// A slot is ~0.4s, used to estimate the time remaining in the epoch
	SLOT_DURATION = 400 * time.Millisecond
)

// Fetch config
const (
	// getProgramAccounts on the stake program is rejected by public RPC
	// nodes once the accumulated scan result grows too large, so the scan
	// is always bounded.
	STAKE_FETCH_DEFAULT_LIMIT = 50
	STAKE_FETCH_MAX_LIMIT     = 1000

	// Cap on stake-account rows read back from the cache per epoch
	STAKE_SAMPLE_ROW_LIMIT = 100
)

// Serve config
const (
	DefaultListenAddr = ":8080"
)
