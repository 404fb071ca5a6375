package poller

import (
	"time"

	"github.com/spf13/viper"

	"dashboard/config"
)

type Config struct {
	RefreshInterval time.Duration
	CacheEnabled    bool
	StakeFetchLimit int
}

// LoadConfig reads the dashboard settings from viper, clamping the refresh
// interval into the allowed range and falling back to defaults for anything
// unset.
func LoadConfig() Config {
	cfg := Config{
		RefreshInterval: config.REFRESH_INTERVAL_DEFAULT,
		CacheEnabled:    viper.GetBool("dashboard.cache-enabled"),
		StakeFetchLimit: viper.GetInt("dashboard.stake-fetch-limit"),
	}

	if secs := viper.GetInt("dashboard.refresh-interval"); secs > 0 {
		cfg.RefreshInterval = clampDuration(time.Duration(secs)*time.Second,
			config.REFRESH_INTERVAL_MIN, config.REFRESH_INTERVAL_MAX)
	}
	if cfg.StakeFetchLimit <= 0 {
		cfg.StakeFetchLimit = config.STAKE_FETCH_DEFAULT_LIMIT
	}
	return cfg
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
