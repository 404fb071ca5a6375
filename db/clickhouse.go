package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/spf13/viper"

	"dashboard/config"
	"dashboard/logger"
	"dashboard/types"
)

const databaseName = "soldash"

type ClickhouseStore struct {
	conn      driver.Conn
	database  string
	available bool
	log       *slog.Logger
}

// NewClickhouse connects to ClickHouse using the CLICKHOUSE_* environment.
// When the server cannot be reached the store still constructs, permanently
// absent: every read reports no data, every write is a no-op and the
// dashboard runs on direct RPC calls only.
func NewClickhouse() *ClickhouseStore {
	st := &ClickhouseStore{log: logger.StoreLogger}

	st.database = viper.GetString("CLICKHOUSE_DATABASE")
	if st.database == "" {
		st.database = databaseName
	}
	opts := &clickhouse.Options{
		Addr: []string{viper.GetString("CLICKHOUSE_ADDR")},
		Auth: clickhouse.Auth{
			Database: st.database,
			Username: viper.GetString("CLICKHOUSE_USERNAME"),
			Password: viper.GetString("CLICKHOUSE_PASSWORD"),
		},
		DialTimeout:  5 * time.Second,
		Compression:  &clickhouse.Compression{Method: clickhouse.CompressionLZ4},
		MaxOpenConns: 10,
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		st.log.Warn("Failed to open ClickHouse, caching disabled for this run", "err", err)
		return st
	}
	st.conn = conn

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.Ping(ctx); err != nil {
		st.log.Warn("ClickHouse unreachable, caching disabled for this run", "err", err)
		return st
	}

	st.available = true
	return st
}

func (s *ClickhouseStore) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *ClickhouseStore) Available() bool { return s.available }

func (s *ClickhouseStore) EnsureDatabaseExists() error {
	if !s.available {
		return nil
	}
	query := fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, s.database)
	if err := s.conn.Exec(context.Background(), query); err != nil {
		return fmt.Errorf("failed to ensure database exists: %w", err)
	}
	logger.GlobalLogger.Info("Database ensured to exist", "database", s.database)
	return nil
}

// table qualifies a table name with the configured database so a non-default
// CLICKHOUSE_DATABASE keeps schema and queries in the same place.
func (s *ClickhouseStore) table(name string) string {
	return s.database + "." + name
}

func (s *ClickhouseStore) CreateTables() error {
	if !s.available {
		return nil
	}
	queries := []string{
		`CREATE TABLE IF NOT EXISTS ` + s.table("validator_snapshots") + `
		(
			timestamp DateTime,
			epoch UInt64,
			nodePubkey String,
			votePubkey String,
			activatedStake Float64,
			stakePercentage Float64,
			commission Int64,
			lastVote UInt64,
			rootSlot UInt64,
			credits Int64,
			status String,
			rank Int64,
			estimatedApy Float64
		)
		ENGINE = ReplacingMergeTree
		ORDER BY (epoch, votePubkey)
		SETTINGS index_granularity = 8192`,

		`CREATE TABLE IF NOT EXISTS ` + s.table("network_snapshots") + `
		(
			timestamp DateTime,
			epoch UInt64,
			slotsInEpoch UInt64,
			slotIndex UInt64,
			epochProgress Float64,
			hoursRemaining Float64,
			inflationTotal Float64,
			inflationValidator Float64,
			inflationFoundation Float64,
			totalSupply Float64,
			circulatingSupply Float64,
			stakedSupply Float64,
			stakingRatio Float64,
			activeValidators UInt64,
			delinquentValidators UInt64,
			concentrationTop10 Float64,
			concentrationTop20 Float64,
			concentrationTop50 Float64,
			currentSlot UInt64,
			nodeCount UInt64,
			nodeVersions UInt64
		)
		ENGINE = MergeTree
		ORDER BY timestamp
		SETTINGS index_granularity = 8192`,

		`CREATE TABLE IF NOT EXISTS ` + s.table("stake_accounts") + `
		(
			timestamp DateTime,
			epoch UInt64,
			pubkey String,
			balance Float64,
			parsed String
		)
		ENGINE = ReplacingMergeTree
		ORDER BY (epoch, pubkey)
		SETTINGS index_granularity = 8192`,
	}

	for _, q := range queries {
		if err := s.conn.Exec(context.Background(), q); err != nil {
			return err
		}
	}
	logger.GlobalLogger.Info("Checked or created cache tables", "database", s.database)
	return nil
}

func (s *ClickhouseStore) DropTables() error {
	if !s.available {
		return nil
	}
	for _, t := range []string{"validator_snapshots", "network_snapshots", "stake_accounts"} {
		q := fmt.Sprintf("DROP TABLE IF EXISTS %s", s.table(t))
		if err := s.conn.Exec(context.Background(), q); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", t, err)
		}
	}
	return nil
}

// Row types mirror the table layouts; domain records carry the ch tags and
// the rows add the (epoch, timestamp) cache key.

type validatorRow struct {
	Timestamp time.Time `ch:"timestamp"`
	Epoch     uint64    `ch:"epoch"`
	types.ValidatorRecord
}

type stakeRow struct {
	Timestamp time.Time `ch:"timestamp"`
	Epoch     uint64    `ch:"epoch"`
	Pubkey    string    `ch:"pubkey"`
	Balance   float64   `ch:"balance"`
	Parsed    string    `ch:"parsed"`
}

func (s *ClickhouseStore) IsFresh(maxAge time.Duration) bool {
	if !s.available {
		return false
	}
	row := s.conn.QueryRow(context.Background(),
		`SELECT max(timestamp) FROM `+s.table("network_snapshots"))
	var newest time.Time
	if err := row.Scan(&newest); err != nil {
		s.log.Warn("Freshness query failed", "err", err)
		return false
	}
	return time.Since(newest) <= maxAge
}

func (s *ClickhouseStore) LatestValidators() (types.ValidatorRecords, bool) {
	epoch, ok := s.latestEpoch("validator_snapshots")
	if !ok {
		return nil, false
	}

	rows, err := s.conn.Query(context.Background(),
		`SELECT nodePubkey, votePubkey, activatedStake, stakePercentage, commission,
		        lastVote, rootSlot, credits, status, rank, estimatedApy
		 FROM `+s.table("validator_snapshots")+` WHERE epoch = ? ORDER BY rank, votePubkey`, epoch)
	if err != nil {
		s.log.Warn("Validator cache read failed", "err", err)
		return nil, false
	}
	defer rows.Close()

	records := make(types.ValidatorRecords, 0)
	for rows.Next() {
		var r types.ValidatorRecord
		if err := rows.Scan(&r.NodePubkey, &r.VotePubkey, &r.ActivatedStake,
			&r.StakePercentage, &r.Commission, &r.LastVote, &r.RootSlot,
			&r.Credits, &r.Status, &r.Rank, &r.EstimatedAPY); err != nil {
			s.log.Warn("Validator cache scan failed", "err", err)
			return nil, false
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil || len(records) == 0 {
		return nil, false
	}
	return records, true
}

func (s *ClickhouseStore) LatestNetwork() (*types.NetworkSnapshot, bool) {
	if !s.available {
		return nil, false
	}
	row := s.conn.QueryRow(context.Background(),
		`SELECT timestamp, epoch, slotsInEpoch, slotIndex, epochProgress, hoursRemaining,
		        inflationTotal, inflationValidator, inflationFoundation,
		        totalSupply, circulatingSupply, stakedSupply, stakingRatio,
		        activeValidators, delinquentValidators,
		        concentrationTop10, concentrationTop20, concentrationTop50,
		        currentSlot, nodeCount, nodeVersions
		 FROM `+s.table("network_snapshots")+` ORDER BY timestamp DESC LIMIT 1`)

	var snap types.NetworkSnapshot
	if err := row.Scan(&snap.UpdatedAt, &snap.Epoch.Current, &snap.Epoch.SlotsInEpoch,
		&snap.Epoch.SlotIndex, &snap.Epoch.Progress, &snap.Epoch.HoursRemaining,
		&snap.Inflation.Total, &snap.Inflation.Validator, &snap.Inflation.Foundation,
		&snap.Supply.Total, &snap.Supply.Circulating, &snap.Supply.Staked, &snap.Supply.StakingRatio,
		&snap.Validators.Active, &snap.Validators.Delinquent,
		&snap.Concentration.Top10, &snap.Concentration.Top20, &snap.Concentration.Top50,
		&snap.Performance.CurrentSlot, &snap.Performance.NodeCount, &snap.Performance.NodeVersions); err != nil {
		return nil, false
	}
	return &snap, true
}

func (s *ClickhouseStore) LatestStakeAccounts(limit int) (types.StakeAccountSamples, bool) {
	epoch, ok := s.latestEpoch("stake_accounts")
	if !ok {
		return nil, false
	}
	if limit <= 0 || limit > config.STAKE_SAMPLE_ROW_LIMIT {
		limit = config.STAKE_SAMPLE_ROW_LIMIT
	}

	rows, err := s.conn.Query(context.Background(),
		fmt.Sprintf(`SELECT pubkey, balance, parsed FROM %s
		 WHERE epoch = ? ORDER BY balance DESC LIMIT %d`, s.table("stake_accounts"), limit), epoch)
	if err != nil {
		s.log.Warn("Stake cache read failed", "err", err)
		return nil, false
	}
	defer rows.Close()

	samples := make(types.StakeAccountSamples, 0)
	for rows.Next() {
		var (
			sample types.StakeAccountSample
			parsed string
		)
		if err := rows.Scan(&sample.Pubkey, &sample.Balance, &parsed); err != nil {
			s.log.Warn("Stake cache scan failed", "err", err)
			return nil, false
		}
		if parsed != "" {
			sample.Parsed = json.RawMessage(parsed)
		}
		samples = append(samples, &sample)
	}
	if err := rows.Err(); err != nil || len(samples) == 0 {
		return nil, false
	}
	return samples, true
}

func (s *ClickhouseStore) StoreValidators(records types.ValidatorRecords, epoch uint64) {
	if !s.available || len(records) == 0 {
		return
	}
	batch, err := s.conn.PrepareBatch(context.Background(), "INSERT INTO "+s.table("validator_snapshots"))
	if err != nil {
		s.log.Warn("Validator cache write failed", "err", err)
		return
	}
	now := time.Now()
	for _, r := range records {
		row := validatorRow{Timestamp: now, Epoch: epoch, ValidatorRecord: *r}
		if err := batch.AppendStruct(&row); err != nil {
			s.log.Warn("Validator cache write failed", "err", err)
			return
		}
	}
	if err := batch.Send(); err != nil {
		s.log.Warn("Validator cache write failed", "err", err)
		return
	}
	s.log.Info("Cached validator records", "count", len(records), "epoch", epoch)
}

func (s *ClickhouseStore) StoreNetwork(snap *types.NetworkSnapshot) {
	if !s.available || snap == nil {
		return
	}
	err := s.conn.Exec(context.Background(),
		`INSERT INTO `+s.table("network_snapshots")+`
		 (timestamp, epoch, slotsInEpoch, slotIndex, epochProgress, hoursRemaining,
		  inflationTotal, inflationValidator, inflationFoundation,
		  totalSupply, circulatingSupply, stakedSupply, stakingRatio,
		  activeValidators, delinquentValidators,
		  concentrationTop10, concentrationTop20, concentrationTop50,
		  currentSlot, nodeCount, nodeVersions)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.UpdatedAt, snap.Epoch.Current, snap.Epoch.SlotsInEpoch, snap.Epoch.SlotIndex,
		snap.Epoch.Progress, snap.Epoch.HoursRemaining,
		snap.Inflation.Total, snap.Inflation.Validator, snap.Inflation.Foundation,
		snap.Supply.Total, snap.Supply.Circulating, snap.Supply.Staked, snap.Supply.StakingRatio,
		snap.Validators.Active, snap.Validators.Delinquent,
		snap.Concentration.Top10, snap.Concentration.Top20, snap.Concentration.Top50,
		snap.Performance.CurrentSlot, snap.Performance.NodeCount, snap.Performance.NodeVersions)
	if err != nil {
		s.log.Warn("Network cache write failed", "err", err)
		return
	}
	s.log.Info("Cached network snapshot", "epoch", snap.Epoch.Current)
}

func (s *ClickhouseStore) StoreStakeAccounts(samples types.StakeAccountSamples, epoch uint64) {
	if !s.available || len(samples) == 0 {
		return
	}
	batch, err := s.conn.PrepareBatch(context.Background(), "INSERT INTO "+s.table("stake_accounts"))
	if err != nil {
		s.log.Warn("Stake cache write failed", "err", err)
		return
	}
	now := time.Now()
	for _, sa := range samples {
		row := stakeRow{
			Timestamp: now,
			Epoch:     epoch,
			Pubkey:    sa.Pubkey,
			Balance:   sa.Balance,
			Parsed:    string(sa.Parsed),
		}
		if err := batch.AppendStruct(&row); err != nil {
			s.log.Warn("Stake cache write failed", "err", err)
			return
		}
	}
	if err := batch.Send(); err != nil {
		s.log.Warn("Stake cache write failed", "err", err)
		return
	}
	s.log.Info("Cached stake account samples", "count", len(samples), "epoch", epoch)
}

// latestEpoch finds the most recently written epoch of a table, false when
// the store is unavailable or the table is empty.
func (s *ClickhouseStore) latestEpoch(table string) (uint64, bool) {
	if !s.available {
		return 0, false
	}
	row := s.conn.QueryRow(context.Background(),
		fmt.Sprintf(`SELECT epoch FROM %s ORDER BY timestamp DESC LIMIT 1`, s.table(table)))
	var epoch uint64
	if err := row.Scan(&epoch); err != nil {
		return 0, false
	}
	return epoch, true
}
