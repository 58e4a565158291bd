package main

import (
	"context"
	"database/sql"
	"errors"
	"sync"
)

// This file contains the usage counter: a monotonically non-decreasing count
// of forecasts served, persisted in Postgres so it survives restarts. The
// counter advances exactly once per completed forecast request (success or
// fallback) and never on load.

type UsageCounter struct {
	cfg   *apiConfig
	mu    sync.Mutex
	count int64
}

func NewUsageCounter(cfg *apiConfig) *UsageCounter {
	return &UsageCounter{cfg: cfg}
}

// Load initializes the in-memory count from Postgres. A missing singleton
// row means a fresh deployment and reads as zero.
func (u *UsageCounter) Load(ctx context.Context) error {
	count, err := u.cfg.dbQueries.GetUsageCount(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.count = count
	return nil
}

// Increment bumps the counter durably via an atomic upsert and returns the
// new total. When the database write fails the in-memory count still
// advances, so one outage does not stall the usage display; the next
// successful write re-synchronizes memory with the database value.
func (u *UsageCounter) Increment(ctx context.Context) int64 {
	newCount, err := u.cfg.dbQueries.IncrementUsageCount(ctx)
	u.mu.Lock()
	defer u.mu.Unlock()
	if err != nil {
		u.cfg.logger.Warn("couldn't persist usage increment", "error", err)
		u.count++
		return u.count
	}
	u.count = newCount
	return u.count
}

// Total returns the current in-memory count.
func (u *UsageCounter) Total() int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.count
}

// Reset wipes the persisted counter row and zeroes the in-memory count.
// Only the explicit clear-all operation calls this.
func (u *UsageCounter) Reset(ctx context.Context) error {
	if err := u.cfg.dbQueries.ResetUsageCount(ctx); err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.count = 0
	return nil
}
