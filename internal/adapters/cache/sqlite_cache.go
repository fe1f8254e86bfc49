package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/mailrisk/phish-scorer/internal/core"
)

// SQLiteCache is a SQLite implementation of the PostureCache interface,
// useful when scans should survive process restarts
type SQLiteCache struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewSQLiteCache creates a new SQLite posture cache
func NewSQLiteCache(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS dns_posture (
			domain TEXT PRIMARY KEY,
			mx_present BOOLEAN,
			spf_present BOOLEAN,
			spf_record TEXT,
			dmarc_present BOOLEAN,
			dmarc_record TEXT,
			checked_at TIMESTAMP,
			expires_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_posture_expires_at ON dns_posture(expires_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	cache := &SQLiteCache{
		db:          db,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	go cache.startCleanupTask()

	return cache, nil
}

// Get retrieves a cached posture for a domain
func (c *SQLiteCache) Get(ctx context.Context, domain string) (*core.DomainPosture, bool) {
	var posture core.DomainPosture
	var checkedAt string

	err := c.db.QueryRowContext(ctx, `
		SELECT domain, mx_present, spf_present, spf_record, dmarc_present, dmarc_record, checked_at
		FROM dns_posture
		WHERE domain = ? AND expires_at > datetime('now')
	`, domain).Scan(
		&posture.Domain, &posture.MXPresent,
		&posture.SPFPresent, &posture.SPFRecord,
		&posture.DMARCPresent, &posture.DMARCRecord,
		&checkedAt,
	)

	if err != nil {
		if err != sql.ErrNoRows {
			c.logger.Error("Failed to query posture cache", zap.Error(err), zap.String("domain", domain))
		}
		return nil, false
	}

	if t, err := time.Parse(time.RFC3339, checkedAt); err == nil {
		posture.CheckedAt = t
	}

	return &posture, true
}

// Set stores a posture with the given time-to-live
func (c *SQLiteCache) Set(ctx context.Context, posture *core.DomainPosture, ttl time.Duration) {
	expiresAt := time.Now().Add(ttl)

	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO dns_posture
			(domain, mx_present, spf_present, spf_record, dmarc_present, dmarc_record, checked_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, posture.Domain, posture.MXPresent,
		posture.SPFPresent, posture.SPFRecord,
		posture.DMARCPresent, posture.DMARCRecord,
		posture.CheckedAt.Format(time.RFC3339), expiresAt.Format(time.RFC3339))

	if err != nil {
		c.logger.Error("Failed to insert posture entry", zap.Error(err), zap.String("domain", posture.Domain))
	}
}

// Cleanup removes expired entries
func (c *SQLiteCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM dns_posture
		WHERE expires_at <= datetime('now')
	`)
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		c.logger.Debug("Cleaned up expired posture entries", zap.Int64("expired_count", rowsAffected))
	}

	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (c *SQLiteCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Failed to clean up posture cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the database connection
func (c *SQLiteCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
