package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/mailrisk/phish-scorer/internal/core"
)

// MySQLCache is a MySQL implementation of the PostureCache interface, for
// deployments where several scanner instances share one posture table
type MySQLCache struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMySQLCache creates a new MySQL posture cache
func NewMySQLCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS dns_posture (
			domain VARCHAR(255) PRIMARY KEY,
			mx_present BOOLEAN,
			spf_present BOOLEAN,
			spf_record TEXT,
			dmarc_present BOOLEAN,
			dmarc_record TEXT,
			checked_at TIMESTAMP,
			expires_at TIMESTAMP,
			INDEX idx_posture_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	cache := &MySQLCache{
		db:          db,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	go cache.startCleanupTask()

	return cache, nil
}

// Get retrieves a cached posture for a domain
func (c *MySQLCache) Get(ctx context.Context, domain string) (*core.DomainPosture, bool) {
	var posture core.DomainPosture
	var checkedAt string

	err := c.db.QueryRowContext(ctx, `
		SELECT domain, mx_present, spf_present, spf_record, dmarc_present, dmarc_record, checked_at
		FROM dns_posture
		WHERE domain = ? AND expires_at > NOW()
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

	if t, err := time.Parse("2006-01-02 15:04:05", checkedAt); err == nil {
		posture.CheckedAt = t
	}

	return &posture, true
}

// Set stores a posture with the given time-to-live
func (c *MySQLCache) Set(ctx context.Context, posture *core.DomainPosture, ttl time.Duration) {
	expiresAt := time.Now().Add(ttl)

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO dns_posture
			(domain, mx_present, spf_present, spf_record, dmarc_present, dmarc_record, checked_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			mx_present = VALUES(mx_present),
			spf_present = VALUES(spf_present),
			spf_record = VALUES(spf_record),
			dmarc_present = VALUES(dmarc_present),
			dmarc_record = VALUES(dmarc_record),
			checked_at = VALUES(checked_at),
			expires_at = VALUES(expires_at)
	`, posture.Domain, posture.MXPresent,
		posture.SPFPresent, posture.SPFRecord,
		posture.DMARCPresent, posture.DMARCRecord,
		posture.CheckedAt.Format("2006-01-02 15:04:05"), expiresAt.Format("2006-01-02 15:04:05"))

	if err != nil {
		c.logger.Error("Failed to insert posture entry", zap.Error(err), zap.String("domain", posture.Domain))
	}
}

// Cleanup removes expired entries
func (c *MySQLCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM dns_posture
		WHERE expires_at <= NOW()
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
func (c *MySQLCache) startCleanupTask() {
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
func (c *MySQLCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
