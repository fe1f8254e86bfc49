package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mailrisk/phish-scorer/internal/core"
)

type memoryEntry struct {
	posture   *core.DomainPosture
	expiresAt time.Time
}

// MemoryCache is an in-memory implementation of the PostureCache interface
type MemoryCache struct {
	entries     map[string]memoryEntry
	mu          sync.RWMutex
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMemoryCache creates a new in-memory posture cache
func NewMemoryCache(logger *zap.Logger, cleanupFreq time.Duration) *MemoryCache {
	cache := &MemoryCache{
		entries:     make(map[string]memoryEntry),
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	go cache.startCleanupTask()

	return cache
}

// Get retrieves a cached posture for a domain
func (c *MemoryCache) Get(ctx context.Context, domain string) (*core.DomainPosture, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[domain]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.posture, true
}

// Set stores a posture with the given time-to-live
func (c *MemoryCache) Set(ctx context.Context, posture *core.DomainPosture, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[posture.Domain] = memoryEntry{
		posture:   posture,
		expiresAt: time.Now().Add(ttl),
	}
}

// Cleanup removes expired entries
func (c *MemoryCache) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expiredCount := 0
	for domain, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, domain)
			expiredCount++
		}
	}

	c.logger.Debug("Cleaned up expired posture entries", zap.Int("expired_count", expiredCount))
	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (c *MemoryCache) startCleanupTask() {
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

// Stop stops the background cleanup task
func (c *MemoryCache) Stop() {
	close(c.stopCh)
}
