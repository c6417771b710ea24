package health

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteChecker checks SQLite database connectivity.
type SQLiteChecker struct {
	db *sql.DB
}

// NewSQLiteChecker creates a new SQLite health checker.
func NewSQLiteChecker(db *sql.DB) *SQLiteChecker {
	return &SQLiteChecker{db: db}
}

// Name returns the checker name.
func (c *SQLiteChecker) Name() string {
	return "sqlite"
}

// Check verifies the SQLite database is accessible.
func (c *SQLiteChecker) Check(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return c.db.PingContext(ctx)
}

// ScribeChecker reports whether the voice extraction backend is configured.
type ScribeChecker struct {
	configured func() bool
}

// NewScribeChecker creates a new scribe health checker.
func NewScribeChecker(configured func() bool) *ScribeChecker {
	return &ScribeChecker{configured: configured}
}

// Name returns the checker name.
func (c *ScribeChecker) Name() string {
	return "scribe"
}

// Check verifies an extraction client is wired in. A missing credential
// degrades readiness rather than failing silently at session start.
func (c *ScribeChecker) Check(ctx context.Context) error {
	if c.configured == nil || !c.configured() {
		return fmt.Errorf("voice extraction not configured")
	}
	return nil
}
