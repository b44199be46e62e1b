/**
 * CONTEXT:   Database migration system for KuzuDB schema management and versioning
 * INPUT:     An embedded schema script and a version-tracking table
 * OUTPUT:    Automated schema setup for the run audit store
 * BUSINESS:  Reliable schema management ensures consistent database state across deployments
 * CHANGE:    Trimmed to the single embedded-schema path the audit store actually runs;
 *            the original file-based migration-directory loader is not exercised by
 *            anything in this repo and was removed
 * RISK:      Medium - Schema changes require careful validation and rollback support
 */

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kuzudb/go-kuzu"
)

// MigrationStatus represents the state of a migration
type MigrationStatus string

const (
	MigrationStatusPending   MigrationStatus = "pending"
	MigrationStatusRunning   MigrationStatus = "running"
	MigrationStatusCompleted MigrationStatus = "completed"
	MigrationStatusFailed    MigrationStatus = "failed"
)

// Migration represents a single database migration
type Migration struct {
	Version     int             `json:"version"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Script      string          `json:"script"`
	Status      MigrationStatus `json:"status"`
	AppliedAt   time.Time       `json:"applied_at"`
	Duration    time.Duration   `json:"duration"`
	Error       string          `json:"error,omitempty"`
}

/**
 * CONTEXT:   Migration manager for KuzuDB schema evolution and version tracking
 * INPUT:     Database connection
 * OUTPUT:    Managed schema updates with version tracking and error recovery
 * BUSINESS:  Schema evolution must be reliable and reversible for production use
 * CHANGE:    Initial migration manager with comprehensive error handling
 * RISK:      Medium - Schema migrations can break database if not carefully managed
 */
type KuzuMigrationManager struct {
	connManager    *KuzuConnectionManager
	currentVersion int
	migrations     []Migration
}

// NewKuzuMigrationManager creates a new migration manager bound to the audit
// store's single embedded schema; there is no file-based migration directory.
func NewKuzuMigrationManager(connManager *KuzuConnectionManager) *KuzuMigrationManager {
	return &KuzuMigrationManager{
		connManager: connManager,
		migrations:  make([]Migration, 0),
	}
}

/**
 * CONTEXT:   Initialize database with migration tracking table
 * INPUT:     Database connection and migration metadata requirements
 * OUTPUT:    Migration tracking table created for version management
 * BUSINESS:  Migration tracking enables reliable schema version management
 * CHANGE:    Initial migration tracking table setup
 * RISK:      Low - Simple table creation with error handling
 */
func (kmm *KuzuMigrationManager) InitializeMigrationTracking(ctx context.Context) error {
	// Create migration tracking table
	migrationTableSQL := `
		CREATE NODE TABLE IF NOT EXISTS Migration(
			version INT64,
			name STRING,
			description STRING,
			status STRING,
			applied_at TIMESTAMP,
			duration_ms INT64,
			error_message STRING DEFAULT '',
			checksum STRING DEFAULT '',
			PRIMARY KEY (version)
		);
	`

	_, err := kmm.connManager.Query(ctx, migrationTableSQL, nil)
	if err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}

	return nil
}

// LoadMigrations populates the manager with the audit store's single
// embedded schema migration. There is no file-based migration source here -
// every version change goes through getInitialSchema directly.
func (kmm *KuzuMigrationManager) LoadMigrations() error {
	kmm.migrations = []Migration{
		{
			Version:     1,
			Name:        "initial_schema",
			Description: "Initial KuzuDB schema for the scheduling engine's run audit store",
			Script:      getInitialSchema(),
			Status:      MigrationStatusPending,
		},
	}
	return nil
}

/**
 * CONTEXT:   Get current database schema version from migration tracking
 * INPUT:     Database connection for version query
 * OUTPUT:    Current schema version number or 0 if no migrations applied
 * BUSINESS:  Version tracking enables incremental schema updates
 * CHANGE:    Initial version tracking query
 * RISK:      Low - Simple query with error handling
 */
func (kmm *KuzuMigrationManager) GetCurrentVersion(ctx context.Context) (int, error) {
	query := `
		MATCH (m:Migration)
		WHERE m.status = 'completed'
		RETURN MAX(m.version) as max_version;
	`

	result, err := kmm.connManager.Query(ctx, query, nil)
	if err != nil {
		// If migration table doesn't exist, version is 0
		if strings.Contains(err.Error(), "Migration") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}

	defer result.Close()

	if !result.HasNext() {
		return 0, nil
	}

	record, err := result.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to read version result: %w", err)
	}

	if len(record) == 0 {
		return 0, nil
	}

	maxVersion, ok := record[0].(int64)
	if !ok {
		return 0, nil
	}

	return int(maxVersion), nil
}

/**
 * CONTEXT:   Apply pending migrations to bring database to latest schema version
 * INPUT:     Target version (0 for latest), migration context, and error handling
 * OUTPUT:    Database updated to target schema version with migration tracking
 * BUSINESS:  Schema updates must be reliable and trackable for production deployment
 * CHANGE:    Initial migration execution with comprehensive error handling
 * RISK:      High - Schema changes can break application if not properly validated
 */
func (kmm *KuzuMigrationManager) Migrate(ctx context.Context, targetVersion int) error {
	// Initialize migration tracking if needed
	if err := kmm.InitializeMigrationTracking(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tracking: %w", err)
	}

	// Get current version
	currentVersion, err := kmm.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	kmm.currentVersion = currentVersion

	// Load migrations if not already loaded
	if len(kmm.migrations) == 0 {
		if err := kmm.LoadMigrations(); err != nil {
			return fmt.Errorf("failed to load migrations: %w", err)
		}
	}

	// Determine target version
	if targetVersion == 0 {
		// Migrate to latest version
		if len(kmm.migrations) == 0 {
			return fmt.Errorf("no migrations found")
		}
		targetVersion = kmm.migrations[len(kmm.migrations)-1].Version
	}

	// Find pending migrations
	pendingMigrations := make([]Migration, 0)
	for _, migration := range kmm.migrations {
		if migration.Version > currentVersion && migration.Version <= targetVersion {
			pendingMigrations = append(pendingMigrations, migration)
		}
	}

	if len(pendingMigrations) == 0 {
		return nil // No migrations to apply
	}

	// Apply each migration
	for _, migration := range pendingMigrations {
		if err := kmm.applyMigration(ctx, &migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}
	}

	return nil
}

/**
 * CONTEXT:   Apply single migration with transaction support and error tracking
 * INPUT:     Migration to apply, database context, and error recovery requirements
 * OUTPUT:    Migration applied with status tracking or rollback on error
 * BUSINESS:  Individual migrations must be atomic to prevent partial schema states
 * CHANGE:    Initial single migration execution with transaction support
 * RISK:      High - Failed migrations can leave database in inconsistent state
 */
func (kmm *KuzuMigrationManager) applyMigration(ctx context.Context, migration *Migration) error {
	startTime := time.Now()
	migration.Status = MigrationStatusRunning

	// Record migration start
	if err := kmm.recordMigrationStatus(ctx, migration); err != nil {
		return fmt.Errorf("failed to record migration start: %w", err)
	}

	// Apply migration within transaction
	err := kmm.connManager.WithTransaction(ctx, func(conn *kuzu.Connection) error {
		// Split script into individual statements
		statements := kmm.splitStatements(migration.Script)

		for i, statement := range statements {
			// Drop comment lines, so a statement preceded by a comment still runs
			var codeLines []string
			for _, line := range strings.Split(statement, "\n") {
				if !strings.HasPrefix(strings.TrimSpace(line), "--") {
					codeLines = append(codeLines, line)
				}
			}
			statement = strings.TrimSpace(strings.Join(codeLines, "\n"))
			if statement == "" {
				continue
			}

			// Skip block comments
			if strings.HasPrefix(statement, "/*") {
				continue
			}

			_, err := conn.Query(statement)
			if err != nil {
				return fmt.Errorf("statement %d failed: %w\nStatement: %s", i+1, err, statement)
			}
		}

		return nil
	})

	// Record migration result
	duration := time.Since(startTime)
	migration.Duration = duration
	migration.AppliedAt = time.Now()

	if err != nil {
		migration.Status = MigrationStatusFailed
		migration.Error = err.Error()
		if recordErr := kmm.recordMigrationStatus(ctx, migration); recordErr != nil {
			return fmt.Errorf("migration failed and status recording failed: %w (original error: %v)", recordErr, err)
		}
		return err
	}

	migration.Status = MigrationStatusCompleted
	if err := kmm.recordMigrationStatus(ctx, migration); err != nil {
		return fmt.Errorf("migration succeeded but status recording failed: %w", err)
	}

	return nil
}

/**
 * CONTEXT:   Record migration status in tracking table for audit and recovery
 * INPUT:     Migration with current status and timing information
 * OUTPUT:     Migration status persisted for tracking and rollback support
 * BUSINESS:  Migration tracking enables audit trail and recovery capabilities
 * CHANGE:    Initial status recording with comprehensive metadata
 * RISK:      Low - Status tracking with error handling
 */
func (kmm *KuzuMigrationManager) recordMigrationStatus(ctx context.Context, migration *Migration) error {
	query := `
		MERGE (m:Migration {version: $version})
		SET m.name = $name,
			m.description = $description,
			m.status = $status,
			m.applied_at = $applied_at,
			m.duration_ms = $duration_ms,
			m.error_message = $error_message;
	`

	params := map[string]interface{}{
		"version":       migration.Version,
		"name":          migration.Name,
		"description":   migration.Description,
		"status":        string(migration.Status),
		"applied_at":    migration.AppliedAt,
		"duration_ms":   int64(migration.Duration.Milliseconds()),
		"error_message": migration.Error,
	}

	_, err := kmm.connManager.Query(ctx, query, params)
	return err
}

/**
 * CONTEXT:   Split migration script into individual executable statements
 * INPUT:     Multi-statement migration script with various statement types
 * OUTPUT:    Array of individual statements ready for execution
 * BUSINESS:  Statement separation enables granular error reporting and debugging
 * CHANGE:    Initial statement splitting with semicolon delimiter
 * RISK:      Low - Simple string splitting with validation
 */
func (kmm *KuzuMigrationManager) splitStatements(script string) []string {
	// Simple semicolon-based splitting
	// Note: This may need enhancement for complex scripts with semicolons in strings
	statements := strings.Split(script, ";")

	result := make([]string, 0)
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			result = append(result, stmt)
		}
	}

	return result
}

/**
 * CONTEXT:   Get initial schema as embedded migration for deployment
 * INPUT:     No parameters, returns complete initial schema
 * OUTPUT:    Initial schema as migration script for database initialization
 * BUSINESS:  Embedded schema ensures consistent initial database structure
 * CHANGE:    Initial schema embedding for deployment
 * RISK:      Low - Static schema definition with no runtime dependencies
 */
func getInitialSchema() string {
	return `
-- Description: Initial KuzuDB schema for the scheduling engine's run audit store

-- A worker as known to the audit store. Mirrors domain.Worker.ID/Name only;
-- the full roster state lives in the workers JSON document the CLI loads.
CREATE NODE TABLE Worker(
    id STRING,
    name STRING,
    PRIMARY KEY (id)
);

-- One completed schedule_range invocation.
CREATE NODE TABLE Run(
    id STRING,
    start_date STRING,
    end_date STRING,
    success BOOLEAN,
    created_at TIMESTAMP,
    PRIMARY KEY (id)
);

-- One Y-task or closing assignment produced by a run.
CREATE NODE TABLE Assignment(
    id STRING,
    date STRING,
    task_type STRING,
    kind STRING DEFAULT 'y_task',
    PRIMARY KEY (id)
);

-- Create relationships
CREATE REL TABLE CLOSED(FROM Worker TO Run, date STRING);
CREATE REL TABLE ASSIGNED(FROM Worker TO Assignment);
CREATE REL TABLE PRODUCED(FROM Run TO Assignment);
`
}
