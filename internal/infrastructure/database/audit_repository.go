/**
 * CONTEXT:   KuzuDB implementation of the scheduling run audit store
 * INPUT:     A completed scheduling.Result plus the worker roster it was built from
 * OUTPUT:    Run, Worker, and Assignment nodes with CLOSED/ASSIGNED/PRODUCED edges
 * BUSINESS:  Operators need a durable record of who closed and who was assigned
 *            what, across runs, without the engine itself taking any I/O dependency
 * CHANGE:    Initial audit repository grounded on the work-block repository's
 *            MERGE-then-CREATE transaction pattern, retargeted at run persistence
 * RISK:      Medium - a partially-committed run would misrepresent history; every
 *            write happens inside a single WithTransaction call
 */

package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kuzudb/go-kuzu"

	"github.com/arlen-roster/dutyplanner/internal/domain"
	"github.com/arlen-roster/dutyplanner/internal/scheduling"
)

// AuditRepository persists completed scheduling runs for later inspection.
// It is never read from by the engine itself: spec.md treats the worker
// registry as the caller's collaborator, and this is the concrete,
// optional, additive half of that contract.
type AuditRepository struct {
	connManager *KuzuConnectionManager
}

// NewAuditRepository wraps an already-open connection manager.
func NewAuditRepository(connManager *KuzuConnectionManager) *AuditRepository {
	return &AuditRepository{connManager: connManager}
}

// EnsureSchema creates the Worker/Run/Assignment schema if it does not
// already exist, via the shared migration manager.
func (ar *AuditRepository) EnsureSchema(ctx context.Context) error {
	manager := NewKuzuMigrationManager(ar.connManager)
	if err := manager.Migrate(ctx, 0); err != nil {
		return fmt.Errorf("apply audit store migrations: %w", err)
	}
	return nil
}

// SaveRun persists one completed schedule_range call as a Run node plus its
// closer and Y-task assignment edges, in a single transaction.
func (ar *AuditRepository) SaveRun(ctx context.Context, start, end string, result scheduling.Result, workers []*domain.Worker) error {
	runID := uuid.NewString()

	return ar.connManager.WithTransaction(ctx, func(conn *kuzu.Connection) error {
		if err := ensureWorkers(conn, workers); err != nil {
			return err
		}

		if _, err := conn.Query(fmt.Sprintf(
			"CREATE (r:Run {id: '%s', start_date: '%s', end_date: '%s', success: %t, created_at: current_timestamp()});",
			runID, start, end, result.Success,
		)); err != nil {
			return fmt.Errorf("create run node: %w", err)
		}

		for friday, closerIDs := range result.Closers {
			dateStr := friday.Format("2006-01-02")
			for _, workerID := range closerIDs {
				if _, err := conn.Query(fmt.Sprintf(
					"MATCH (w:Worker {id: '%s'}), (r:Run {id: '%s'}) CREATE (w)-[:CLOSED {date: '%s'}]->(r);",
					workerID, runID, dateStr,
				)); err != nil {
					return fmt.Errorf("link closer %s: %w", workerID, err)
				}
			}
		}

		for date, assigns := range result.YTasks {
			dateStr := date.Format("2006-01-02")
			for _, a := range assigns {
				assignmentID := uuid.NewString()
				if _, err := conn.Query(fmt.Sprintf(
					"CREATE (a:Assignment {id: '%s', date: '%s', task_type: '%s', kind: 'y_task'});",
					assignmentID, dateStr, a.TaskType,
				)); err != nil {
					return fmt.Errorf("create assignment node: %w", err)
				}
				if _, err := conn.Query(fmt.Sprintf(
					"MATCH (w:Worker {id: '%s'}), (a:Assignment {id: '%s'}) CREATE (w)-[:ASSIGNED]->(a);",
					a.WorkerID, assignmentID,
				)); err != nil {
					return fmt.Errorf("link assignee %s: %w", a.WorkerID, err)
				}
				if _, err := conn.Query(fmt.Sprintf(
					"MATCH (r:Run {id: '%s'}), (a:Assignment {id: '%s'}) CREATE (r)-[:PRODUCED]->(a);",
					runID, assignmentID,
				)); err != nil {
					return fmt.Errorf("link run to assignment: %w", err)
				}
			}
		}

		return nil
	})
}

// ensureWorkers MERGEs every worker in the roster so assignment edges always
// have a Worker node to attach to, even on a store's very first run.
func ensureWorkers(conn *kuzu.Connection, workers []*domain.Worker) error {
	for _, w := range workers {
		if _, err := conn.Query(fmt.Sprintf(
			"MERGE (w:Worker {id: '%s'}) ON CREATE SET w.name = '%s' ON MATCH SET w.name = '%s';",
			w.ID, w.Name, w.Name,
		)); err != nil {
			return fmt.Errorf("ensure worker %s exists: %w", w.ID, err)
		}
	}
	return nil
}
