// Package repositories implements SQLite persistence for playersync's history.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [RunRepository] : wrapper runs with per-step exit statuses
//   - [ReportRepository] : synchronizer summaries (copied, skipped, deleted, failed)
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
