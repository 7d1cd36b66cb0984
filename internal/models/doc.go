// Package models defines the persisted records of playersync.
//
//   - [SyncRun] : one wrapper invocation (mount, synchronize, unmount) with the exit status of each step
//   - [SyncReport] : the per-action tallies of one synchronizer pass
//
// Both embed a common base carrying a UUID, a human-readable sequence number, timestamps and a soft-delete marker.
// The [Repository] interface defines standard CRUD operations for database access.
package models
