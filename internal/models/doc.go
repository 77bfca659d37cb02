// Package models defines domain entities for the habsync task sync client.
//
// The package contains two categories of types:
//
// 1. Ephemeral task state, rebuilt on every fetch and never persisted:
//   - [Category] : the five fixed task kinds the remote service knows
//   - [Task] : one remote work item with priority, due dates, and checklist
//   - [TaskCollection] : tasks partitioned by category, one ordered bucket each
//
// 2. Persistent entities backed by the history database:
//   - [SyncRun] : the recorded outcome of one full sync
//
// Category branching is done with exhaustive switches over the five constants
// rather than string lookups, so an unhandled category is a visible default
// branch instead of a silent map miss.
package models
