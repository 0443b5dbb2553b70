// Package store provides SQLite-backed storage for persisted block states.
//
// Each row holds one block state, its canonical JSON encoding, a content hash
// and the packed id of the version that wrote it. UpgradeAll brings every
// stale row up to an Upgrader's latest version inside a single transaction
// and records the run under a UUIDv7 id.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait up to 5s on lock contention
//   - one open connection: SQLite has a single writer
//
// Rows are always returned ordered by id, so listings are deterministic.
package store
