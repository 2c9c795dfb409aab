// Package store persists the task list and the theme preference in a
// key-value backend.
//
// A backend is anything implementing KV: a durable map from string keys to
// byte values. Three backends exist:
//
//   - filekv: one JSON file per key under a data directory (default)
//   - sqlkv: a kv table in SQLite (modernc.org/sqlite) or MySQL
//   - MemoryKV: in-process map, used by tests
//
// # Keys
//
//   - "tasks": JSON array of task records (see package task)
//   - "theme-mode": JSON string, "light" or "dark"
//
// # Failure Semantics
//
// Adapter.Load never fails: a missing, unparsable, or schema-invalid value
// yields an empty list and a warning in the log. Adapter.Save returns a
// *StorageError on any encoding or backend failure and never writes a
// partial value.
package store
