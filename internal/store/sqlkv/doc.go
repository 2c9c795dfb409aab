// Package sqlkv stores key-value slots in a single SQL table.
//
// SQLite (modernc.org/sqlite, no cgo) and MySQL (github.com/go-sql-driver/mysql)
// are supported. Both dialects use the same layout:
//
//	kv(k VARCHAR PRIMARY KEY, v BLOB NOT NULL, updated_at BIGINT NOT NULL)
//
// updated_at holds unix milliseconds of the last write.
package sqlkv
