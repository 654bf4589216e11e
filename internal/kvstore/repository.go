// Package kvstore is the durable per-installation key/value storage the
// device identity lives in.
//
// Backends:
//   - SQLiteRepository: "local" scope, a file next to the client.
//   - PostgresRepository: "sync" scope, shared by every machine of a user.
//   - S3Repository: "sync" scope on an S3-compatible bucket, one object per key.
//   - MemoryRepository: process-local, for tests and ephemeral runs.
//
// All backends share one contract: Get returns (nil, nil) for a missing key,
// Set upserts, Delete is idempotent.
package kvstore

import "context"

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
