// Package identity keeps the stable anonymous identifier of this installation.
//
// The id is created lazily on first use, persisted in a kvstore.Repository and
// never changed afterwards. It is the customer external id presented to the
// entitlement service.
package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/ezrevenue/internal/common"
	"github.com/dmitrijs2005/ezrevenue/internal/idgen"
	"github.com/dmitrijs2005/ezrevenue/internal/kvstore"
	"github.com/dmitrijs2005/ezrevenue/internal/logging"
)

// Store serializes get-or-create so concurrent first calls agree on one id.
type Store struct {
	mu     sync.Mutex
	repo   kvstore.Repository
	gen    *idgen.Generator
	logger logging.Logger
	key    string
	prefix string
}

// NewStore binds a Store to repo under storageKey; new ids get prefix prepended.
func NewStore(repo kvstore.Repository, gen *idgen.Generator, logger logging.Logger, storageKey, prefix string) *Store {
	return &Store{repo: repo, gen: gen, logger: logger, key: storageKey, prefix: prefix}
}

// GetOrCreate returns the device id under the store's configured key.
func (s *Store) GetOrCreate(ctx context.Context) (string, error) {
	return s.GetOrCreateID(ctx, s.key, s.prefix)
}

// GetOrCreateID reads storageKey and returns its value unchanged when present.
// Otherwise it generates prefix+idgen.DeviceUniqueID, persists it and returns it.
// Storage failures are reported as common.ErrStorage and are not retried.
func (s *Store) GetOrCreateID(ctx context.Context, storageKey, prefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.repo.Get(ctx, storageKey)
	if err != nil {
		return "", fmt.Errorf("read device id: %w: %w", common.ErrStorage, err)
	}
	if len(raw) > 0 {
		id := string(raw)
		s.logger.Debug(ctx, "device id loaded", "key", storageKey, "device_id", id)
		return id, nil
	}

	id := s.gen.DeviceUniqueID(prefix)
	if err := s.repo.Set(ctx, storageKey, []byte(id)); err != nil {
		return "", fmt.Errorf("persist device id: %w: %w", common.ErrStorage, err)
	}
	s.logger.Info(ctx, "device id created", "key", storageKey, "device_id", id)
	return id, nil
}
