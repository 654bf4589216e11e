package identity

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/ezrevenue/internal/common"
	"github.com/dmitrijs2005/ezrevenue/internal/idgen"
	"github.com/dmitrijs2005/ezrevenue/internal/kvstore"
	"github.com/dmitrijs2005/ezrevenue/internal/logging"
	"github.com/stretchr/testify/require"
)

// countingRepo wraps a repository and records calls.
type countingRepo struct {
	kvstore.Repository
	gets, sets int
	getErr     error
	setErr     error
}

func (c *countingRepo) Get(ctx context.Context, key string) ([]byte, error) {
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.Repository.Get(ctx, key)
}

func (c *countingRepo) Set(ctx context.Context, key string, value []byte) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	return c.Repository.Set(ctx, key, value)
}

func newStore(repo kvstore.Repository, prefix string) *Store {
	return NewStore(repo, idgen.New(), logging.NewNop(), "ezrevenueDeviceId", prefix)
}

func TestGetOrCreate_SecondCallDoesNotWrite(t *testing.T) {
	repo := &countingRepo{Repository: kvstore.NewMemoryRepository()}
	s := newStore(repo, "")
	ctx := context.Background()

	first, err := s.GetOrCreate(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	require.Equal(t, 1, repo.sets)

	second, err := s.GetOrCreate(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, repo.sets, "second call must not write")
	require.Equal(t, 2, repo.gets)
}

func TestGetOrCreate_ReturnsExistingUnchanged(t *testing.T) {
	mem := kvstore.NewMemoryRepository()
	require.NoError(t, mem.Set(context.Background(), "ezrevenueDeviceId", []byte("preexisting")))
	repo := &countingRepo{Repository: mem}

	id, err := newStore(repo, "ignored-").GetOrCreate(context.Background())
	require.NoError(t, err)
	require.Equal(t, "preexisting", id)
	require.Zero(t, repo.sets)
}

func TestGetOrCreate_AppliesPrefix(t *testing.T) {
	id, err := newStore(kvstore.NewMemoryRepository(), "img-").GetOrCreate(context.Background())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(id, "img-"))
	require.Greater(t, len(id), len("img-")+idgen.DeviceSuffixLength)
}

func TestGetOrCreateID_KeysAreIndependent(t *testing.T) {
	s := newStore(kvstore.NewMemoryRepository(), "")
	ctx := context.Background()

	a, err := s.GetOrCreateID(ctx, "extensionDeviceId", "")
	require.NoError(t, err)
	b, err := s.GetOrCreateID(ctx, "ezrevenueDeviceId", "")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestGetOrCreate_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	db, err := kvstore.OpenSQLite(ctx, path)
	require.NoError(t, err)
	first, err := newStore(kvstore.NewSQLiteRepository(db), "").GetOrCreate(ctx)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = kvstore.OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	second, err := newStore(kvstore.NewSQLiteRepository(db), "").GetOrCreate(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestGetOrCreate_StorageErrors(t *testing.T) {
	boom := errors.New("disk full")

	t.Run("read", func(t *testing.T) {
		repo := &countingRepo{Repository: kvstore.NewMemoryRepository(), getErr: boom}
		_, err := newStore(repo, "").GetOrCreate(context.Background())
		require.ErrorIs(t, err, common.ErrStorage)
		require.ErrorIs(t, err, boom)
		require.Zero(t, repo.sets)
	})

	t.Run("write", func(t *testing.T) {
		repo := &countingRepo{Repository: kvstore.NewMemoryRepository(), setErr: boom}
		_, err := newStore(repo, "").GetOrCreate(context.Background())
		require.ErrorIs(t, err, common.ErrStorage)
		require.ErrorIs(t, err, boom)
	})
}

func TestGetOrCreate_ConcurrentFirstCallsAgree(t *testing.T) {
	repo := kvstore.NewMemoryRepository()
	s := newStore(repo, "")

	const n = 8
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		go func() {
			id, err := s.GetOrCreate(context.Background())
			if err != nil {
				id = "error: " + err.Error()
			}
			ids <- id
		}()
	}

	first := <-ids
	for i := 1; i < n; i++ {
		require.Equal(t, first, <-ids)
	}

	stored, err := repo.Get(context.Background(), "ezrevenueDeviceId")
	require.NoError(t, err)
	require.Equal(t, first, string(stored))
}
