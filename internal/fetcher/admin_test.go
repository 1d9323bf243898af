package fetcher

import (
	"context"
	"runtime"
	"testing"

	"github.com/MrSnakeDoc/artcrate/internal/desktop"
	"github.com/MrSnakeDoc/artcrate/internal/models"
	"github.com/MrSnakeDoc/artcrate/internal/runner"
	"github.com/MrSnakeDoc/artcrate/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheInfo_Absent(t *testing.T) {
	c := newCoordinator(newTestStore(t), &fakeSheet{}, nil)
	assert.Equal(t, models.CacheInfo{}, c.CacheInfo(context.Background()))
}

func TestCacheInfo_CorruptAndUnreadableLookAbsent(t *testing.T) {
	for _, raw := range append([]string{"nope"}, corruptRecords...) {
		st := newTestStore(t)
		require.NoError(t, st.Set(context.Background(), store.CacheKey, []byte(raw)))
		c := newCoordinator(st, &fakeSheet{}, nil)
		assert.Equal(t, models.CacheInfo{}, c.CacheInfo(context.Background()), "record %q", raw)
	}

	broken := &flakyStore{Store: newTestStore(t), failGet: true}
	c := newCoordinator(broken, &fakeSheet{}, nil)
	assert.Equal(t, models.CacheInfo{}, c.CacheInfo(context.Background()))
}

func TestCacheInfo_Present(t *testing.T) {
	st := newTestStore(t)
	d := seedCache(t, st, 0)
	c := newCoordinator(st, &fakeSheet{}, nil)

	info := c.CacheInfo(context.Background())
	require.True(t, info.Exists)
	assert.Equal(t, d.Timestamp, *info.Timestamp)
	assert.Equal(t, 1, *info.AssetCount)
}

func TestClearAndRefetch(t *testing.T) {
	st := newTestStore(t)
	seedCache(t, st, 0)
	sheet := &fakeSheet{body: feedTwo, etag: `"fresh"`}
	c := newCoordinator(st, sheet, nil)

	assets, err := c.ClearAndRefetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, assets, 2)

	heads, gets := sheet.counts()
	assert.Zero(t, heads)
	assert.Equal(t, 1, gets)

	info := c.CacheInfo(context.Background())
	require.True(t, info.Exists)
	assert.Equal(t, 2, *info.AssetCount)
}

func TestClearAndRefetch_NetworkDownAfterClearFails(t *testing.T) {
	st := newTestStore(t)
	seedCache(t, st, 0)
	c := newCoordinator(st, &fakeSheet{getErr: errDisk}, nil)

	_, err := c.ClearAndRefetch(context.Background())
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.False(t, c.CacheInfo(context.Background()).Exists)
}

func TestClearAndRefetch_DeleteFailureIsNotFatal(t *testing.T) {
	st := &flakyStore{Store: newTestStore(t), failDelete: true}
	c := newCoordinator(st, &fakeSheet{body: feedTwo}, nil)

	assets, err := c.ClearAndRefetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, assets, 2)
}

func TestCacheLocation(t *testing.T) {
	dir := t.TempDir()
	st, err := store.NewFS(dir)
	require.NoError(t, err)

	m := runner.NewMockRunner()
	c := New(st, &fakeSheet{}, Options{URL: testURL, Expiry: testExpiry, Runner: m})
	assert.Equal(t, dir, c.CacheLocation())

	require.NoError(t, c.OpenCacheLocation(context.Background()))
	calls := m.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, desktop.OpenerFor(runtime.GOOS), calls[0].Name)
	assert.Equal(t, []string{dir}, calls[0].Args)
}
