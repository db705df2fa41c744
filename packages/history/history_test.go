package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RecordAssignsID(t *testing.T) {
	s := openStore(t)

	e, err := s.Record(context.Background(), Entry{
		Method: "GET",
		URL:    "http://example.com/",
		Status: 200,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.StartedAt.IsZero())
}

func TestStore_RecentNewestFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		_, err := s.Record(ctx, Entry{
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Method:    "GET",
			URL:       "http://example.com/",
			Status:    200 + i,
			BytesRead: 10 * i,
			BodyKind:  "text",
			Duration:  time.Duration(i) * time.Millisecond,
		})
		require.NoError(t, err)
	}

	entries, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 202, entries[0].Status)
	assert.Equal(t, 201, entries[1].Status)
	assert.Equal(t, "text", entries[0].BodyKind)
	assert.Equal(t, 2*time.Millisecond, entries[0].Duration)
}

func TestStore_RecordsErrors(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, err := s.Record(ctx, Entry{
		Method: "GET",
		URL:    "http://example.com/",
		Error:  "client: empty response",
	})
	require.NoError(t, err)

	entries, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "client: empty response", entries[0].Error)
	assert.Zero(t, entries[0].Status)
}
