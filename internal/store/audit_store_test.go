package store

import (
	"context"
	"fmt"
	"surveyd/internal/models"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditStore_AppendAndList(t *testing.T) {
	s := newTestStore(t)
	as := NewAuditStore(s)
	ctx := context.Background()

	err := as.Append(ctx, models.EventSubmission, "203.0.113.7", map[string]interface{}{
		"building": "A",
		"id":       float64(1),
	})
	require.NoError(t, err)

	entries, err := as.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, models.EventSubmission, entry.EventType)
	assert.Equal(t, "203.0.113.7", entry.IPAddress)

	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(entry.Details, &details))
	assert.Equal(t, "A", details["building"])
	assert.Equal(t, float64(1), details["id"])
}

func TestAuditStore_AppendNilDetails(t *testing.T) {
	s := newTestStore(t)
	as := NewAuditStore(s)
	ctx := context.Background()

	require.NoError(t, as.Append(ctx, models.EventLogout, "203.0.113.7", nil))

	entries, err := as.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.JSONEq(t, `{}`, string(entries[0].Details))
}

func TestAuditStore_ListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	as := NewAuditStore(s)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, as.Append(ctx, models.EventLogin, "203.0.113.7",
			map[string]interface{}{"seq": i}))
	}

	entries, err := as.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// same created_at second is possible, id breaks the tie
	assert.Greater(t, entries[0].ID, entries[2].ID)
}

func TestAuditStore_ListPagination(t *testing.T) {
	s := newTestStore(t)
	as := NewAuditStore(s)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, as.Append(ctx, models.EventAuditView, "203.0.113.7",
			map[string]interface{}{"page": fmt.Sprintf("%d", i)}))
	}

	first, err := as.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := as.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.NotEqual(t, first[0].ID, second[0].ID)
}

func TestAuditStore_ListLimitBounds(t *testing.T) {
	s := newTestStore(t)
	as := NewAuditStore(s)
	ctx := context.Background()

	require.NoError(t, as.Append(ctx, models.EventExport, "203.0.113.7", nil))

	// zero limit falls back to the default
	entries, err := as.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// excessive limit is capped, negative offset clamped
	entries, err = as.List(ctx, 10000, -5)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
