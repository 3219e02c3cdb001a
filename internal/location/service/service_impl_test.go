package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/farmstand/internal/clock"
	"github.com/smallbiznis/farmstand/internal/location/domain"
	"github.com/smallbiznis/farmstand/internal/location/repository"
	"github.com/smallbiznis/farmstand/pkg/recordstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T, seed ...domain.Location) (domain.Service, *clock.FakeClock) {
	t.Helper()
	store := recordstore.New(recordstore.NewMemoryBackend(), repository.Collection, func() []domain.Location {
		return append([]domain.Location(nil), seed...)
	})
	clk := clock.NewFakeClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	svc := New(Params{
		Log:   zaptest.NewLogger(t),
		Repo:  repository.New(store),
		Clock: clk,
	})
	return svc, clk
}

func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

func TestCreateDerivesIDAndDefaults(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()

	loc, err := svc.Create(ctx, domain.CreateRequest{Name: "Test Farm"})
	require.NoError(t, err)
	assert.Equal(t, "test-farm", loc.ID)
	assert.Equal(t, 0, loc.Products)
	assert.True(t, loc.IsActive)
	assert.Equal(t, clk.Now(), loc.CreatedAt)

	items, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, *loc, items[0])
}

func TestCreateRequiresName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(context.Background(), domain.CreateRequest{Name: "!!!"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestCreateSuffixesCollidingID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.CreateRequest{Name: "Test Farm"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, domain.CreateRequest{Name: "Test  Farm!", IsActive: boolPtr(false)})
	require.NoError(t, err)

	assert.Equal(t, "test-farm", first.ID)
	assert.Equal(t, "test-farm-2", second.ID)
	assert.False(t, second.IsActive)

	active, err := svc.List(ctx, domain.ListRequest{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "test-farm", active[0].ID)
}

func TestUpdateMergesPatch(t *testing.T) {
	svc, clk := newTestService(t, domain.Location{
		ID:          "north-field",
		Name:        "North Field",
		Address:     "1 Farm Rd",
		Coordinates: &domain.Coordinates{Lat: 1, Lng: 2},
		IsActive:    true,
		Products:    3,
	})
	ctx := context.Background()
	clk.Advance(time.Hour)

	updated, err := svc.Update(ctx, "north-field", domain.Patch{
		Manager:     strPtr("Ada"),
		Coordinates: &domain.Coordinates{Lat: 5, Lng: 6},
	})
	require.NoError(t, err)
	assert.Equal(t, "North Field", updated.Name)
	assert.Equal(t, "1 Farm Rd", updated.Address)
	assert.Equal(t, "Ada", updated.Manager)
	assert.Equal(t, &domain.Coordinates{Lat: 5, Lng: 6}, updated.Coordinates)
	assert.Equal(t, 3, updated.Products)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, clk.Now(), *updated.UpdatedAt)

	got, err := svc.Get(ctx, "north-field")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Manager)
}

func TestUpdateErrors(t *testing.T) {
	svc, _ := newTestService(t, domain.Location{ID: "a", Name: "A"})
	ctx := context.Background()

	_, err := svc.Update(ctx, "missing", domain.Patch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Update(ctx, "a", domain.Patch{Name: strPtr(" ")})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Update(ctx, "", domain.Patch{})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t, domain.Location{ID: "a", Name: "A"}, domain.Location{ID: "b", Name: "B"})
	ctx := context.Background()

	deleted, err := svc.Delete(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", deleted.Name)

	_, err = svc.Delete(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	items, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)
}

func TestResolveFallsBackToFirst(t *testing.T) {
	svc, _ := newTestService(t, domain.Location{ID: "a", Name: "A"}, domain.Location{ID: "b", Name: "B"})
	ctx := context.Background()

	loc, fallback, err := svc.Resolve(ctx, "b")
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, "B", loc.Name)

	loc, fallback, err = svc.Resolve(ctx, "nowhere")
	require.NoError(t, err)
	assert.True(t, fallback)
	require.NotNil(t, loc)
	assert.Equal(t, "a", loc.ID)
}

func TestResolveEmptyCollection(t *testing.T) {
	svc, _ := newTestService(t)

	loc, fallback, err := svc.Resolve(context.Background(), "anything")
	require.NoError(t, err)
	assert.Nil(t, loc)
	assert.False(t, fallback)
}

func TestAdjustProductCountFloorsAtZero(t *testing.T) {
	svc, _ := newTestService(t, domain.Location{ID: "a", Name: "A", Products: 1})
	ctx := context.Background()

	require.NoError(t, svc.AdjustProductCount(ctx, "a", -1))
	require.NoError(t, svc.AdjustProductCount(ctx, "a", -1))
	require.NoError(t, svc.AdjustProductCount(ctx, "unknown", 1))

	loc, err := svc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 0, loc.Products)

	require.NoError(t, svc.AdjustProductCount(ctx, "a", 2))
	loc, err = svc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, loc.Products)
}

func TestReconcileOverwritesCounters(t *testing.T) {
	svc, _ := newTestService(t,
		domain.Location{ID: "a", Name: "A", Products: 7},
		domain.Location{ID: "b", Name: "B", Products: 0},
	)

	items, err := svc.Reconcile(context.Background(), map[string]int{"b": 2, "ghost": 4})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 0, items[0].Products)
	assert.Equal(t, 2, items[1].Products)
}
