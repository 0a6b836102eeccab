package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"parkspot/internal/db"
	apperrors "parkspot/internal/errors"
	"parkspot/internal/repository"
)

type MockSpotStore struct {
	mock.Mock
}

func (m *MockSpotStore) GetSpotByID(ctx context.Context, id string) (*db.ParkingSpot, error) {
	args := m.Called(ctx, id)
	spot, _ := args.Get(0).(*db.ParkingSpot)
	return spot, args.Error(1)
}

func (m *MockSpotStore) ListAvailableSpots(ctx context.Context) ([]db.ParkingSpot, error) {
	args := m.Called(ctx)
	spots, _ := args.Get(0).([]db.ParkingSpot)
	return spots, args.Error(1)
}

func (m *MockSpotStore) SearchSpots(ctx context.Context, limit, offset int) ([]db.ParkingSpot, int64, error) {
	args := m.Called(ctx, limit, offset)
	spots, _ := args.Get(0).([]db.ParkingSpot)
	return spots, args.Get(1).(int64), args.Error(2)
}

func spot(id string, floor int, section string) db.ParkingSpot {
	return db.ParkingSpot{ID: id, Number: id, Floor: floor, Section: section, IsAvailable: true}
}

func TestAvailableSpots_GroupsInFirstSeenOrder(t *testing.T) {
	store := repository.NewMemoryStore()
	store.AddSpot(spot("a1", 1, "A"))
	store.AddSpot(spot("b1", 1, "B"))
	store.AddSpot(spot("a2", 1, "A"))
	store.AddSpot(spot("c1", 2, "A"))
	store.AddSpot(db.ParkingSpot{ID: "x", Floor: 3, Section: "Z", IsAvailable: false})
	store.AddSpot(spot("b2", 1, "B"))

	groups, err := NewParkingService(store).AvailableSpots(context.Background())
	require.NoError(t, err)

	require.Len(t, groups, 3)
	assert.Equal(t, 1, groups[0].Floor)
	assert.Equal(t, "A", groups[0].Section)
	assert.Equal(t, 1, groups[1].Floor)
	assert.Equal(t, "B", groups[1].Section)
	assert.Equal(t, 2, groups[2].Floor)
	assert.Equal(t, "A", groups[2].Section)

	ids := func(i int) []string {
		var out []string
		for _, s := range groups[i].AvailableSpots {
			out = append(out, s.ID)
		}
		return out
	}
	assert.Equal(t, []string{"a1", "a2"}, ids(0))
	assert.Equal(t, []string{"b1", "b2"}, ids(1))
	assert.Equal(t, []string{"c1"}, ids(2))
}

func TestAvailableSpots_IdempotentAndIndependentOfReservations(t *testing.T) {
	f := newFixture(t, true)
	svc := NewParkingService(f.store)

	first, err := svc.AvailableSpots(context.Background())
	require.NoError(t, err)
	f.book(t, "spot-1", at(10, 0), at(12, 0))
	second, err := svc.AvailableSpots(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAvailableSpots_EmptyStore(t *testing.T) {
	groups, err := NewParkingService(repository.NewMemoryStore()).AvailableSpots(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestAvailableSpots_RetriesStorageErrors(t *testing.T) {
	store := new(MockSpotStore)
	storageErr := apperrors.Storage("list available parking spots", errors.New("connection reset"))
	store.On("ListAvailableSpots", mock.Anything).Return(nil, storageErr).Twice()
	store.On("ListAvailableSpots", mock.Anything).Return([]db.ParkingSpot{spot("a1", 1, "A")}, nil).Once()

	groups, err := NewParkingService(store).AvailableSpots(context.Background())
	require.NoError(t, err)
	assert.Len(t, groups, 1)
	store.AssertNumberOfCalls(t, "ListAvailableSpots", 3)
}

func TestAvailableSpots_GivesUpAfterThreeAttempts(t *testing.T) {
	store := new(MockSpotStore)
	storageErr := apperrors.Storage("list available parking spots", errors.New("connection reset"))
	store.On("ListAvailableSpots", mock.Anything).Return(nil, storageErr)

	_, err := NewParkingService(store).AvailableSpots(context.Background())
	assert.True(t, apperrors.IsStorage(err))
	store.AssertNumberOfCalls(t, "ListAvailableSpots", 3)
}

func TestSearchSpots_Paging(t *testing.T) {
	store := new(MockSpotStore)
	store.On("SearchSpots", mock.Anything, 10, 10).Return([]db.ParkingSpot{spot("a1", 1, "A")}, int64(11), nil)

	page, err := NewParkingService(store).SearchSpots(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.LastPage)
	assert.False(t, page.HasNextPage)
	assert.Len(t, page.Data, 1)
	store.AssertExpectations(t)
}
