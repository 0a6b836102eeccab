package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkspot/internal/db"
	apperrors "parkspot/internal/errors"
)

func TestMemoryStore_ListAvailableSpotsKeepsInsertionOrder(t *testing.T) {
	store := NewMemoryStore()
	store.AddSpot(db.ParkingSpot{ID: "s3", Floor: 2, Section: "A", IsAvailable: true})
	store.AddSpot(db.ParkingSpot{ID: "s1", Floor: 1, Section: "A", IsAvailable: false})
	store.AddSpot(db.ParkingSpot{ID: "s2", Floor: 1, Section: "B", IsAvailable: true})

	spots, err := store.ListAvailableSpots(context.Background())
	require.NoError(t, err)
	require.Len(t, spots, 2)
	assert.Equal(t, "s3", spots[0].ID)
	assert.Equal(t, "s2", spots[1].ID)
}

func TestMemoryStore_ListOverlappingIgnoresStatusAndOtherSpots(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	cancelled := newReservation()
	cancelled.Status = db.StatusCancelled
	require.NoError(t, store.InsertReservation(ctx, cancelled))

	other := newReservation()
	other.ID = "res-2"
	other.ParkingSpotID = "spot-2"
	require.NoError(t, store.InsertReservation(ctx, other))

	found, err := store.ListOverlapping(ctx, "spot-1", at(12), at(14))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "res-1", found[0].ID)

	found, err = store.ListOverlapping(ctx, "spot-1", at(13), at(14))
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestMemoryStore_CompareAndSetStatus(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.InsertReservation(ctx, newReservation()))

	require.NoError(t, store.CompareAndSetStatus(ctx, "res-1", db.StatusConfirmed, db.StatusCompleted, at(13)))
	err := store.CompareAndSetStatus(ctx, "res-1", db.StatusConfirmed, db.StatusCancelled, at(13))
	assert.True(t, IsStatusChanged(err))

	err = store.CompareAndSetStatus(ctx, "nope", db.StatusConfirmed, db.StatusCancelled, at(13))
	assert.True(t, apperrors.IsNotFound(err))

	res, err := store.GetReservationByID(ctx, "res-1")
	require.NoError(t, err)
	assert.Equal(t, db.StatusCompleted, res.Status)
	assert.Equal(t, at(13), res.UpdatedAt)
}

func TestMemoryStore_SearchReservationsPages(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for _, id := range []string{"a", "c", "b"} {
		res := newReservation()
		res.ID = id
		require.NoError(t, store.InsertReservation(ctx, res))
	}

	items, total, err := store.SearchReservations(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, "c", items[0].ID)
	assert.Equal(t, "b", items[1].ID)

	items, _, err = store.SearchReservations(ctx, 2, 4)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMemoryStore_ListEndedReservationIDs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ended := newReservation()
	require.NoError(t, store.InsertReservation(ctx, ended))
	cancelled := newReservation()
	cancelled.ID = "res-2"
	cancelled.Status = db.StatusCancelled
	require.NoError(t, store.InsertReservation(ctx, cancelled))

	ids, err := store.ListEndedReservationIDs(ctx, []db.ReservationStatus{db.StatusConfirmed}, at(13))
	require.NoError(t, err)
	assert.Equal(t, []string{"res-1"}, ids)
}

func TestMemoryStore_Users(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	emp := &db.User{Email: "emp@parkspot.test", Role: db.RoleEmployee}
	require.NoError(t, store.CreateUser(ctx, emp, "pw"))
	err := store.CreateUser(ctx, &db.User{Email: "emp@parkspot.test", Role: db.RoleEmployee}, "pw")
	assert.True(t, apperrors.IsConflict(err))

	user, err := store.GetByEmail(ctx, "emp@parkspot.test")
	require.NoError(t, err)
	assert.Equal(t, db.RoleEmployee, user.Role)
	assert.Equal(t, emp.ID, user.ID)

	missing, err := store.GetByEmail(ctx, "who@parkspot.test")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryStore_UserLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a := &db.User{Email: "a@parkspot.test", Role: db.RoleClient}
	b := &db.User{Email: "b@parkspot.test", Role: db.RoleClient}
	require.NoError(t, store.CreateUser(ctx, a, "pw-a"))
	require.NoError(t, store.CreateUser(ctx, b, "pw-b"))

	a.Email = "b@parkspot.test"
	assert.True(t, apperrors.IsConflict(store.UpdateUser(ctx, a, "")))

	a.Email = "renamed@parkspot.test"
	a.FirstName = "Ada"
	require.NoError(t, store.UpdateUser(ctx, a, ""))
	got, err := store.GetUserByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed@parkspot.test", got.Email)
	assert.Equal(t, "Ada", got.FirstName)

	byEmail, err := store.GetByEmail(ctx, "renamed@parkspot.test")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byEmail.ID)

	users, total, err := store.SearchUsers(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, users, 2)
	assert.Greater(t, users[0].ID, users[1].ID)

	require.NoError(t, store.DeleteUser(ctx, a.ID))
	_, err = store.GetUserByID(ctx, a.ID)
	assert.True(t, apperrors.IsNotFound(err))
	assert.True(t, apperrors.IsNotFound(store.DeleteUser(ctx, a.ID)))
	assert.True(t, apperrors.IsNotFound(store.UpdateUser(ctx, a, "")))
}

func TestWindowClampsNegativeOffset(t *testing.T) {
	items := []int{1, 2, 3}
	assert.Equal(t, []int{1, 2}, window(items, 2, -100))
	assert.Empty(t, window(items, 2, 3))
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore().ListAvailableSpots(ctx)
	assert.True(t, apperrors.IsStorage(err))
}
