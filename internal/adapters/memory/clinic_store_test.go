package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalpoint/backend/internal/domain/entities"
	apperrors "github.com/vitalpoint/backend/pkg/errors"
)

func TestClinicStore_CreateAndGet(t *testing.T) {
	store := NewClinicStore()
	ctx := context.Background()

	clinic := &entities.Clinic{
		ID:        "c1",
		Name:      "Lakeside Clinic",
		Address:   "1 Lake Rd",
		Latitude:  "6.5244",
		Longitude: "3.3792",
		Category:  "clinic",
	}
	require.NoError(t, store.Create(ctx, clinic))

	fetched, err := store.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Lakeside Clinic", fetched.Name)
	assert.False(t, fetched.CreatedAt.IsZero())
}

func TestClinicStore_DuplicateID(t *testing.T) {
	store := NewClinicStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &entities.Clinic{ID: "c1", Name: "A"}))
	err := store.Create(ctx, &entities.Clinic{ID: "c1", Name: "B"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
}

func TestClinicStore_MissingID(t *testing.T) {
	store := NewClinicStore()
	err := store.Create(context.Background(), &entities.Clinic{Name: "no id"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestClinicStore_GetByID_NotFound(t *testing.T) {
	store := NewClinicStore()
	_, err := store.GetByID(context.Background(), "missing")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestClinicStore_List_InsertionOrder(t *testing.T) {
	store := NewClinicStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Create(ctx, &entities.Clinic{
			ID:   fmt.Sprintf("c%d", i),
			Name: fmt.Sprintf("Clinic %d", i),
		}))
	}

	clinics, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, clinics, 5)
	for i, clinic := range clinics {
		assert.Equal(t, fmt.Sprintf("c%d", i), clinic.ID)
	}
}

func TestClinicStore_ListReturnsCopies(t *testing.T) {
	store := NewClinicStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &entities.Clinic{ID: "c1", Name: "Original"}))

	clinics, err := store.List(ctx)
	require.NoError(t, err)
	clinics[0].Name = "Mutated"

	fetched, err := store.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Original", fetched.Name)
}
