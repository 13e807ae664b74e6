package availability

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/tablebooking/internal/domain"
	"github.com/Domenick1991/tablebooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Restaurant), args.Error(1)
}

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, params repository.CreateReservationParams) (*domain.Reservation, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReservationRepository) ConflictingTableIDs(ctx context.Context, tableIDs []int64, from, to time.Time) ([]int64, error) {
	args := m.Called(ctx, tableIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockReservationRepository) DueForReminder(ctx context.Context, from, to time.Time) ([]domain.Reservation, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) MarkReminded(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetCatalog(ctx context.Context) ([]domain.Restaurant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Restaurant), args.Error(1)
}

func (m *MockCache) SetCatalog(ctx context.Context, restaurants []domain.Restaurant) error {
	args := m.Called(ctx, restaurants)
	return args.Error(0)
}

func sampleCatalog() []domain.Restaurant {
	return []domain.Restaurant{{
		ID:           1,
		Name:         "Sample Restaurant",
		Endorsements: []domain.Endorsement{{ID: 1, Name: "Vegetarian-Friendly"}},
		Tables:       []domain.Table{{ID: 10, RestaurantID: 1, Capacity: 4}},
	}}
}

func TestFindAvailable_MatchingEndorsement(t *testing.T) {
	catalog := &MockCatalogRepository{}
	reservations := &MockReservationRepository{}
	service := NewAvailabilityService(catalog, reservations, nil)

	at := time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC)

	catalog.On("ListRestaurants", mock.Anything).Return(sampleCatalog(), nil)
	reservations.On("ConflictingTableIDs", mock.Anything, []int64{10},
		at.Add(-domain.BookingWindow), at.Add(domain.BookingWindow)).Return(nil, nil)

	got, err := service.FindAvailable(context.Background(), 4, at, []string{"Vegetarian"})

	assert.NoError(t, err)
	assert.Equal(t, []AvailableTable{{RestaurantName: "Sample Restaurant", TableID: 10}}, got)
	reservations.AssertExpectations(t)
}

func TestFindAvailable_NoMatchingEndorsement(t *testing.T) {
	catalog := &MockCatalogRepository{}
	reservations := &MockReservationRepository{}
	service := NewAvailabilityService(catalog, reservations, nil)

	at := time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC)

	catalog.On("ListRestaurants", mock.Anything).Return(sampleCatalog(), nil)

	got, err := service.FindAvailable(context.Background(), 4, at, []string{"Impossibly picky"})

	assert.NoError(t, err)
	assert.Empty(t, got)
	reservations.AssertNotCalled(t, "ConflictingTableIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFindAvailable_CapacityTooSmall(t *testing.T) {
	catalog := &MockCatalogRepository{}
	reservations := &MockReservationRepository{}
	service := NewAvailabilityService(catalog, reservations, nil)

	at := time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC)

	catalog.On("ListRestaurants", mock.Anything).Return(sampleCatalog(), nil)

	got, err := service.FindAvailable(context.Background(), 6, at, nil)

	assert.NoError(t, err)
	assert.Empty(t, got)
	reservations.AssertNotCalled(t, "ConflictingTableIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFindAvailable_ConflictingTableExcluded(t *testing.T) {
	catalog := &MockCatalogRepository{}
	reservations := &MockReservationRepository{}
	service := NewAvailabilityService(catalog, reservations, nil)

	at := time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC)

	catalog.On("ListRestaurants", mock.Anything).Return(sampleCatalog(), nil)
	reservations.On("ConflictingTableIDs", mock.Anything, []int64{10},
		at.Add(-domain.BookingWindow), at.Add(domain.BookingWindow)).Return([]int64{10}, nil)

	got, err := service.FindAvailable(context.Background(), 4, at, nil)

	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindAvailable_InvalidPartySize(t *testing.T) {
	catalog := &MockCatalogRepository{}
	reservations := &MockReservationRepository{}
	service := NewAvailabilityService(catalog, reservations, nil)

	_, err := service.FindAvailable(context.Background(), 0, time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	catalog.AssertNotCalled(t, "ListRestaurants", mock.Anything)
}

func TestFindAvailable_CatalogServedFromCache(t *testing.T) {
	catalog := &MockCatalogRepository{}
	reservations := &MockReservationRepository{}
	cacheMock := &MockCache{}
	service := NewAvailabilityService(catalog, reservations, cacheMock)

	at := time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC)

	cacheMock.On("GetCatalog", mock.Anything).Return(sampleCatalog(), nil)
	reservations.On("ConflictingTableIDs", mock.Anything, []int64{10},
		at.Add(-domain.BookingWindow), at.Add(domain.BookingWindow)).Return(nil, nil)

	got, err := service.FindAvailable(context.Background(), 2, at, nil)

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	catalog.AssertNotCalled(t, "ListRestaurants", mock.Anything)
}

func TestFindAvailable_CacheMissFallsBackAndWritesBack(t *testing.T) {
	catalog := &MockCatalogRepository{}
	reservations := &MockReservationRepository{}
	cacheMock := &MockCache{}
	service := NewAvailabilityService(catalog, reservations, cacheMock)

	at := time.Date(2024, 5, 1, 19, 30, 0, 0, time.UTC)
	restaurants := sampleCatalog()

	cacheMock.On("GetCatalog", mock.Anything).Return(nil, nil)
	catalog.On("ListRestaurants", mock.Anything).Return(restaurants, nil)
	cacheMock.On("SetCatalog", mock.Anything, restaurants).Return(nil)
	reservations.On("ConflictingTableIDs", mock.Anything, []int64{10},
		at.Add(-domain.BookingWindow), at.Add(domain.BookingWindow)).Return(nil, nil)

	got, err := service.FindAvailable(context.Background(), 2, at, nil)

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	cacheMock.AssertExpectations(t)
	catalog.AssertExpectations(t)
}
