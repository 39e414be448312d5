package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/domain"
	"github.com/taha-yassine-romdhane/espace-iris-sub013/internal/repository"
)

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListIDsWithGapPeriods(ctx context.Context) ([]int32, error) {
	args := m.Called(ctx)
	return args.Get(0).([]int32), args.Error(1)
}

// MockBondRepo
type MockBondRepo struct {
	mock.Mock
}

func (m *MockBondRepo) ListByRental(ctx context.Context, rentalID int32) ([]domain.CNAMBond, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.CNAMBond), args.Error(1)
}

// MockPeriodRepo
type MockPeriodRepo struct {
	mock.Mock
}

func (m *MockPeriodRepo) Create(ctx context.Context, period *domain.RentalPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}
func (m *MockPeriodRepo) ListByRental(ctx context.Context, rentalID int32) ([]domain.RentalPeriod, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.RentalPeriod), args.Error(1)
}
func (m *MockPeriodRepo) UpdateAmount(ctx context.Context, id int32, amount decimal.Decimal) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

// MockConfigurationRepo
type MockConfigurationRepo struct {
	mock.Mock
}

func (m *MockConfigurationRepo) GetForUpdate(ctx context.Context, rentalID int32) (*domain.RentalConfiguration, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalConfiguration), args.Error(1)
}
func (m *MockConfigurationRepo) UpdateTotals(ctx context.Context, cfg *domain.RentalConfiguration) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}

// fakeTx runs fn against the mocks and records the outcome a real
// transaction would have had.
type fakeTx struct {
	repos      repository.Repositories
	committed  int
	rolledBack int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	if err := fn(ctx, f.repos); err != nil {
		f.rolledBack++
		return err
	}
	f.committed++
	return nil
}

type mocks struct {
	rentals *MockRentalRepo
	bonds   *MockBondRepo
	periods *MockPeriodRepo
	configs *MockConfigurationRepo
	notes   *MockNotificationRepo
	repos   repository.Repositories
	tx      *fakeTx
}

func newMocks() *mocks {
	m := &mocks{
		rentals: new(MockRentalRepo),
		bonds:   new(MockBondRepo),
		periods: new(MockPeriodRepo),
		configs: new(MockConfigurationRepo),
		notes:   new(MockNotificationRepo),
	}
	m.repos = repository.Repositories{
		Rentals:        m.rentals,
		Bonds:          m.bonds,
		Periods:        m.periods,
		Configurations: m.configs,
		Notifications:  m.notes,
	}
	m.tx = &fakeTx{repos: m.repos}
	return m
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func datePtr(t *testing.T, s string) *time.Time {
	d := date(t, s)
	return &d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func decEq(expected string) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(dec(expected)) })
}

func testRental(id int32, monthlyPrice string) *domain.Rental {
	return &domain.Rental{
		ID:         id,
		RentalCode: "LOC-0007",
		PatientID:  3,
		DeviceID:   11,
		Device:     domain.Device{ID: 11, Name: "Concentrateur O2", MonthlyPrice: dec(monthlyPrice)},
		Status:     domain.RentalStatusActive,
	}
}
