package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"krishimitra-backend/internal/config"
	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLeaseService struct {
	mock.Mock
}

func (m *MockLeaseService) UpdateLeaseStatus(ctx context.Context, ownerID, leaseID int32, status domain.LeaseStatus) (*domain.Lease, error) {
	args := m.Called(ctx, ownerID, leaseID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lease), args.Error(1)
}

func (m *MockLeaseService) ReleaseExpiredLeases(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockLeaseService) ListAllLeases(ctx context.Context) ([]domain.Lease, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lease), args.Error(1)
}

func (m *MockLeaseService) DeleteLease(ctx context.Context, leaseID int32) error {
	args := m.Called(ctx, leaseID)
	return args.Error(0)
}

func utcTime() any {
	return mock.MatchedBy(func(t time.Time) bool { return t.Location() == time.UTC })
}

func TestJobRunner_ReleaseExpiredLeases(t *testing.T) {
	cfg := &config.Config{}

	t.Run("Success", func(t *testing.T) {
		leases := new(MockLeaseService)
		leases.On("ReleaseExpiredLeases", mock.Anything, utcTime()).Return(2, nil).Once()

		jobs.NewJobRunner(&jobs.Services{Lease: leases}, cfg).ReleaseExpiredLeases()

		leases.AssertExpectations(t)
	})

	t.Run("FailureDoesNotPanic", func(t *testing.T) {
		leases := new(MockLeaseService)
		leases.On("ReleaseExpiredLeases", mock.Anything, utcTime()).Return(1, errors.New("lease 4: storage failure")).Once()

		runner := jobs.NewJobRunner(&jobs.Services{Lease: leases}, cfg)
		assert.NotPanics(t, runner.RunAllJobs)

		leases.AssertExpectations(t)
	})

	t.Run("PanicIsRecovered", func(t *testing.T) {
		leases := new(MockLeaseService)
		leases.On("ReleaseExpiredLeases", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			panic("boom")
		}).Once()

		runner := jobs.NewJobRunner(&jobs.Services{Lease: leases}, cfg)
		assert.NotPanics(t, runner.ReleaseExpiredLeases)
	})
}
