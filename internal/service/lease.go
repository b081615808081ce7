package service

import (
	"context"
	"errors"
	"time"

	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/logger"
	"krishimitra-backend/internal/repository"
)

type leaseService struct {
	tx     repository.Transactor
	ledger repository.LedgerRepository
}

func NewLeaseService(tx repository.Transactor, ledger repository.LedgerRepository) LeaseService {
	return &leaseService{tx: tx, ledger: ledger}
}

// UpdateLeaseStatus moves a pending lease to a terminal status on behalf
// of the listing owner and re-opens the listing.
func (s *leaseService) UpdateLeaseStatus(ctx context.Context, ownerID, leaseID int32, status domain.LeaseStatus) (*domain.Lease, error) {
	if !status.Terminal() {
		return nil, domain.NewError(domain.CodeValidation, "Invalid status")
	}

	var lease *domain.Lease
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		l, err := repos.Ledger.GetLease(ctx, leaseID, true)
		if err != nil {
			return err
		}
		if l.OwnerID != ownerID {
			return domain.NewError(domain.CodeForbidden, "Unauthorized: Only owner can update status")
		}
		if !l.Status.CanTransitionTo(status) {
			return domain.NewError(domain.CodeInvalidStateTransition,
				"Lease cannot move from %s to %s", l.Status, status)
		}
		if err := closeLease(ctx, repos, l, status); err != nil {
			return err
		}
		lease = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Lease status updated", "lease_id", leaseID, "status", status)
	return lease, nil
}

// ReleaseExpiredLeases completes pending leases whose end date has
// passed. Each lease is closed in its own transaction so one failure
// does not hold back the rest.
func (s *leaseService) ReleaseExpiredLeases(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.ledger.ListExpiredLeaseIDs(ctx, now)
	if err != nil {
		return 0, err
	}

	released := 0
	var errs []error
	for _, id := range ids {
		closed := false
		err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			l, err := repos.Ledger.GetLease(ctx, id, true)
			if err != nil {
				return err
			}
			// Closed by the owner since the listing query ran.
			if l.Status != domain.LeaseStatusPending {
				return nil
			}
			if err := closeLease(ctx, repos, l, domain.LeaseStatusCompleted); err != nil {
				return err
			}
			closed = true
			return nil
		})
		if err != nil {
			logger.ErrorContext(ctx, "Failed to release expired lease", "lease_id", id, "error", err)
			errs = append(errs, err)
			continue
		}
		if closed {
			released++
		}
	}
	return released, errors.Join(errs...)
}

func (s *leaseService) ListAllLeases(ctx context.Context) ([]domain.Lease, error) {
	return s.ledger.ListLeases(ctx)
}

// DeleteLease removes a lease record. A pending lease re-opens its listing
// first so the land or equipment does not stay locked.
func (s *leaseService) DeleteLease(ctx context.Context, leaseID int32) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		l, err := repos.Ledger.GetLease(ctx, leaseID, true)
		if err != nil {
			return err
		}
		if l.Status == domain.LeaseStatusPending {
			err := NewAvailabilityManager(repos.Listings).Release(ctx, l.LeaseType, l.ResourceID)
			if err != nil && !errors.Is(err, domain.ErrUnavailable) {
				return err
			}
		}
		return repos.Ledger.DeleteLease(ctx, leaseID)
	})
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "Lease deleted", "lease_id", leaseID)
	return nil
}

func closeLease(ctx context.Context, repos repository.Repositories, l *domain.Lease, status domain.LeaseStatus) error {
	if err := repos.Ledger.UpdateLeaseStatus(ctx, l.ID, status); err != nil {
		return err
	}
	l.Status = status

	err := NewAvailabilityManager(repos.Listings).Release(ctx, l.LeaseType, l.ResourceID)
	if errors.Is(err, domain.ErrUnavailable) {
		logger.WarnContext(ctx, "Leased listing already open", "lease_id", l.ID, "lease_type", l.LeaseType, "resource_id", l.ResourceID)
		return nil
	}
	return err
}
