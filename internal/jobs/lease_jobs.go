package jobs

import (
	"context"

	"krishimitra-backend/internal/logger"
)

const ReleaseExpiredLeasesJob = "release-expired-leases"

// ReleaseExpiredLeases completes pending leases past their end date and
// puts the leased land or equipment back on the market.
func (jr *JobRunner) ReleaseExpiredLeases() {
	jr.runWithRecovery(ReleaseExpiredLeasesJob, func() bool {
		ctx := context.Background()

		count, err := jr.services.Lease.ReleaseExpiredLeases(ctx, jr.now().UTC())
		if err != nil {
			logger.Error("Failed to release some expired leases", "released", count, "error", err)
			return false
		}

		logger.Info("Released expired leases", "count", count)
		return true
	})
}
