package services

import (
	"context"
	"log/slog"

	portsrepo "github.com/SscSPs/property_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/property_ledger/internal/core/ports/services"
)

type overdueService struct {
	BaseService
	obligationRepo portsrepo.ObligationWriter
}

// NewOverdueService creates the overdue sweeper service.
func NewOverdueService(repo portsrepo.ObligationWriter, options ...ServiceOption) portssvc.OverdueSvc {
	return &overdueService{BaseService: newBaseService(options...), obligationRepo: repo}
}

var _ portssvc.OverdueSvc = (*overdueService)(nil)

// MarkOverdue runs the conditional pending -> overdue update. Running it twice in a row
// transitions nothing the second time.
func (s *overdueService) MarkOverdue(ctx context.Context, userID string) (int64, error) {
	asOf := s.Now()
	count, err := s.obligationRepo.MarkOverdue(ctx, userID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Overdue sweep failed", slog.String("user_id", userID))
		return 0, err
	}
	s.LogInfo(ctx, "Overdue sweep completed",
		slog.String("user_id", userID),
		slog.Time("as_of", asOf),
		slog.Int64("transitioned", count))
	return count, nil
}
