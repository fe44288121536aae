// Package sequence provides the application service that mints public
// identifiers from the shared counter table.
package sequence

import (
	"context"

	"github.com/salesdesk/backend/internal/domain/sequence"
	"github.com/salesdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AllocatorService mints prefixed public identifiers. Counters are global:
// every organization draws from the same sequence per entity type, so values
// observed by one organization can skip numbers taken by another.
type AllocatorService struct {
	counters sequence.CounterRepository
	logger   *zap.Logger
}

// NewAllocatorService creates a new AllocatorService
func NewAllocatorService(counters sequence.CounterRepository, logger *zap.Logger) *AllocatorService {
	return &AllocatorService{
		counters: counters,
		logger:   logger,
	}
}

// AllocateID reserves the next counter value for the entity type and formats
// it as a public identifier. The reservation is permanent: a value handed out
// here is never reissued, even when the caller's enclosing operation fails.
func (s *AllocatorService) AllocateID(ctx context.Context, entityType sequence.EntityType) (string, error) {
	spec, ok := sequence.SpecFor(entityType)
	if !ok {
		return "", shared.NewDomainError("INVALID_ENTITY_TYPE", "Unknown entity type for identifier allocation")
	}

	value, err := s.counters.Increment(ctx, entityType.String())
	if err != nil {
		s.logger.Error("counter increment failed",
			zap.String("entity_type", entityType.String()),
			zap.Error(err))
		return "", shared.ErrAllocationFailed
	}

	id := sequence.Format(spec.Prefix, spec.Width, value)
	s.logger.Debug("allocated public identifier",
		zap.String("entity_type", entityType.String()),
		zap.String("public_id", id))

	return id, nil
}

// CurrentValue returns the last value handed out for the entity type without
// reserving a new one. Zero means the counter has never been used.
func (s *AllocatorService) CurrentValue(ctx context.Context, entityType sequence.EntityType) (int64, error) {
	if !entityType.IsValid() {
		return 0, shared.NewDomainError("INVALID_ENTITY_TYPE", "Unknown entity type for identifier allocation")
	}
	return s.counters.Current(ctx, entityType.String())
}
