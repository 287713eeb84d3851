package schedule

import (
	"context"
)

type ScheduleService interface {
	List(ctx context.Context) ([]OverrideResponse, error)
	ListInRange(ctx context.Context, req RangeRequest) ([]OverrideResponse, error)
	Get(ctx context.Context, id string) (OverrideResponse, error)
	// Create and Update persist the override in one transaction, then notify the
	// requested employees. Email failures are tallied, never rolled back.
	Create(ctx context.Context, req CreateOverrideRequest) (OverrideMutationResponse, error)
	Update(ctx context.Context, req UpdateOverrideRequest) (OverrideMutationResponse, error)
	Delete(ctx context.Context, id string) error
}
