package plans

import (
	"context"

	"fitplan/internal/server/models"
)

// Repository persists plan inputs and generated plan records. Constructed
// over a dbx.DBTX so the two writes of one request can share a transaction.
type Repository interface {
	CreateInput(ctx context.Context, userID int64, input *models.PlanInput) error
	CreateRecord(ctx context.Context, userID int64, planDetails string) error
	ListByUser(ctx context.Context, userID int64) ([]models.PlanRecord, error)
}
