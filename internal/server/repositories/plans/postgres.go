package plans

import (
	"context"
	"fmt"

	"fitplan/internal/dbx"
	"fitplan/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateInput(ctx context.Context, userID int64, input *models.PlanInput) error {

	query :=
		`INSERT INTO plan_inputs (user_id, age, weight, height, goal, diet_preference, activity_level)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		userID, input.Age, input.Weight, input.Height,
		input.Goal, input.DietPreference, input.ActivityLevel)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) CreateRecord(ctx context.Context, userID int64, planDetails string) error {

	query :=
		`INSERT INTO plan_records (user_id, plan_details)
		 VALUES ($1, $2)
		 `

	_, err := r.db.ExecContext(ctx, query, userID, planDetails)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// ListByUser returns the user's plan records, newest first. The secondary
// sort on id keeps the order stable for records created within the same
// timestamp tick.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.PlanRecord, error) {

	query :=
		`SELECT id, user_id, plan_details, created_at FROM plan_records
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	records := []models.PlanRecord{}
	for rows.Next() {
		var rec models.PlanRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.PlanDetails, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return records, nil
}
