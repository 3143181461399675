package models

import (
	"fmt"
	"time"

	"fitplan/internal/common"
)

// PlanInput is the questionnaire snapshot sent to the worker and persisted
// alongside the generated plan. Field names match the worker's wire contract.
type PlanInput struct {
	Age            int     `json:"age"`
	Weight         float64 `json:"weight"`
	Height         float64 `json:"height"`
	Goal           string  `json:"goal"`
	DietPreference string  `json:"diet_preference"`
	ActivityLevel  string  `json:"activity_level"`
}

// Validate checks the questionnaire before it reaches the worker.
func (i *PlanInput) Validate() error {
	if i.Age <= 0 || i.Weight <= 0 || i.Height <= 0 {
		return fmt.Errorf("%w: age, weight and height must be positive", common.ErrValidation)
	}
	if i.Goal == "" || i.DietPreference == "" || i.ActivityLevel == "" {
		return fmt.Errorf("%w: goal, diet_preference and activity_level are required", common.ErrValidation)
	}
	return nil
}

// PlanRecord is one generated plan, append-only, queried by user ordered by
// recency. The JSON field names match what the history endpoint serves.
type PlanRecord struct {
	ID          int64     `json:"-"`
	UserID      int64     `json:"-"`
	PlanDetails string    `json:"plan_details"`
	CreatedAt   time.Time `json:"created_at"`
}
