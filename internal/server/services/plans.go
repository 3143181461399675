package services

import (
	"context"
	"database/sql"

	"fitplan/internal/dbx"
	"fitplan/internal/logging"
	"fitplan/internal/server/models"
	"fitplan/internal/server/repositories/plans"
)

// PlanGenerator produces a plan for one questionnaire. Implemented by the
// worker adapter; faked in tests.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, input *models.PlanInput) (string, error)
}

// GeneratedPlan is the outcome of one generation request. Saved is false
// when the worker produced a plan but persisting it failed: the plan is
// still handed to the caller rather than discarded.
type GeneratedPlan struct {
	Plan  string
	Saved bool
}

// PlanService runs the generation pipeline and serves plan history.
type PlanService struct {
	db        *sql.DB
	generator PlanGenerator
	logger    logging.Logger
}

func NewPlanService(db *sql.DB, generator PlanGenerator, logger logging.Logger) *PlanService {
	return &PlanService{db: db, generator: generator, logger: logger}
}

// Generate validates the questionnaire, delegates to the worker, and
// persists the input snapshot together with the plan record in a single
// transaction. A worker error aborts before any write. A persistence error
// after a successful worker run is logged and reported through Saved=false;
// the computed plan is never thrown away.
func (s *PlanService) Generate(ctx context.Context, userID int64, input *models.PlanInput) (*GeneratedPlan, error) {

	if err := input.Validate(); err != nil {
		return nil, err
	}

	plan, err := s.generator.GeneratePlan(ctx, input)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := plans.NewPostgresRepository(tx)
		if err := repo.CreateInput(ctx, userID, input); err != nil {
			return err
		}
		return repo.CreateRecord(ctx, userID, plan)
	})
	if err != nil {
		s.logger.Error(ctx, "plan generated but not persisted", "user_id", userID, "error", err.Error())
		return &GeneratedPlan{Plan: plan, Saved: false}, nil
	}

	return &GeneratedPlan{Plan: plan, Saved: true}, nil
}

// History returns the user's plan records, newest first.
func (s *PlanService) History(ctx context.Context, userID int64) ([]models.PlanRecord, error) {
	repo := plans.NewPostgresRepository(s.db)
	return repo.ListByUser(ctx, userID)
}
