package plans

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"fitplan/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const insertInputQuery = `(?s)^INSERT\s+INTO\s+plan_inputs\s*\(user_id,\s*age,\s*weight,\s*height,\s*goal,\s*diet_preference,\s*activity_level\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7\)\s*$`
const insertRecordQuery = `(?s)^INSERT\s+INTO\s+plan_records\s*\(user_id,\s*plan_details\)\s*VALUES\s*\(\$1,\s*\$2\)\s*$`
const listQuery = `(?s)^SELECT\s+id,\s*user_id,\s*plan_details,\s*created_at\s+FROM\s+plan_records\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s+DESC\s*$`

func sampleInput() *models.PlanInput {
	return &models.PlanInput{
		Age: 30, Weight: 70, Height: 175,
		Goal: "weight_loss", DietPreference: "veg", ActivityLevel: "active",
	}
}

func TestCreateInput_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertInputQuery).
		WithArgs(int64(7), 30, 70.0, 175.0, "weight_loss", "veg", "active").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.CreateInput(context.Background(), 7, sampleInput()); err != nil {
		t.Fatalf("CreateInput error: %v", err)
	}
}

func TestCreateInput_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertInputQuery).
		WithArgs(int64(7), 30, 70.0, 175.0, "weight_loss", "veg", "active").
		WillReturnError(errors.New("db down"))

	err := repo.CreateInput(context.Background(), 7, sampleInput())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestCreateRecord_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertRecordQuery).
		WithArgs(int64(7), "### Plan").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.CreateRecord(context.Background(), 7, "### Plan"); err != nil {
		t.Fatalf("CreateRecord error: %v", err)
	}
}

func TestListByUser_OrderedNewestFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "plan_details", "created_at"}).
		AddRow(int64(2), int64(7), "newer", now).
		AddRow(int64(1), int64(7), "older", now.Add(-time.Hour))
	mock.ExpectQuery(listQuery).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(got) != 2 || got[0].PlanDetails != "newer" || got[1].PlanDetails != "older" {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestListByUser_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "user_id", "plan_details", "created_at"})
	mock.ExpectQuery(listQuery).
		WithArgs(int64(9)).
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), 9)
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}
