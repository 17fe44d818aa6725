package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	_ "github.com/lib/pq"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/pressly/goose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	errorvalues "github.com/avdeev/habits/internal/error_values"
	"github.com/avdeev/habits/internal/repository"
	"github.com/avdeev/habits/pkg/entity"
)

var (
	habitID   = uuid.New()
	userID    = "Vt3cnOt2yJV2FFxfBzvkuE325sj1"
	createdAt = time.Date(2023, time.January, 16, 0, 0, 0, 0, time.UTC)
)

func TestCreateHabit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	habitsRepo := repository.NewHabitsRepoWithConn(mock)
	insertHabit := regexp.QuoteMeta(`INSERT INTO habits (title, created_at, user_id) VALUES ($1, $2, $3) RETURNING id;`)
	insertWeekDay := regexp.QuoteMeta(`INSERT INTO habit_week_days (habit_id, week_day) VALUES ($1, $2);`)
	habit := entity.Habit{
		Title:     "Drink water",
		CreatedAt: createdAt,
		UserID:    userID,
	}
	weekDays := []int{1, 3}
	testCases := []struct {
		Desc            string
		Error           error
		MockPrepareFunc func()
	}{
		{
			Desc:  "successful",
			Error: nil,
			MockPrepareFunc: func() {
				mock.ExpectBegin()
				mock.ExpectQuery(insertHabit).WithArgs(habit.Title, habit.CreatedAt, habit.UserID).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(habitID))
				mock.ExpectExec(insertWeekDay).WithArgs(habitID, 1).WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec(insertWeekDay).WithArgs(habitID, 3).WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit()
			},
		},
		{
			Desc:  "habit insert error",
			Error: errors.New("creating habit db error: db error"),
			MockPrepareFunc: func() {
				mock.ExpectBegin()
				mock.ExpectQuery(insertHabit).WithArgs(habit.Title, habit.CreatedAt, habit.UserID).
					WillReturnError(errors.New("db error"))
				mock.ExpectRollback()
			},
		},
		{
			Desc:  "week day insert error",
			Error: errors.New("creating habit week day db error: db error"),
			MockPrepareFunc: func() {
				mock.ExpectBegin()
				mock.ExpectQuery(insertHabit).WithArgs(habit.Title, habit.CreatedAt, habit.UserID).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(habitID))
				mock.ExpectExec(insertWeekDay).WithArgs(habitID, 1).WillReturnError(errors.New("db error"))
				mock.ExpectRollback()
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepareFunc()
			id, err := habitsRepo.Create(ctx, &habit, weekDays)
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, habitID, id)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetHabitByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	habitsRepo := repository.NewHabitsRepoWithConn(mock)
	query := regexp.QuoteMeta(`SELECT title, created_at, user_id FROM habits WHERE id = $1;`)
	testCases := []struct {
		Desc            string
		Error           error
		MockPrepareFunc func()
	}{
		{
			Desc:  "successful",
			Error: nil,
			MockPrepareFunc: func() {
				mock.ExpectQuery(query).WithArgs(habitID).WillReturnRows(
					pgxmock.NewRows([]string{"title", "created_at", "user_id"}).
						AddRow("Drink water", createdAt, userID),
				)
			},
		},
		{
			Desc:  "not found",
			Error: errorvalues.ErrHabitNotFound,
			MockPrepareFunc: func() {
				mock.ExpectQuery(query).WithArgs(habitID).WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			Desc:  "db error",
			Error: errors.New("getting habit by id error: db error"),
			MockPrepareFunc: func() {
				mock.ExpectQuery(query).WithArgs(habitID).WillReturnError(errors.New("db error"))
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepareFunc()
			habit, err := habitsRepo.GetByID(ctx, habitID)
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, habitID, habit.ID)
				assert.Equal(t, userID, habit.UserID)
			}
		})
	}
}

func TestGetEligible(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	habitsRepo := repository.NewHabitsRepoWithConn(mock)
	query := regexp.QuoteMeta(`SELECT h.id, h.title, h.created_at, h.user_id FROM habits h`)
	date := createdAt
	weekDay := 1
	secondID := uuid.New()
	testCases := []struct {
		Desc            string
		Error           error
		Expected        int
		MockPrepareFunc func()
	}{
		{
			Desc:     "two eligible habits",
			Error:    nil,
			Expected: 2,
			MockPrepareFunc: func() {
				mock.ExpectQuery(query).WithArgs(userID, date, weekDay).WillReturnRows(
					pgxmock.NewRows([]string{"id", "title", "created_at", "user_id"}).
						AddRow(habitID, "Drink water", createdAt, userID).
						AddRow(secondID, "Read", createdAt, userID),
				)
			},
		},
		{
			Desc:     "no eligible habits",
			Error:    nil,
			Expected: 0,
			MockPrepareFunc: func() {
				mock.ExpectQuery(query).WithArgs(userID, date, weekDay).WillReturnRows(
					pgxmock.NewRows([]string{"id", "title", "created_at", "user_id"}),
				)
			},
		},
		{
			Desc:  "db error",
			Error: errors.New("getting eligible habits error: db error"),
			MockPrepareFunc: func() {
				mock.ExpectQuery(query).WithArgs(userID, date, weekDay).WillReturnError(errors.New("db error"))
			},
		},
	}
	ctx := context.Background()
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			tc.MockPrepareFunc()
			habits, err := habitsRepo.GetEligible(ctx, userID, date, weekDay)
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
			} else {
				assert.NoError(t, err)
				assert.Len(t, habits, tc.Expected)
			}
		})
	}
}

func TestHabitsIntegrational(t *testing.T) {
	cfg := setupTestDB(t)
	repo := repository.NewHabitsRepo(cfg)
	ctx := context.Background()
	monday := time.Date(2023, time.January, 16, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	var waterID, readID uuid.UUID
	t.Run("create", func(t *testing.T) {
		var err error
		waterID, err = repo.Create(ctx, &entity.Habit{
			Title:     "Drink water",
			CreatedAt: monday,
			UserID:    userID,
		}, []int{1})
		require.NoError(t, err)
		readID, err = repo.Create(ctx, &entity.Habit{
			Title:     "Read",
			CreatedAt: tuesday,
			UserID:    userID,
		}, []int{1, 2})
		require.NoError(t, err)
		_, err = repo.Create(ctx, &entity.Habit{
			Title:     "Run",
			CreatedAt: monday,
			UserID:    userID,
		}, []int{0})
		require.NoError(t, err)
	})
	t.Run("get by id", func(t *testing.T) {
		habit, err := repo.GetByID(ctx, waterID)
		require.NoError(t, err)
		assert.Equal(t, "Drink water", habit.Title)
		assert.Equal(t, userID, habit.UserID)
		assert.Equal(t, monday, habit.CreatedAt)
	})
	t.Run("get by unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, errorvalues.ErrHabitNotFound)
	})
	t.Run("eligible on monday", func(t *testing.T) {
		// "Read" is created on tuesday and must not leak back in time,
		// "Run" isn't scheduled on mondays
		habits, err := repo.GetEligible(ctx, userID, monday, 1)
		require.NoError(t, err)
		require.Len(t, habits, 1)
		assert.Equal(t, waterID, habits[0].ID)
	})
	t.Run("habit created exactly on date is eligible", func(t *testing.T) {
		habits, err := repo.GetEligible(ctx, userID, tuesday, 2)
		require.NoError(t, err)
		require.Len(t, habits, 1)
		assert.Equal(t, readID, habits[0].ID)
	})
	t.Run("eligible a week later", func(t *testing.T) {
		habits, err := repo.GetEligible(ctx, userID, monday.AddDate(0, 0, 7), 1)
		require.NoError(t, err)
		assert.Len(t, habits, 2)
	})
	t.Run("unscheduled weekday yields nothing", func(t *testing.T) {
		habits, err := repo.GetEligible(ctx, userID, monday.AddDate(0, 0, 7), 3)
		require.NoError(t, err)
		assert.Empty(t, habits)
	})
	t.Run("other user sees nothing", func(t *testing.T) {
		habits, err := repo.GetEligible(ctx, "another_user", monday, 1)
		require.NoError(t, err)
		assert.Empty(t, habits)
	})
}

type testPGConfig struct {
	connStr string
}

func (cfg *testPGConfig) ConnString() string {
	return cfg.connStr
}

func setupTestDB(t *testing.T) *testPGConfig {
	container, err := postgres.Run(context.Background(), "postgres:17",
		postgres.WithUsername("test_user"),
		postgres.WithDatabase("habits"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatal("error running test container: " + err.Error())
	}
	connStr, err := container.ConnectionString(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	connStr += "sslmode=disable"
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatal(err)
	}
	err = goose.Up(conn, "../../migrations")
	if err != nil {
		t.Fatal(err)
	}
	conn.Close()
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})
	return &testPGConfig{
		connStr: connStr,
	}
}
