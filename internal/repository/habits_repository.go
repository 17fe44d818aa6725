package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/avdeev/habits/internal/error_values"
	"github.com/avdeev/habits/pkg/cleanup"
	"github.com/avdeev/habits/pkg/entity"
)

type HabitsRepository struct {
	conn PgConnection
}

func NewHabitsRepo(cfg DBConfig) *HabitsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for habitsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing habits pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &HabitsRepository{
		conn: pool,
	}
}

func NewHabitsRepoWithConn(conn PgConnection) *HabitsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for habitsRepo: " + err.Error())
	}
	return &HabitsRepository{
		conn: conn,
	}
}

// Create inserts the habit row and one schedule row per weekday in a single
// transaction, so a habit is never observable without its schedule.
func (hr *HabitsRepository) Create(ctx context.Context, habit *entity.Habit, weekDays []int) (uuid.UUID, error) {
	tx, err := hr.conn.Begin(ctx)
	if err != nil {
		return uuid.UUID{}, errors.New("opening habit tx error: " + err.Error())
	}
	var id uuid.UUID
	row := tx.QueryRow(ctx, `INSERT INTO habits (title, created_at, user_id) VALUES ($1, $2, $3) RETURNING id;`,
		habit.Title,
		habit.CreatedAt,
		habit.UserID,
	)
	if err := row.Scan(&id); err != nil {
		tx.Rollback(ctx)
		return uuid.UUID{}, errors.New("creating habit db error: " + err.Error())
	}
	for _, weekDay := range weekDays {
		_, err = tx.Exec(ctx, `INSERT INTO habit_week_days (habit_id, week_day) VALUES ($1, $2);`, id, weekDay)
		if err != nil {
			tx.Rollback(ctx)
			return uuid.UUID{}, errors.New("creating habit week day db error: " + err.Error())
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return uuid.UUID{}, errors.New("committing habit tx error: " + err.Error())
	}
	return id, nil
}

func (hr *HabitsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error) {
	var habit entity.Habit
	habit.ID = id
	row := hr.conn.QueryRow(ctx, `SELECT title, created_at, user_id FROM habits WHERE id = $1;`, id)
	if err := row.Scan(&habit.Title, &habit.CreatedAt, &habit.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrHabitNotFound
		}
		return nil, errors.New("getting habit by id error: " + err.Error())
	}
	return &habit, nil
}

// GetEligible returns the user's habits created on or before date (inclusive)
// whose weekday schedule contains weekDay. Pure read, identical results for
// live and retroactive dates.
func (hr *HabitsRepository) GetEligible(ctx context.Context, userID string, date time.Time, weekDay int) ([]*entity.Habit, error) {
	habits := make([]*entity.Habit, 0)
	rows, err := hr.conn.Query(ctx, `SELECT h.id, h.title, h.created_at, h.user_id FROM habits h
		WHERE h.user_id = $1 AND h.created_at <= $2
		AND EXISTS (SELECT 1 FROM habit_week_days hwd WHERE hwd.habit_id = h.id AND hwd.week_day = $3)
		ORDER BY h.created_at, h.id;`, userID, date, weekDay)
	if err != nil {
		return nil, errors.New("getting eligible habits error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		h := entity.Habit{}
		err = rows.Scan(&h.ID, &h.Title, &h.CreatedAt, &h.UserID)
		if err != nil {
			return nil, errors.New("unmarshalling habit error: " + err.Error())
		}
		habits = append(habits, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning: " + err.Error())
	}
	return habits, nil
}
