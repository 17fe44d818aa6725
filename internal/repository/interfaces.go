package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avdeev/habits/pkg/entity"
)

type HabitsRepositoryI interface {
	// Persists habit with its weekday schedule in one transaction.
	// In habit only Title, CreatedAt, UserID are necessary. Returns new id
	Create(ctx context.Context, habit *entity.Habit, weekDays []int) (uuid.UUID, error)
	// Searches habit with given id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Habit, error)
	// Lists habits of user created on/before date whose schedule contains weekDay
	GetEligible(ctx context.Context, userID string, date time.Time, weekDay int) ([]*entity.Habit, error)
}

type DaysRepositoryI interface {
	// Returns id of the day row for date, creating it atomically when absent.
	// Safe under concurrent first-use of the same date
	GetOrCreate(ctx context.Context, date time.Time) (uuid.UUID, error)
	// Looks up the day row for date
	GetByDate(ctx context.Context, date time.Time) (*entity.Day, error)
	// Habit ids marked completed on dayID by userID
	CompletedHabitIDs(ctx context.Context, dayID uuid.UUID, userID string) ([]uuid.UUID, error)
	// Inspects if a completion mark exists for the triple
	MarkExists(ctx context.Context, dayID, habitID uuid.UUID, userID string) (bool, error)
	// Creates a completion mark for the triple
	CreateMark(ctx context.Context, dayID, habitID uuid.UUID, userID string) error
	// Deletes the completion mark for the triple (unmark)
	DeleteMark(ctx context.Context, dayID, habitID uuid.UUID, userID string) error
	// Per-day completed/eligible counts for every day the user marked
	Summary(ctx context.Context, userID string) ([]entity.DaySummary, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
