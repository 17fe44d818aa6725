package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	errorvalues "github.com/avdeev/habits/internal/error_values"
	"github.com/avdeev/habits/pkg/cleanup"
	"github.com/avdeev/habits/pkg/entity"
)

type DaysRepository struct {
	conn PgConnection
}

func NewDaysRepo(cfg DBConfig) *DaysRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for daysRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for daysRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing days pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &DaysRepository{
		conn: pool,
	}
}

func NewDaysRepoWithConn(conn PgConnection) *DaysRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for daysRepo: " + err.Error())
	}
	return &DaysRepository{
		conn: conn,
	}
}

// GetOrCreate relies on the unique constraint on days.date: the no-op upsert
// makes concurrent first-use of a date race-free, both callers get the same id.
func (dr *DaysRepository) GetOrCreate(ctx context.Context, date time.Time) (uuid.UUID, error) {
	var id uuid.UUID
	row := dr.conn.QueryRow(
		ctx,
		`INSERT INTO days (date) VALUES ($1) ON CONFLICT (date) DO UPDATE SET date = EXCLUDED.date RETURNING id;`,
		date,
	)
	if err := row.Scan(&id); err != nil {
		return uuid.UUID{}, errors.New("getting or creating day error: " + err.Error())
	}
	return id, nil
}

func (dr *DaysRepository) GetByDate(ctx context.Context, date time.Time) (*entity.Day, error) {
	var day entity.Day
	row := dr.conn.QueryRow(ctx, `SELECT id, date FROM days WHERE date = $1;`, date)
	if err := row.Scan(&day.ID, &day.Date); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrDayNotFound
		}
		return nil, errors.New("getting day by date error: " + err.Error())
	}
	return &day, nil
}

func (dr *DaysRepository) CompletedHabitIDs(ctx context.Context, dayID uuid.UUID, userID string) ([]uuid.UUID, error) {
	rows, err := dr.conn.Query(
		ctx,
		`SELECT habit_id FROM day_habits WHERE day_id = $1 AND user_id = $2;`,
		dayID,
		userID,
	)
	if err != nil {
		return nil, errors.New("getting completed habits error: " + err.Error())
	}
	defer rows.Close()
	result := make([]uuid.UUID, 0)
	for rows.Next() {
		var habitID uuid.UUID
		if err := rows.Scan(&habitID); err != nil {
			return nil, errors.New("completed habit row parsing error: " + err.Error())
		}
		result = append(result, habitID)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New("unexpected completed habit rows error: " + err.Error())
	}
	return result, nil
}

func (dr *DaysRepository) MarkExists(ctx context.Context, dayID, habitID uuid.UUID, userID string) (bool, error) {
	var exists bool
	row := dr.conn.QueryRow(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM day_habits WHERE day_id = $1 AND habit_id = $2 AND user_id = $3);`,
		dayID,
		habitID,
		userID,
	)
	if err := row.Scan(&exists); err != nil {
		return false, errors.New("inspecting if mark exists error: " + err.Error())
	}
	return exists, nil
}

func (dr *DaysRepository) CreateMark(ctx context.Context, dayID, habitID uuid.UUID, userID string) error {
	_, err := dr.conn.Exec(
		ctx,
		`INSERT INTO day_habits (day_id, habit_id, user_id) VALUES ($1, $2, $3);`,
		dayID,
		habitID,
		userID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation
			case "23505":
				return errorvalues.ErrMarkExists
			// FK violation
			case "23503":
				return errorvalues.ErrHabitNotFound
			}
		}
		return errors.New("creating mark error: " + err.Error())
	}
	return nil
}

func (dr *DaysRepository) DeleteMark(ctx context.Context, dayID, habitID uuid.UUID, userID string) error {
	ct, err := dr.conn.Exec(
		ctx,
		`DELETE FROM day_habits WHERE day_id = $1 AND habit_id = $2 AND user_id = $3;`,
		dayID,
		habitID,
		userID,
	)
	if err != nil {
		return errors.New("deleting mark error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrMarkNotFound
	}
	return nil
}

// Summary recomputes the eligibility predicate per historical day in SQL:
// EXTRACT(DOW ...) is zero-based with Sunday = 0, same code space as
// dateutil.WeekDay, so live and retroactive derivations agree.
func (dr *DaysRepository) Summary(ctx context.Context, userID string) ([]entity.DaySummary, error) {
	rows, err := dr.conn.Query(
		ctx,
		`SELECT d.id, d.date,
			(SELECT CAST(COUNT(*) AS float) FROM day_habits dh
				WHERE dh.day_id = d.id AND dh.user_id = $1) AS completed,
			(SELECT CAST(COUNT(*) AS float) FROM habit_week_days hwd
				JOIN habits h ON h.id = hwd.habit_id
				WHERE hwd.week_day = CAST(EXTRACT(DOW FROM d.date) AS int)
				AND h.created_at <= d.date AND h.user_id = $1) AS amount
		FROM days d
		WHERE EXISTS (SELECT 1 FROM day_habits dh WHERE dh.day_id = d.id AND dh.user_id = $1)
		ORDER BY d.date;`,
		userID,
	)
	if err != nil {
		return nil, errors.New("getting summary error: " + err.Error())
	}
	defer rows.Close()
	result := make([]entity.DaySummary, 0)
	for rows.Next() {
		s := entity.DaySummary{}
		if err := rows.Scan(&s.ID, &s.Date, &s.Completed, &s.Amount); err != nil {
			return nil, errors.New("summary row parsing error: " + err.Error())
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New("unexpected summary rows error: " + err.Error())
	}
	return result, nil
}
