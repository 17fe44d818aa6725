package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/avdeev/habits/pkg/entity"
)

type CreateHabitRequest struct {
	Title    string `validate:"required"`
	WeekDays []int  `validate:"weekdays"`
	UserID   string `validate:"required"`
}

// DayOverview pairs the habits eligible on a date with the ids the user
// already marked completed that date.
type DayOverview struct {
	PossibleHabits  []*entity.Habit `json:"possibleHabits"`
	CompletedHabits []uuid.UUID     `json:"completedHabits"`
}

type HabitsServiceI interface {
	// Validates request, persists habit with creation date = current local
	// midnight. Returns new habit's id
	CreateHabit(ctx context.Context, req *CreateHabitRequest) (uuid.UUID, error)
}

type DaysServiceI interface {
	// Eligible vs completed habits of the user for the calendar day of date
	GetDay(ctx context.Context, date time.Time, userID string) (*DayOverview, error)
	// Flips the completion mark of (habit, user) for the calendar day of date.
	// Returns resulting state: true when the habit ended up marked
	ToggleCompletion(ctx context.Context, habitID uuid.UUID, userID string, date time.Time) (bool, error)
	// Historical per-day completed/eligible counts for the user
	Summary(ctx context.Context, userID string) ([]entity.DaySummary, error)
}
