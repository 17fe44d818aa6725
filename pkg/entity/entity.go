package entity

import (
	"time"

	"github.com/google/uuid"
)

type Habit struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
}

// Day is a shared calendar anchor: one row per date across all users,
// completion marks carry the user discriminator.
type Day struct {
	ID   uuid.UUID
	Date time.Time
}

type CompletionMark struct {
	ID      uuid.UUID
	DayID   uuid.UUID
	HabitID uuid.UUID
	UserID  string
}

type DaySummary struct {
	ID        uuid.UUID `json:"id"`
	Date      time.Time `json:"date"`
	Completed float64   `json:"completed"`
	Amount    float64   `json:"amount"`
}
