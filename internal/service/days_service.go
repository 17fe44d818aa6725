package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	errorvalues "github.com/avdeev/habits/internal/error_values"
	"github.com/avdeev/habits/internal/repository"
	"github.com/avdeev/habits/pkg/dateutil"
	"github.com/avdeev/habits/pkg/entity"
)

type DaysService struct {
	habitsRepo repository.HabitsRepositoryI
	daysRepo   repository.DaysRepositoryI
}

func NewDaysService(habitsRepo repository.HabitsRepositoryI, daysRepo repository.DaysRepositoryI) *DaysService {
	if habitsRepo == nil || daysRepo == nil {
		log.Fatal("on days service provided nil repos")
	}
	return &DaysService{
		habitsRepo: habitsRepo,
		daysRepo:   daysRepo,
	}
}

// GetDay joins eligibility with the day ledger: habits of the user created
// on/before the date whose schedule contains its weekday, next to the ids
// already marked completed. A date nobody toggled yet has no day row, that
// is an empty completed set, not an error.
func (ds *DaysService) GetDay(ctx context.Context, date time.Time, userID string) (*DayOverview, error) {
	date = dateutil.StartOfDay(date)
	possible, err := ds.habitsRepo.GetEligible(ctx, userID, date, dateutil.WeekDay(date))
	if err != nil {
		return nil, errors.New("habits repository error: " + err.Error())
	}
	completed := make([]uuid.UUID, 0)
	day, err := ds.daysRepo.GetByDate(ctx, date)
	if err != nil && !errors.Is(err, errorvalues.ErrDayNotFound) {
		return nil, errors.New("days repository error: " + err.Error())
	}
	if day != nil {
		completed, err = ds.daysRepo.CompletedHabitIDs(ctx, day.ID, userID)
		if err != nil {
			return nil, errors.New("days repository error: " + err.Error())
		}
	}
	return &DayOverview{
		PossibleHabits:  possible,
		CompletedHabits: completed,
	}, nil
}

// ToggleCompletion flips the mark of (habit, user) for the calendar day of
// date. The habit must exist and belong to the user; eligibility on that
// weekday is intentionally not required. Concurrent duplicate toggles
// converge: losing an insert race means the mark is already there, losing a
// delete race means it is already gone, neither is an error.
func (ds *DaysService) ToggleCompletion(ctx context.Context, habitID uuid.UUID, userID string, date time.Time) (bool, error) {
	habit, err := ds.habitsRepo.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHabitNotFound) {
			return false, err
		}
		return false, errors.New("habits repository error: " + err.Error())
	}
	if habit.UserID != userID {
		return false, errorvalues.ErrWrongOwner
	}
	date = dateutil.StartOfDay(date)
	dayID, err := ds.daysRepo.GetOrCreate(ctx, date)
	if err != nil {
		return false, errors.New("days repository error: " + err.Error())
	}
	exists, err := ds.daysRepo.MarkExists(ctx, dayID, habitID, userID)
	if err != nil {
		return false, errors.New("days repository error: " + err.Error())
	}
	if exists {
		err = ds.daysRepo.DeleteMark(ctx, dayID, habitID, userID)
		if err != nil && !errors.Is(err, errorvalues.ErrMarkNotFound) {
			return false, errors.New("days repository error: " + err.Error())
		}
		return false, nil
	}
	err = ds.daysRepo.CreateMark(ctx, dayID, habitID, userID)
	if err != nil && !errors.Is(err, errorvalues.ErrMarkExists) {
		return false, errors.New("days repository error: " + err.Error())
	}
	return true, nil
}

func (ds *DaysService) Summary(ctx context.Context, userID string) ([]entity.DaySummary, error) {
	summary, err := ds.daysRepo.Summary(ctx, userID)
	if err != nil {
		return nil, errors.New("days repository error: " + err.Error())
	}
	return summary, nil
}
