package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/avdeev/habits/internal/repository"
	"github.com/avdeev/habits/pkg/dateutil"
	"github.com/avdeev/habits/pkg/entity"
)

type HabitsService struct {
	repo repository.HabitsRepositoryI
}

func NewHabitsService(habitsRepo repository.HabitsRepositoryI) *HabitsService {
	if habitsRepo == nil {
		log.Fatal("provided nil habitsRepo")
	}
	return &HabitsService{
		repo: habitsRepo,
	}
}

func (hs *HabitsService) CreateHabit(ctx context.Context, req *CreateHabitRequest) (uuid.UUID, error) {
	if err := validate.Struct(req); err != nil {
		return uuid.UUID{}, err
	}
	h := entity.Habit{
		Title:     req.Title,
		CreatedAt: dateutil.StartOfDay(time.Now()),
		UserID:    req.UserID,
	}
	id, err := hs.repo.Create(ctx, &h, req.WeekDays)
	if err != nil {
		return uuid.UUID{}, errors.New("habits repository error: " + err.Error())
	}
	return id, nil
}
