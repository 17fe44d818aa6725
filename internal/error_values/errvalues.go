package errorvalues

import "errors"

var (
	ErrHabitNotFound = errors.New("habit doesn't exist")
	ErrWrongOwner    = errors.New("habit has different owner")
	ErrDayNotFound   = errors.New("day doesn't exist")
	ErrMarkExists    = errors.New("completion mark already exists")
	ErrMarkNotFound  = errors.New("completion mark doesn't exist")
)
