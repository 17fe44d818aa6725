package service

import (
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("weekdays", func(fl validator.FieldLevel) bool {
			field := fl.Field()
			if field.Kind() != reflect.Slice || field.IsNil() {
				return false
			}
			// Empty schedule is allowed: the habit is just never eligible
			for i := 0; i < field.Len(); i++ {
				day := field.Index(i).Int()
				if day < 0 || day > 6 {
					return false
				}
			}
			return true
		})
	})
}
