// @title Habits API
// @description API for tracking daily habit completion
// @BasePath /
// @schemes http
package main

import (
	"log"

	"github.com/avdeev/habits/internal/api"
	"github.com/avdeev/habits/internal/repository"
	"github.com/avdeev/habits/internal/service"
	"github.com/avdeev/habits/pkg/cleanup"
	"github.com/avdeev/habits/pkg/config"
)

func init() {
	service.InitValidator()
}

func main() {
	defer cleanup.CleanUp()
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	habitsRepo := repository.NewHabitsRepo(&dbCfg)
	daysRepo := repository.NewDaysRepo(&dbCfg)
	serv := api.New(&api.ServicesList{
		HabitsService: service.NewHabitsService(habitsRepo),
		DaysService:   service.NewDaysService(habitsRepo, daysRepo),
	})
	err := serv.Run(cfg.GetStringOrDefault("API_ADDRESS", ":8080"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
