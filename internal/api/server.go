package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avdeev/habits/internal/service"
)

type Server struct {
	mx            *chi.Mux
	habitsService service.HabitsServiceI
	daysService   service.DaysServiceI
}

type ServicesList struct {
	HabitsService service.HabitsServiceI
	DaysService   service.DaysServiceI
}

func New(servicesOptions *ServicesList) *Server {
	return &Server{
		mx:            chi.NewMux(),
		habitsService: servicesOptions.HabitsService,
		daysService:   servicesOptions.DaysService,
	}
}

func (s *Server) Run(addr string) error {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Post("/habits", s.CreateHabit)
	s.mx.Get("/day", s.GetDay)
	s.mx.Patch("/habits/{id}/toggle/{user_id}", s.ToggleHabit)
	s.mx.Get("/summary", s.GetSummary)
	return s.httpServer(addr).ListenAndServe()
}

// httpServer bounds slow clients, handler-side work is already bounded by
// the per-request context timeouts.
func (s *Server) httpServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.mx,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
