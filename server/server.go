package server

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/sanfx/clinc-app/clinic"
	"github.com/sanfx/clinc-app/server/cron"
	"github.com/sanfx/clinc-app/shared"
	"go.uber.org/zap"
)

const DEFAULT_PORT = 3000

type Server struct {
	clinic *clinic.Clinic
	logg   *zap.SugaredLogger
	router *mux.Router
}

func NewServer(c *clinic.Clinic, logg *zap.SugaredLogger) *Server {
	s := &Server{clinic: c, logg: logg, router: mux.NewRouter()}
	s.routes()

	return s
}

func (s *Server) routes() {
	s.router.Use(requestIDMiddleware, s.loggingMiddleware, jsonContentMiddleware)

	patients := s.router.PathPrefix("/patients").Subrouter()
	patients.HandleFunc("", s.createPatient).Methods(http.MethodPost)
	patients.HandleFunc("", s.listPatients).Methods(http.MethodGet)
	patients.HandleFunc("/{id:[0-9]+}", s.findPatient).Methods(http.MethodGet)
	patients.HandleFunc("/{id:[0-9]+}", s.deletePatient).Methods(http.MethodDelete)

	patients.HandleFunc("/{id:[0-9]+}/vitals", s.createVitals).Methods(http.MethodPost)
	patients.HandleFunc("/{id:[0-9]+}/vitals", s.listVitals).Methods(http.MethodGet)
	patients.HandleFunc("/{id:[0-9]+}/vitals/latest", s.latestVitals).Methods(http.MethodGet)

	patients.HandleFunc("/{id:[0-9]+}/history", s.createHistory).Methods(http.MethodPost)
	patients.HandleFunc("/{id:[0-9]+}/history", s.listHistory).Methods(http.MethodGet)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves the clinic API and runs the photo clean up job until the process
// receives an interrupt.
func Start(config shared.ClinicConfig, c *clinic.Clinic, logg *zap.SugaredLogger) error {
	s := NewServer(c, logg)

	scheduler := cron.NewCronScheduler(config.Server.TimeZone)
	err := registerJobs(scheduler, c.Patients, config.Photos.CleanupSchedule, logg)
	if err != nil {
		return err
	}
	scheduler.StartAsync()

	port := config.Server.Port
	if port == 0 {
		port = DEFAULT_PORT
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%v", port),
		Handler: s.Handler(),
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go s.serve(httpServer)

	<-done
	s.cleanup(scheduler, httpServer)

	return nil
}
