package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rhportal/payslip-engine/internal/logger"
	"github.com/rhportal/payslip-engine/internal/payslip"
)

type application struct {
	config  config
	service *payslip.Service
	logger  *logger.Logger
}

type config struct {
	addr       string
	corsOrigin string
	db         dbConfig
}

type dbConfig struct {
	addr         string
	maxOpenConns int
	maxIdleConns int
	maxIdleTime  string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// The portal is a cookie-bound browser frontend on another origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.config.corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	// Per-request deadline; the engine itself does bounded single-pass work.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Route("/payslips", func(r chi.Router) {
			r.Get("/", app.handleGetPayslip)
			r.Get("/competencies", app.handleListCompetencies)
		})
		r.Route("/acknowledgments", func(r chi.Router) {
			r.Post("/", app.handleRecordAcknowledgment)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	app.logger.Info("api", "server started on %s", app.config.addr)
	return srv.ListenAndServe()
}
