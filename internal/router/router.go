package router

import (
	"net/http"

	"pill-dispenser/internal/adapters/storage/memory"
	"pill-dispenser/internal/domain/alerts"
	"pill-dispenser/internal/domain/attendance"
	"pill-dispenser/internal/domain/medications"
	"pill-dispenser/internal/domain/speech"
	"pill-dispenser/internal/domain/vitals"
	"pill-dispenser/internal/domain/voice"
	"pill-dispenser/internal/middleware"
	"pill-dispenser/internal/platform/clock"
	"pill-dispenser/internal/platform/logger"

	_ "pill-dispenser/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Logger logger.Logger
	Clock  clock.Clock

	// Repos opcionales: si no vienen, se usa el store in-memory.
	Medications medications.Repository
	Attendance  attendance.Repository
	Vitals      vitals.Repository

	Transcriber speech.Transcriber // nil => /stt responde 500
	Alerts      *alerts.Service    // nil => servicio sin canales (solo historial)
	Hub         *alerts.Hub        // nil => se crea uno
	Sessions    *voice.Sessions    // nil => se crea uno sobre medications

	// DeviceKey protege las escrituras del dispensador. Vacío = modo dev.
	DeviceKey string
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	clk := opts.Clock // el valor cero usa la zona local

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	medRepo, attRepo := opts.Medications, opts.Attendance
	if medRepo == nil || attRepo == nil {
		medRepo, attRepo = memory.NewDispenserRepos()
	}
	vitalsRepo := opts.Vitals
	if vitalsRepo == nil {
		vitalsRepo = memory.NewVitalsRepo()
	}

	tr := opts.Transcriber
	if tr == nil {
		tr = speech.Unconfigured{}
	}
	hub := opts.Hub
	if hub == nil {
		hub = alerts.NewHub(log)
	}
	alertsSvc := opts.Alerts
	if alertsSvc == nil {
		alertsSvc = alerts.NewService(alerts.Options{Publisher: hub, Logger: log})
	}

	// Services por módulo
	medsSvc := medications.NewService(medRepo, clk)
	attSvc := attendance.NewService(attRepo)
	vitalsSvc := vitals.NewService(vitalsRepo)

	sessions := opts.Sessions
	if sessions == nil {
		sessions = voice.NewSessions(medsSvc, voice.DefaultSessionTTL)
	}

	deviceOnly := middleware.DeviceKey(opts.DeviceKey)

	// Rutas por módulo
	medications.RegisterRoutes(r, medsSvc, deviceOnly)
	attendance.RegisterRoutes(r, attSvc)
	vitals.RegisterRoutes(r, vitalsSvc, deviceOnly)
	speech.RegisterRoutes(r, tr, log)
	alerts.RegisterRoutes(r, alertsSvc, hub)

	voice.RegisterRoutes(r, sessions, opts.Transcriber, log)

	return r
}
