package httpapi

import (
	"net/http"
	"time"

	"github.com/carelinkhq/telecare/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Server holds the delivery layer's dependencies and exposes the API router.
type Server struct {
	auth         AuthStore
	users        *service.UserService
	availability *service.AvailabilityService
	slots        *service.SlotService
	bookings     *service.AppointmentService
	requests     *service.RequestService
	video        *service.VideoService
	validate     *validator.Validate
	logger       *zap.Logger
}

func NewServer(
	auth AuthStore,
	users *service.UserService,
	availability *service.AvailabilityService,
	slots *service.SlotService,
	bookings *service.AppointmentService,
	requests *service.RequestService,
	video *service.VideoService,
	logger *zap.Logger,
) *Server {
	return &Server{
		auth:         auth,
		users:        users,
		availability: availability,
		slots:        slots,
		bookings:     bookings,
		requests:     requests,
		video:        video,
		validate:     validator.New(),
		logger:       logger,
	}
}

// Router builds the full route tree. Everything under /api/v1 except the
// health check requires a bearer token.
func (s *Server) Router(rateLimitPerSec int) chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	router.Use(httprate.LimitByIP(rateLimitPerSec, time.Second))

	router.Get("/healthz", s.health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authenticate)

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", s.listSchedules)
			r.Post("/", s.createSchedule)
			r.Delete("/{uuid}", s.deleteSchedule)
		})

		r.Route("/providers", func(r chi.Router) {
			r.Get("/", s.listProviders)
			r.Post("/{uuid}/select", s.selectProvider)
			r.Get("/{uuid}/schedules", s.listProviderSchedules)
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Get("/", s.listAppointments)
			r.Post("/", s.bookAppointment)
			r.Post("/available", s.availableBlocks)
			r.Post("/{uuid}/cancel", s.cancelAppointment)
			r.Post("/{uuid}/end", s.endAppointment)
			r.Get("/{uuid}/session-token", s.sessionToken)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Get("/", s.listRequests)
			r.Get("/count", s.countRequests)
			r.Post("/", s.createRequest)
			r.Post("/{uuid}/accept", s.acceptRequest)
			r.Post("/{uuid}/decline", s.declineRequest)
		})
	})

	return router
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
