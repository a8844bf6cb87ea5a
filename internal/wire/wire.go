// internal/wire/wire.go
package wire

import (
	"net/http"

	"court-booking/internal/adaptor"
	"court-booking/internal/data/repository"
	"court-booking/internal/event"
	"court-booking/internal/notification"
	"court-booking/internal/realtime"
	"court-booking/internal/sweeper"
	"court-booking/internal/usecase"
	"court-booking/pkg/middleware"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the assembled application.
type App struct {
	Router  *chi.Mux
	Hub     *realtime.Hub
	Sweeper *sweeper.Sweeper
}

// Wiring builds the full dependency graph: event fan-out first, then the
// services that publish into it, then the HTTP surface.
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) (*App, error) {
	hub := realtime.NewHub(logger)
	toaster := notification.NewToaster(config.Notify.ToastWindow, notification.LogWriter{Log: logger}, logger)
	inbox := notification.NewInbox(repo.Notification, logger)
	sink := event.NewFanout(hub, toaster, inbox)
	clock := event.NewClock()

	service := usecase.NewService(repo, config, sink, clock, logger)
	authn := realtime.NewAuthenticator(config.Auth.TokenSecret, repo.Membership, logger)
	handler := adaptor.NewHandler(service, hub, authn, logger)

	sweep, err := sweeper.New(config.Reservation.SweepInterval, service.Reservation, logger)
	if err != nil {
		return nil, err
	}

	router := setupRouter(handler, config, logger)

	return &App{
		Router:  router,
		Hub:     hub,
		Sweeper: sweep,
	}, nil
}

// setupRouter configures the Chi router.
func setupRouter(
	handler *adaptor.Handler,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireBooking(r, handler.Booking, config, logger)
	wireCourt(r, handler.Court)
	wireNotification(r, handler.Notification, config, logger)
	wireRealtime(r, handler.Realtime)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
