package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/pkg/middleware"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.Auth.TokenSecret, log))

		// POST /api/reservations - Hold a slot while paying
		r.Post("/api/reservations", bookingHandler.CreateReservation)

		// POST /api/bookings - Confirm a reservation, or book directly (admin)
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// PUT /api/bookings/{id}/cancel - Cancel own booking (admins: any)
		r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)

		// GET /api/user/bookings - View own booking history
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/clubs", func(r chi.Router) {
		r.Use(middleware.Auth(config.Auth.TokenSecret, log))
		r.Use(middleware.Admin(log))

		// GET /api/admin/clubs/{id}/bookings?from=&to= - Club calendar view
		r.Get("/{id}/bookings", bookingHandler.GetClubBookings)
	})

	// ==================== TRUSTED CALLER ROUTES ====================
	r.Route("/api/internal/bookings", func(r chi.Router) {
		r.Use(middleware.TrustedCaller(config.Auth.AdminAPIKeyHash, log))

		// POST /api/internal/bookings - Machine-to-machine direct booking
		r.Post("/", bookingHandler.CreateTrustedBooking)
	})
}
