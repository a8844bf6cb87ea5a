package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/pkg/middleware"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireNotification(
	r chi.Router,
	notificationHandler *adaptor.NotificationHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(middleware.Auth(config.Auth.TokenSecret, log))

		// GET /api/notifications - Inbox listing
		r.Get("/", notificationHandler.GetNotifications)

		// GET /api/notifications/unread - Unread counter
		r.Get("/unread", notificationHandler.GetUnreadCount)

		// PUT /api/notifications/{id}/read - Mark one as read
		r.Put("/{id}/read", notificationHandler.MarkRead)
	})
}
