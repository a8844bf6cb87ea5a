package wire

import (
	"court-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireRealtime(r chi.Router, realtimeHandler *adaptor.RealtimeHandler) {
	// GET /ws?token= - Websocket event stream; the handler authenticates
	// before upgrading, so no HTTP auth middleware sits in front.
	r.Get("/ws", realtimeHandler.Serve)
}
