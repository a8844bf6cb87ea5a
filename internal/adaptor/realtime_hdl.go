package adaptor

import (
	"net/http"

	"court-booking/internal/realtime"
	"court-booking/pkg/utils"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin policy is delegated to the CORS layer; the socket carries its
	// own token so a forged origin alone gains nothing.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type RealtimeHandler struct {
	hub   *realtime.Hub
	authn *realtime.Authenticator
	log   *zap.Logger
}

func NewRealtimeHandler(hub *realtime.Hub, authn *realtime.Authenticator, log *zap.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		hub:   hub,
		authn: authn,
		log:   log.With(zap.String("handler", "realtime")),
	}
}

// Serve handles GET /ws?token= and upgrades to a websocket. The token is
// checked before the upgrade; an unauthenticated caller never reaches the
// socket layer.
func (h *RealtimeHandler) Serve(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		utils.ResponseUnauthorized(w, "Connection token is required")
		return
	}

	cc, err := h.authn.Authenticate(r.Context(), token)
	if err != nil {
		h.log.Warn("Websocket authentication failed", zap.Error(err))
		utils.ResponseUnauthorized(w, "Invalid connection token")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	client := realtime.NewClient(h.hub, conn, cc, h.log)
	go client.Run()
}
