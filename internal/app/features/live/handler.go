package live

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/coursehub/internal/app/system/limits"
	"github.com/dalemusser/coursehub/internal/app/system/ratelimit"
	"github.com/dalemusser/coursehub/internal/app/system/timer"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Handler upgrades /live requests and runs one Session per connection.
type Handler struct {
	Deps     *Deps
	Clock    timer.Clock
	Log      *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler constructs a live Handler. Origins are checked by the
// upgrader's same-origin default unless allowAnyOrigin is set (dev only).
func NewHandler(deps *Deps, allowAnyOrigin bool, logger *zap.Logger) *Handler {
	h := &Handler{
		Deps:  deps,
		Clock: timer.Real(),
		Log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	if allowAnyOrigin {
		h.upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}
	return h
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /live – websocket session                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Debug("live: websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sess := NewSession(uuid.NewString(), ratelimit.ClientIP(r), h.Deps, h.Clock)
	h.Deps.Metrics.SessionOpened()
	defer h.Deps.Metrics.SessionClosed()
	h.Log.Debug("live session opened", zap.String("session", sess.ID()))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go h.writeLoop(ctx, cancel, conn, sess)
	go h.readLoop(cancel, conn, sess)

	sess.Run(ctx)
	h.Log.Debug("live session closed", zap.String("session", sess.ID()))
}

func (h *Handler) readLoop(cancel context.CancelFunc, conn *websocket.Conn, sess *Session) {
	defer cancel()

	conn.SetReadLimit(limits.MaxLiveMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Log.Debug("live: websocket read", zap.String("session", sess.ID()), zap.Error(err))
			}
			return
		}
		if !sess.Dispatch(ev) {
			return
		}
	}
}

func (h *Handler) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, sess *Session) {
	defer cancel()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case <-sess.Done():
			return
		case f := <-sess.Frames():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(f); err != nil {
				h.Log.Debug("live: websocket write", zap.String("session", sess.ID()), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
