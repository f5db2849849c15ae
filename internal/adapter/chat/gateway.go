package chat

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	readTimeout  = 5 * time.Minute
	writeTimeout = 5 * time.Second
	maxFrame     = 64 * 1024
)

const slowDownReply = "**Slow down**: too many commands, try again in a moment."

type handler interface {
	Handle(ctx context.Context, member, message string) string
}

// Gateway serves the chat protocol over websocket: every text frame is one
// command and gets exactly one text frame back.
type Gateway struct {
	handler handler
	log     *zap.Logger
	limit   rate.Limit
	burst   int

	upgrader websocket.Upgrader
}

// NewGateway limits each connection to perSecond commands with the given
// burst. A non-positive perSecond disables the limit. Browser connections are
// accepted from the gateway's own host and from allowedOrigins; "*" accepts
// any origin.
func NewGateway(h handler, logger *zap.Logger, perSecond float64, burst int, allowedOrigins []string) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst <= 0 {
		burst = 1
	}
	return &Gateway{
		handler: h,
		log:     logger,
		limit:   limit,
		burst:   burst,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  maxFrame,
			WriteBufferSize: maxFrame,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// originChecker accepts requests without an Origin header, which is how bots
// and command-line clients connect.
func originChecker(allowed []string) func(*http.Request) bool {
	set := map[string]bool{}
	anyOrigin := false
	for _, o := range allowed {
		o = normalizeOrigin(o)
		if o == "*" {
			anyOrigin = true
		}
		if o != "" {
			set[o] = true
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || anyOrigin {
			return true
		}
		if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
			return true
		}
		return set[normalizeOrigin(origin)]
	}
}

func normalizeOrigin(o string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))
}

// Handler upgrades the request. The member speaking on the connection is
// taken from the "member" query parameter.
func (g *Gateway) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		member := strings.TrimSpace(r.URL.Query().Get("member"))
		if member == "" {
			http.Error(rw, "member query parameter is required", http.StatusBadRequest)
			return
		}
		conn, err := g.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.SetReadLimit(maxFrame)

		log := g.log.With(zap.String("member", member), zap.String("remote", r.RemoteAddr))
		log.Debug("chat connection opened")
		defer log.Debug("chat connection closed")

		limiter := rate.NewLimiter(g.limit, g.burst)
		ctx := r.Context()
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			kind, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Info("chat connection dropped", zap.Error(err))
				}
				return
			}
			if kind != websocket.TextMessage {
				continue
			}

			reply := slowDownReply
			if limiter.Allow() {
				reply = g.handler.Handle(ctx, member, string(msg))
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
				log.Info("chat write failed", zap.Error(err))
				return
			}
		}
	}
}
