package websocket

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/CodeClash/internal/user"
	"github.com/thesrcielos/CodeClash/websocket/router"
	"github.com/thesrcielos/CodeClash/websocket/state"
	"go.uber.org/zap"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

type Handler struct {
	router *router.Router
	logger *zap.Logger
}

func NewHandler(r *router.Router, logger *zap.Logger) *Handler {
	return &Handler{router: r, logger: logger}
}

// WebSocketHandler upgrades an authenticated request and registers the
// connection as the user's push channel. The token comes in the query string
// since browsers cannot set headers on websocket requests.
func (h *Handler) WebSocketHandler(c echo.Context) error {
	userID, err := ValidateJWT(c.QueryParam("token"))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}

	if previous := state.RegisterPlayer(userID, ws); previous != nil {
		previous.Conn.Close()
	}
	h.logger.Info("player connected", zap.Uint("user_id", userID), zap.Int("connections", state.Count()))
	go h.listenPlayerMessages(context.Background(), userID, ws)

	return nil
}

func ValidateJWT(tokenString string) (uint, error) {
	claims, err := user.ParseToken(tokenString)
	if err != nil {
		return 0, err
	}
	return claims.Id, nil
}
