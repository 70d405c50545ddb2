package handler

import (
	"net/http"
	"strings"

	"interfaz/internal/apierror"
	"interfaz/internal/middleware"
	"interfaz/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StockWS streams stock changes. Browsers cannot set headers on a websocket
// handshake, so the access token may also travel as ?token=.
func StockWS(hub *realtime.Hub, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		claims, err := middleware.ParseToken(token, secret)
		if err != nil || claims.Type == "refresh" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Msg("ws: upgrade failed")
			return
		}
		log.Debug().Str("username", claims.Username).Msg("ws: conexion de stock")
		hub.Atender(conn)
	}
}
