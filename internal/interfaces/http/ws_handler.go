package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/infrastructure/ws"
)

// WSUpgrade exige el upgrade de websocket y un token válido en ?token=
// (los navegadores no permiten headers en el handshake).
func WSUpgrade(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if err := setIdentity(c, jwtSecret, c.Query("token")); err != nil {
			return tokenError(c, err)
		}
		return c.Next()
	}
}

// WSHandler registra la conexión en el hub hasta que el cliente la cierra.
func WSHandler(hub *ws.Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		hub.Register(conn)
		defer hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
