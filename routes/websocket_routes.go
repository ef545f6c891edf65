package routes

import (
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	config "github.com/prasetyodwi/forklift_rental/configs"
	ws "github.com/prasetyodwi/forklift_rental/websocket"
)

// WebsocketRoutes exposes the admin event stream. Browsers cannot set an
// Authorization header on the upgrade request, so the JWT travels as a
// query parameter and is verified by hand.
func WebsocketRoutes(app *fiber.App, hub *ws.Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		tokenStr := c.Query("token")
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(config.MustConfig("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  false,
				"message": "Invalid or expired JWT",
			})
		}
		if role, _ := claims["role"].(string); role != "admin" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  false,
				"message": "Access denied. Admin only.",
			})
		}
		return c.Next()
	})

	app.Get("/ws/admin", websocket.New(func(conn *websocket.Conn) {
		hub.Register(conn)
		defer func() {
			hub.Unregister(conn)
			conn.Close()
		}()

		// Drain client frames so pings are answered; the stream is
		// server to client only.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				log.Printf("Admin websocket closed: %v", err)
				break
			}
		}
	}))
}
