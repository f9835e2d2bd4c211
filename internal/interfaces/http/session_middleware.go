package http

import (
	"github.com/gofiber/fiber/v2"

	apppicking "github.com/jhoicas/picking-salida/internal/application/picking"
)

// LocalSession clave de c.Locals con la sesión resuelta.
const LocalSession = "picking_session"

// sessionFinder es el contrato mínimo que necesita el middleware; lo implementa *apppicking.SessionManager.
type sessionFinder interface {
	Get(id string) (*apppicking.Session, error)
}

// RequireSession resuelve :id a la sesión y la deja en Locals. Responde 404 si no existe.
func RequireSession(finder sessionFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := finder.Get(c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalSession, s)
		return c.Next()
	}
}

// GetSession devuelve la sesión cargada por RequireSession.
func GetSession(c *fiber.Ctx) *apppicking.Session {
	s, _ := c.Locals(LocalSession).(*apppicking.Session)
	return s
}
