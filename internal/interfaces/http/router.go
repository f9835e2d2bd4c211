package http

import (
	"github.com/gofiber/fiber/v2"

	apppicking "github.com/jhoicas/picking-salida/internal/application/picking"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions   *apppicking.SessionManager
	References *apppicking.ReferenceCatalog
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/picking")

	// Catálogos y tablas de equivalencia
	refHandler := NewReferenceHandler(deps.References, deps.Sessions)
	api.Get("/catalog", refHandler.Catalog)
	api.Get("/references", refHandler.References)
	api.Post("/references/reload", refHandler.Reload)

	// Sesiones de salida
	h := NewPickingHandler(deps.Sessions)
	api.Post("/sessions", h.Create)
	api.Get("/sessions", h.List)

	session := api.Group("/sessions/:id", RequireSession(deps.Sessions))
	session.Get("/", h.Get)
	session.Delete("/", h.Delete)
	session.Get("/meta", h.GetMeta)
	session.Put("/meta", h.UpdateMeta)
	session.Post("/scans", h.Scan)
	session.Get("/scans", h.Scans)
	session.Delete("/scans", h.Reset)
	session.Delete("/scans/:scanID", h.DeleteScan)
	session.Post("/input", h.Input)
	session.Get("/summary", h.Summary)
	session.Post("/export", h.Export)
	session.Get("/picklist.pdf", h.PickList)
}
