package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/picking-salida/internal/application/dto"
	apppicking "github.com/jhoicas/picking-salida/internal/application/picking"
)

// ReferenceHandler catálogos y tablas de equivalencia.
type ReferenceHandler struct {
	refs     *apppicking.ReferenceCatalog
	sessions *apppicking.SessionManager
}

// NewReferenceHandler construye el handler.
func NewReferenceHandler(refs *apppicking.ReferenceCatalog, sessions *apppicking.SessionManager) *ReferenceHandler {
	return &ReferenceHandler{refs: refs, sessions: sessions}
}

// Catalog godoc
// @Summary      Responsables y sucursales
// @Tags         picking
// @Produce      json
// @Success      200  {object}  dto.CatalogResponse
// @Router       /api/picking/catalog [get]
func (h *ReferenceHandler) Catalog(c *fiber.Ctx) error {
	cat := h.sessions.Catalog()
	return c.JSON(dto.CatalogResponse{
		Responsables:  nonNil(cat.Responsables),
		Sucursales:    nonNil(cat.Sucursales),
		UploadOrigins: nonNil(h.sessions.UploadOrigins()),
	})
}

// References godoc
// @Summary      Estado de las tablas de equivalencia
// @Tags         picking
// @Produce      json
// @Success      200  {object}  dto.ReferencesResponse
// @Router       /api/picking/references [get]
func (h *ReferenceHandler) References(c *fiber.Ctx) error {
	return c.JSON(toReferencesResponse(h.refs.Report()))
}

// Reload godoc
// @Summary      Volver a leer las tablas de equivalencia
// @Tags         picking
// @Produce      json
// @Success      200  {object}  dto.ReferencesResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/picking/references/reload [post]
func (h *ReferenceHandler) Reload(c *fiber.Ctx) error {
	report, err := h.refs.Reload(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toReferencesResponse(report))
}

func toReferencesResponse(r apppicking.LoadReport) dto.ReferencesResponse {
	files := make([]dto.ReferenceFileResponse, 0, len(r.Files))
	for _, f := range r.Files {
		files = append(files, dto.ReferenceFileResponse{Name: f.Name, OK: f.OK, Rows: f.Rows, Error: f.Error})
	}
	return dto.ReferencesResponse{
		Status:    r.Status,
		Loaded:    r.Loaded,
		Total:     r.Total,
		Codes:     r.Codes,
		Files:     files,
		Fallbacks: r.Fallbacks,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
