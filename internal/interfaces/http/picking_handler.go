package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/picking-salida/internal/application/dto"
	apppicking "github.com/jhoicas/picking-salida/internal/application/picking"
	"github.com/jhoicas/picking-salida/internal/domain/entity"
)

// PickingHandler sesiones de salida: lecturas, cabecera, conteo y exportación.
type PickingHandler struct {
	sessions *apppicking.SessionManager
}

// NewPickingHandler construye el handler.
func NewPickingHandler(sessions *apppicking.SessionManager) *PickingHandler {
	return &PickingHandler{sessions: sessions}
}

// Create godoc
// @Summary      Abrir sesión de salida
// @Tags         picking
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSessionRequest  false  "Estación de trabajo"
// @Success      201   {object}  dto.SessionResponse
// @Router       /api/picking/sessions [post]
func (h *PickingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	s, err := h.sessions.Create(c.UserContext(), in.Station)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSessionResponse(s.Info()))
}

// List godoc
// @Summary      Listar sesiones abiertas
// @Tags         picking
// @Produce      json
// @Success      200  {object}  dto.SessionListResponse
// @Router       /api/picking/sessions [get]
func (h *PickingHandler) List(c *fiber.Ctx) error {
	infos := h.sessions.List()
	items := make([]dto.SessionResponse, 0, len(infos))
	for _, info := range infos {
		items = append(items, toSessionResponse(info))
	}
	return c.JSON(dto.SessionListResponse{Items: items, Total: len(items)})
}

// Get godoc
// @Summary      Estado de la sesión
// @Tags         picking
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/picking/sessions/{id} [get]
func (h *PickingHandler) Get(c *fiber.Ctx) error {
	return c.JSON(toSessionResponse(GetSession(c).Info()))
}

// Delete godoc
// @Summary      Cerrar sesión
// @Tags         picking
// @Param        id   path  string  true  "ID de la sesión"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/picking/sessions/{id} [delete]
func (h *PickingHandler) Delete(c *fiber.Ctx) error {
	if err := h.sessions.Delete(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetMeta godoc
// @Summary      Cabecera de la salida
// @Tags         picking
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.MetaResponse
// @Router       /api/picking/sessions/{id}/meta [get]
func (h *PickingHandler) GetMeta(c *fiber.Ctx) error {
	return c.JSON(toMetaResponse(GetSession(c).Meta()))
}

// UpdateMeta godoc
// @Summary      Guardar cabecera (responsable, origen, destino, bultos, remito)
// @Tags         picking
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID de la sesión"
// @Param        body  body  dto.MetaRequest  true  "Cabecera"
// @Success      200   {object}  dto.MetaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/picking/sessions/{id}/meta [put]
func (h *PickingHandler) UpdateMeta(c *fiber.Ctx) error {
	var in dto.MetaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	m, err := GetSession(c).UpdateMeta(c.UserContext(), entity.SessionMeta{
		Responsable: in.Responsable,
		Origen:      in.Origen,
		Destino:     in.Destino,
		Bultos:      in.Bultos,
		Remito:      in.Remito,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toMetaResponse(m))
}

// Scan godoc
// @Summary      Registrar una lectura completa
// @Tags         picking
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID de la sesión"
// @Param        body  body  dto.ScanRequest  true  "Código leído"
// @Success      201   {object}  dto.ScanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/picking/sessions/{id}/scans [post]
func (h *PickingHandler) Scan(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ev, err := GetSession(c).Scan(in.Code)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toScanResponse(ev))
}

// Input godoc
// @Summary      Enviar caracteres del lector (autocommit por inactividad o commit explícito)
// @Tags         picking
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID de la sesión"
// @Param        body  body  dto.InputRequest  true  "Caracteres"
// @Success      200   {object}  dto.InputResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/picking/sessions/{id}/input [post]
func (h *PickingHandler) Input(c *fiber.Ctx) error {
	var in dto.InputRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := GetSession(c).Input(in.Chars, in.Commit)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.InputResponse{State: res.State, Buffer: res.Buffer}
	if res.Event != nil {
		sr := toScanResponse(*res.Event)
		out.Scan = &sr
	}
	return c.JSON(out)
}

// Scans godoc
// @Summary      Lecturas de la sesión, la más reciente primero
// @Tags         picking
// @Produce      json
// @Param        id     path   string  true   "ID de la sesión"
// @Param        limit  query  int     false  "Máximo (0 = todas)"  default(0)
// @Success      200    {object}  dto.ScanListResponse
// @Router       /api/picking/sessions/{id}/scans [get]
func (h *PickingHandler) Scans(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		limit = 0
	}
	s := GetSession(c)
	events := s.Scans(limit)
	items := make([]dto.ScanResponse, 0, len(events))
	for _, ev := range events {
		items = append(items, toScanResponse(ev))
	}
	return c.JSON(dto.ScanListResponse{Items: items, Total: s.Info().Scans})
}

// DeleteScan godoc
// @Summary      Borrar una lectura
// @Tags         picking
// @Param        id      path  string  true  "ID de la sesión"
// @Param        scanID  path  int     true  "ID de la lectura"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/picking/sessions/{id}/scans/{scanID} [delete]
func (h *PickingHandler) DeleteScan(c *fiber.Ctx) error {
	scanID, err := strconv.ParseInt(c.Params("scanID"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "scanID inválido"})
	}
	if err := GetSession(c).DeleteScan(scanID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reset godoc
// @Summary      Borrar todas las lecturas
// @Tags         picking
// @Param        id   path  string  true  "ID de la sesión"
// @Success      204
// @Router       /api/picking/sessions/{id}/scans [delete]
func (h *PickingHandler) Reset(c *fiber.Ctx) error {
	GetSession(c).Reset()
	return c.SendStatus(fiber.StatusNoContent)
}

// Summary godoc
// @Summary      Conteo por artículo
// @Tags         picking
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SummaryResponse
// @Router       /api/picking/sessions/{id}/summary [get]
func (h *PickingHandler) Summary(c *fiber.Ctx) error {
	sum := GetSession(c).Summary()
	articles := make([]dto.ArticleGroupResponse, 0, len(sum.Groups))
	for _, g := range sum.Groups {
		variants := make([]dto.VariantResponse, 0, len(g.Variants))
		for _, v := range g.Variants {
			variants = append(variants, dto.VariantResponse{Label: v.Label, Count: v.Count})
		}
		articles = append(articles, dto.ArticleGroupResponse{
			Label:    g.Label,
			Total:    g.Total,
			Matched:  g.Matched,
			Variants: variants,
		})
	}
	return c.JSON(dto.SummaryResponse{
		TotalScans: sum.TotalScans,
		Matched:    sum.Matched,
		Unmatched:  sum.Unmatched,
		Articles:   articles,
	})
}

// Export godoc
// @Summary      Generar el TXT y subirlo al Drive del origen
// @Tags         picking
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.ExportResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/picking/sessions/{id}/export [post]
func (h *PickingHandler) Export(c *fiber.Ctx) error {
	res, err := GetSession(c).Export(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ExportResponse{
		FileName: res.FileName,
		Folder:   res.Folder,
		Origin:   res.Origin,
		Lines:    res.Lines,
		Cleared:  res.Cleared,
	})
}

// PickList godoc
// @Summary      Hoja de picking en PDF
// @Tags         picking
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {file}  binary
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/picking/sessions/{id}/picklist.pdf [get]
func (h *PickingHandler) PickList(c *fiber.Ctx) error {
	s := GetSession(c)
	doc, err := s.PickListPDF(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="picking-%s.pdf"`, s.ID()))
	return c.Send(doc)
}

// ── Mapeo a DTO ──────────────────────────────────────────────────────────────

func toScanResponse(ev entity.ScanEvent) dto.ScanResponse {
	return dto.ScanResponse{ID: ev.ID, Code: ev.RawCode, Matched: ev.Matched, At: ev.At}
}

func toMetaResponse(m entity.SessionMeta) dto.MetaResponse {
	out := dto.MetaResponse{
		Station:     m.Station,
		Responsable: m.Responsable,
		Origen:      m.Origen,
		Destino:     m.Destino,
		Bultos:      m.Bultos,
		Remito:      m.Remito,
	}
	if !m.UpdatedAt.IsZero() {
		at := m.UpdatedAt
		out.UpdatedAt = &at
	}
	return out
}

func toSessionResponse(info apppicking.SessionInfo) dto.SessionResponse {
	return dto.SessionResponse{
		ID:        info.ID,
		Station:   info.Station,
		CreatedAt: info.CreatedAt,
		Scans:     info.Scans,
		State:     info.State,
		Buffer:    info.Buffer,
		Meta:      toMetaResponse(info.Meta),
	}
}
